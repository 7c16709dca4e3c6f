package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/domain"
	"go.uber.org/zap"
)

// Attempt is one checkout: a single idempotency token carried through
// every retry until the order is confirmed. Start a new Attempt for a new
// checkout.
type Attempt struct {
	submitter *Submitter
	token     domain.IdempotencyToken

	mu      sync.Mutex
	state   State
	order   *domain.Order
	lastErr error
}

func (s *Submitter) NewAttempt() *Attempt {
	return &Attempt{
		submitter: s,
		token:     domain.NewIdempotencyToken(),
		state:     StateIdle,
	}
}

func (a *Attempt) Token() domain.IdempotencyToken {
	return a.token
}

func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Order is the confirmed order, nil until the attempt succeeds.
func (a *Attempt) Order() *domain.Order {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.order
}

// Err is the error of the last failed submit, if any.
func (a *Attempt) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Submit runs the attempt once. A succeeded attempt returns its order
// without calling the server; a submit while another is running returns
// ErrSubmissionInProgress. A failed attempt can be submitted again and
// reuses the token. A request that fails local validation is never sent and
// leaves the attempt idle.
func (a *Attempt) Submit(ctx context.Context, items []domain.CartLineItem, details Details, authToken string) (*domain.Order, error) {
	a.mu.Lock()
	switch {
	case a.state == StateSucceeded:
		order := a.order
		a.mu.Unlock()
		a.submitter.logger.Info("checkout already confirmed, returning existing order",
			zap.String("idempotency_token", a.token.String()))
		return order, nil
	case a.state.InFlight():
		a.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}

	if err := a.transition(StateValidating); err != nil {
		a.mu.Unlock()
		return nil, err
	}
	req, err := BuildRequest(items, details, a.token)
	if err != nil {
		a.state = StateIdle
		a.mu.Unlock()
		return nil, err
	}
	if err := a.transition(StateSubmitting); err != nil {
		a.mu.Unlock()
		return nil, err
	}
	a.mu.Unlock()

	order, err := a.submitter.send(ctx, req, authToken)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.fail(err)
		return nil, err
	}
	if err := a.transition(StateSucceeded); err != nil {
		return nil, err
	}
	a.order = order
	a.lastErr = nil
	return order, nil
}

// callers hold a.mu
func (a *Attempt) transition(next State) error {
	if !a.state.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, a.state, next)
	}
	a.state = next
	return nil
}

func (a *Attempt) fail(err error) {
	a.lastErr = err
	a.state = StateFailed
}
