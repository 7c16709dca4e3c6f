package storefront

import (
	"context"
	"sync"

	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/cart"
	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/checkout"
	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/domain"
	"go.uber.org/zap"
)

// Session ties the shopper's cart to the checkout attempt in progress.
// It is the only place that takes ordered items out of the cart.
type Session struct {
	cart      *cart.Store
	submitter *checkout.Submitter
	logger    *zap.Logger

	mu      sync.Mutex
	attempt *checkout.Attempt
}

func NewSession(store *cart.Store, submitter *checkout.Submitter, logger *zap.Logger) *Session {
	return &Session{
		cart:      store,
		submitter: submitter,
		logger:    logger,
	}
}

func (s *Session) Cart() *cart.Store {
	return s.cart
}

// BeginCheckout returns the current attempt, or starts one when there is
// none or the previous order was confirmed.
func (s *Session) BeginCheckout() *checkout.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt == nil || s.attempt.State() == checkout.StateSucceeded {
		s.startLocked()
	}
	return s.attempt
}

// RestartCheckout drops the current attempt and starts one with a fresh
// token. It refuses while a submit is running.
func (s *Session) RestartCheckout() (*checkout.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt != nil && s.attempt.State().InFlight() {
		return nil, checkout.ErrSubmissionInProgress
	}
	s.startLocked()
	return s.attempt, nil
}

// PlaceOrder submits the current cart under the current attempt and removes
// the ordered items once the server confirms. Items added while the order
// was in flight stay in the cart. On failure the cart and token are left
// as they were so the shopper can retry.
func (s *Session) PlaceOrder(ctx context.Context, details checkout.Details, authToken string) (*domain.Order, *checkout.Attempt, error) {
	items := s.cart.Items()
	attempt := s.attemptFor(items)

	if attempt.State() == checkout.StateSucceeded {
		// repeat of a confirmed order; its items were already removed
		return attempt.Order(), attempt, nil
	}

	order, err := attempt.Submit(ctx, items, details, authToken)
	if err != nil {
		return nil, attempt, err
	}

	s.cart.RemoveOrdered(ctx, items)
	s.logger.Info("order placed, ordered items removed from cart",
		zap.String("order_id", string(order.ID)),
		zap.String("idempotency_token", attempt.Token().String()),
	)
	return order, attempt, nil
}

// attemptFor picks the attempt for a submit. A confirmed attempt is only
// replayed while the cart is still empty; new items mean a new order.
func (s *Session) attemptFor(items []domain.CartLineItem) *checkout.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt == nil || (s.attempt.State() == checkout.StateSucceeded && len(items) > 0) {
		s.startLocked()
	}
	return s.attempt
}

func (s *Session) startLocked() {
	s.attempt = s.submitter.NewAttempt()
	s.logger.Debug("checkout attempt started",
		zap.String("idempotency_token", s.attempt.Token().String()))
}

func (s *Session) CurrentAttempt() *checkout.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempt
}
