package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// MockOrderAPI de-duplicates by idempotency token the way the backend does,
// and records every call it receives
type MockOrderAPI struct {
	mu         sync.Mutex
	Calls      int
	Requests   []domain.CheckoutRequest
	AuthTokens []string
	Orders     map[domain.IdempotencyToken]*domain.Order
	// FailNext makes the next N calls fail with Err before anything is recorded
	FailNext int
	Err      error
	// Block, when set, holds every call until it is closed
	Block   chan struct{}
	Entered chan struct{}
}

func NewMockOrderAPI() *MockOrderAPI {
	return &MockOrderAPI{Orders: make(map[domain.IdempotencyToken]*domain.Order)}
}

func (m *MockOrderAPI) Checkout(ctx context.Context, req domain.CheckoutRequest, authToken string) (*domain.Order, error) {
	m.mu.Lock()
	m.Calls++
	m.Requests = append(m.Requests, req)
	m.AuthTokens = append(m.AuthTokens, authToken)
	block, entered := m.Block, m.Entered
	m.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNext > 0 {
		m.FailNext--
		return nil, m.Err
	}
	if order, ok := m.Orders[req.IdempotencyToken]; ok {
		return order, nil
	}
	total := decimal.Zero
	for _, item := range req.Items {
		total = total.Add(decimal.NewFromInt(int64(item.Quantity * 100)))
	}
	order := &domain.Order{
		ID:          domain.OrderID(fmt.Sprintf("ord-%d", len(m.Orders)+1)),
		TotalAmount: total,
	}
	m.Orders[req.IdempotencyToken] = order
	return order, nil
}

func (m *MockOrderAPI) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
