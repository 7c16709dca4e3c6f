package checkout

import (
	"context"
	"strings"

	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/domain"
	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/logger"
	"go.uber.org/zap"
)

// OrderAPI is the backend order endpoint.
type OrderAPI interface {
	Checkout(ctx context.Context, req domain.CheckoutRequest, authToken string) (*domain.Order, error)
}

type Details struct {
	ShippingAddress string
	Phone           string
	Notes           string
}

// Submitter turns a cart snapshot into one order request. It never retries
// and never touches the cart.
type Submitter struct {
	api    OrderAPI
	logger *zap.Logger
}

func NewSubmitter(api OrderAPI, logger *zap.Logger) *Submitter {
	return &Submitter{
		api:    api,
		logger: logger,
	}
}

// Submit validates, then makes exactly one call to the order API. Errors
// from the API are returned as is.
func (s *Submitter) Submit(ctx context.Context, items []domain.CartLineItem, details Details, token domain.IdempotencyToken, authToken string) (*domain.Order, error) {
	req, err := BuildRequest(items, details, token)
	if err != nil {
		return nil, err
	}
	return s.send(ctx, req, authToken)
}

// BuildRequest checks the cart and contact details locally and produces the
// wire request. Only product ids and quantities are sent.
func BuildRequest(items []domain.CartLineItem, details Details, token domain.IdempotencyToken) (domain.CheckoutRequest, error) {
	if len(items) == 0 {
		return domain.CheckoutRequest{}, &ValidationError{Field: "items", Err: ErrEmptyCart}
	}
	address := strings.TrimSpace(details.ShippingAddress)
	if address == "" {
		return domain.CheckoutRequest{}, &ValidationError{Field: "shipping_address", Err: ErrMissingAddress}
	}
	phone := strings.TrimSpace(details.Phone)
	if phone == "" {
		return domain.CheckoutRequest{}, &ValidationError{Field: "phone", Err: ErrMissingPhone}
	}
	if token == "" {
		return domain.CheckoutRequest{}, ErrMissingToken
	}

	lines := make([]domain.CheckoutItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	return domain.CheckoutRequest{
		Items:            lines,
		ShippingAddress:  address,
		Phone:            phone,
		Notes:            strings.TrimSpace(details.Notes),
		IdempotencyToken: token,
	}, nil
}

func (s *Submitter) send(ctx context.Context, req domain.CheckoutRequest, authToken string) (*domain.Order, error) {
	log := logger.WithTrace(ctx, s.logger).With(zap.String("idempotency_token", req.IdempotencyToken.String()))

	order, err := s.api.Checkout(ctx, req, authToken)
	if err != nil {
		log.Warn("checkout submission failed", zap.Error(err))
		return nil, err
	}
	if order == nil {
		log.Warn("checkout submission returned no order")
		return nil, ErrNoOrder
	}

	log.Info("checkout submission confirmed",
		zap.String("order_id", string(order.ID)),
		zap.String("total_amount", order.TotalAmount.String()),
	)
	return order, nil
}
