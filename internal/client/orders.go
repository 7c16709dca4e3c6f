package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/domain"
)

const checkoutPath = "/orders/checkout"

type OrderClient struct {
	*Client
}

func NewOrderClient(c *Client) *OrderClient {
	return &OrderClient{Client: c}
}

// Checkout posts the request once. The idempotency token goes both in the
// body and in the Idempotency-Key header.
func (c *OrderClient) Checkout(ctx context.Context, req domain.CheckoutRequest, authToken string) (*domain.Order, error) {
	headers := http.Header{}
	headers.Set("Idempotency-Key", req.IdempotencyToken.String())
	if authToken != "" {
		headers.Set("Authorization", "Bearer "+authToken)
	}

	var resp struct {
		Order *domain.Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, checkoutPath, req, headers, &resp); err != nil {
		return nil, err
	}
	if resp.Order == nil {
		return nil, fmt.Errorf("%s: response has no order", c.name)
	}
	return resp.Order, nil
}
