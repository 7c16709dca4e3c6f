package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IdempotencyToken identifies one checkout attempt. The server treats
// repeated requests with the same token as the same order.
type IdempotencyToken string

func NewIdempotencyToken() IdempotencyToken {
	return IdempotencyToken(uuid.NewString())
}

func (t IdempotencyToken) String() string {
	return string(t)
}

type CheckoutItem struct {
	ProductID ProductID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type CheckoutRequest struct {
	Items            []CheckoutItem   `json:"items"`
	ShippingAddress  string           `json:"shippingAddress"`
	Phone            string           `json:"phone"`
	Notes            string           `json:"notes,omitempty"`
	IdempotencyToken IdempotencyToken `json:"idempotencyToken"`
}

type OrderID string

func (id *OrderID) UnmarshalJSON(data []byte) error {
	s, err := unmarshalID(data)
	if err != nil {
		return fmt.Errorf("order id: %w", err)
	}
	*id = OrderID(s)
	return nil
}

// Order is the server's confirmation. Only ID and TotalAmount are read by
// the storefront.
type Order struct {
	ID          OrderID         `json:"id"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
