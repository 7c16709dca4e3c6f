package domain

import "github.com/shopspring/decimal"

// CartLineItem is one row of the cart. Name, Image and UnitPrice are copied
// from the product when it is first added and are for display only; the
// server prices the order itself.
type CartLineItem struct {
	ProductID ProductID       `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func NewCartLineItem(p Product, quantity int) CartLineItem {
	return CartLineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.Image,
		UnitPrice: p.Price,
		Quantity:  quantity,
	}
}
