package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/domain"
	"golang.org/x/sync/singleflight"
)

type ProductClient struct {
	*Client
	sfg singleflight.Group // collapses concurrent lookups of one product
}

func NewProductClient(c *Client) *ProductClient {
	return &ProductClient{Client: c}
}

func (c *ProductClient) GetAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *ProductClient) GetOne(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	v, err, _ := c.sfg.Do(string(id), func() (interface{}, error) {
		var p domain.Product
		if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(string(id)), nil, nil, &p); err != nil {
			return nil, err
		}
		return &p, nil
	})
	if err != nil {
		return nil, err
	}

	p := *v.(*domain.Product)
	return &p, nil
}
