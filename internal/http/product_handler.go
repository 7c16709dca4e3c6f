package http

import (
	"context"
	"net/http"
	"time"

	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/domain"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	catalog ProductCatalog
	timeout time.Duration
}

func NewProductHandler(catalog ProductCatalog, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type ProductResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Price string `json:"price"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

// GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.GetAll(ctx)
	if err != nil {
		handleError(w, err)
		return
	}

	resp := make([]ProductResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	respondJSON(w, http.StatusOK, &ProductsResponse{Products: resp})
}

// GET /api/v1/products/{product_id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	p, err := h.catalog.GetOne(ctx, domain.ProductID(chi.URLParam(r, "product_id")))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(*p))
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:    p.ID.String(),
		Name:  p.Name,
		Image: p.Image,
		Price: p.Price.StringFixed(2),
	}
}
