package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/cart"
	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/domain"
	"github.com/go-chi/chi/v5"
)

// ProductCatalog is the read side of the product API.
type ProductCatalog interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	GetOne(ctx context.Context, id domain.ProductID) (*domain.Product, error)
}

type CartHandler struct {
	store   *cart.Store
	catalog ProductCatalog
	timeout time.Duration
}

func NewCartHandler(store *cart.Store, catalog ProductCatalog, timeout time.Duration) *CartHandler {
	return &CartHandler{
		store:   store,
		catalog: catalog,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID domain.ProductID `json:"product_id"`
	Quantity  *int             `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

type CartItemDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type CartResponseDTO struct {
	Items      []CartItemDTO `json:"items"`
	TotalItems int           `json:"total_items"`
	TotalPrice string        `json:"total_price"`
	IsOpen     bool          `json:"is_open"`
	Persisted  bool          `json:"persisted"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, http.StatusOK)
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}

	// name, image and price are snapshotted from the catalog at add time
	product, err := h.catalog.GetOne(ctx, req.ProductID)
	if err != nil {
		handleError(w, err)
		return
	}

	h.store.AddItem(ctx, *product, quantity)
	h.respondCart(w, http.StatusCreated)
}

// PUT /api/v1/cart/items/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := domain.ProductID(chi.URLParam(r, "product_id"))

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity is required")
		return
	}

	h.store.UpdateQuantity(r.Context(), productID, *req.Quantity)
	h.respondCart(w, http.StatusOK)
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveItem(r.Context(), domain.ProductID(chi.URLParam(r, "product_id")))
	h.respondCart(w, http.StatusOK)
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.store.ClearCart(r.Context())
	h.respondCart(w, http.StatusOK)
}

// POST /api/v1/cart/open
func (h *CartHandler) Open(w http.ResponseWriter, r *http.Request) {
	h.store.OpenCart()
	h.respondCart(w, http.StatusOK)
}

// POST /api/v1/cart/close
func (h *CartHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.store.CloseCart()
	h.respondCart(w, http.StatusOK)
}

func (h *CartHandler) respondCart(w http.ResponseWriter, status int) {
	respondJSON(w, status, toCartResponse(h.store.State()))
}

func toCartResponse(s cart.State) CartResponseDTO {
	items := make([]CartItemDTO, len(s.Items))
	for i, item := range s.Items {
		items[i] = CartItemDTO{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal().StringFixed(2),
		}
	}
	return CartResponseDTO{
		Items:      items,
		TotalItems: s.TotalItems,
		TotalPrice: s.TotalPrice.StringFixed(2),
		IsOpen:     s.IsOpen,
		Persisted:  s.Persisted,
	}
}
