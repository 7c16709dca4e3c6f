package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/checkout"
	"github.com/bdhtrk94-cmyk/paft-front-sub000/internal/storefront"
)

// CheckoutHandler has no timeout of its own: a submit runs until the order
// API answers or the caller goes away.
type CheckoutHandler struct {
	session *storefront.Session
}

func NewCheckoutHandler(session *storefront.Session) *CheckoutHandler {
	return &CheckoutHandler{session: session}
}

type PlaceOrderRequestDTO struct {
	ShippingAddress string `json:"shipping_address"`
	Phone           string `json:"phone"`
	Notes           string `json:"notes"`
}

type CheckoutSessionDTO struct {
	IdempotencyToken string `json:"idempotency_token"`
	State            string `json:"state"`
	OrderID          string `json:"order_id,omitempty"`
	LastError        string `json:"last_error,omitempty"`
}

type OrderResponseDTO struct {
	OrderID          string `json:"order_id"`
	TotalAmount      string `json:"total_amount"`
	IdempotencyToken string `json:"idempotency_token"`
}

// GET /api/v1/checkout
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toSessionDTO(h.session.BeginCheckout()))
}

// POST /api/v1/checkout/session
func (h *CheckoutHandler) Restart(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.session.RestartCheckout()
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSessionDTO(attempt))
}

// POST /api/v1/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	authToken := getBearerToken(r.Context())
	if authToken == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, attempt, err := h.session.PlaceOrder(r.Context(), checkout.Details{
		ShippingAddress: req.ShippingAddress,
		Phone:           req.Phone,
		Notes:           req.Notes,
	}, authToken)
	if err != nil {
		if attempt != nil && !checkout.IsValidation(err) && !errors.Is(err, checkout.ErrSubmissionInProgress) {
			w.Header().Set("Idempotency-Key", attempt.Token().String())
		}
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, OrderResponseDTO{
		OrderID:          string(order.ID),
		TotalAmount:      order.TotalAmount.StringFixed(2),
		IdempotencyToken: attempt.Token().String(),
	})
}

func toSessionDTO(a *checkout.Attempt) CheckoutSessionDTO {
	dto := CheckoutSessionDTO{
		IdempotencyToken: a.Token().String(),
		State:            a.State().String(),
	}
	if order := a.Order(); order != nil {
		dto.OrderID = string(order.ID)
	}
	if err := a.Err(); err != nil {
		dto.LastError = err.Error()
	}
	return dto
}
