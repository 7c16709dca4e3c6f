package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Products *ProductHandler
}

func NewRouter(h Handlers, logger *zap.Logger, maxBodySize int64) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDHeaderMiddleware)
	r.Use(RequestLogger(logger))
	r.Use(middleware.RequestSize(maxBodySize))
	r.Use(BearerTokenMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Get("/{product_id}", h.Products.Get)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{product_id}", h.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", h.Cart.RemoveItem)
			r.Post("/open", h.Cart.Open)
			r.Post("/close", h.Cart.Close)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", h.Checkout.Begin)
			r.Post("/", h.Checkout.PlaceOrder)
			r.Post("/session", h.Checkout.Restart)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
