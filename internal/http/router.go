package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterOptions struct {
	RequestTimeout     time.Duration
	RateLimit          float64
	MaxRequestBodySize int64
	Logger             *slog.Logger
	// Health adds extra fields to GET /health, such as the breaker state.
	Health func() map[string]string
}

func NewRouter(s *session.Session, opts RouterOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	catalogHandler := NewCatalogHandler(s, opts.RequestTimeout)
	cartHandler := NewCartHandler(s, opts.RequestTimeout)
	checkoutHandler := NewCheckoutHandler(s, opts.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(log))
	if opts.RateLimit > 0 {
		r.Use(RateLimitMiddleware(opts.RateLimit))
	}
	if opts.MaxRequestBodySize > 0 {
		r.Use(middleware.RequestSize(opts.MaxRequestBodySize))
	}
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{"status": "ok", "catalog": string(s.CatalogState().Status)}
		if opts.Health != nil {
			for k, v := range opts.Health() {
				body[k] = v
			}
		}
		respondJSON(w, http.StatusOK, body)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", catalogHandler.Get)
			r.Post("/reload", catalogHandler.Reload)
			r.Put("/criteria", catalogHandler.SetCriteria)
			r.Put("/search", catalogHandler.Search)
			r.Post("/next", catalogHandler.NextPage)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Post("/items/{product_id}/increment", cartHandler.Increment)
			r.Post("/items/{product_id}/decrement", cartHandler.Decrement)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutHandler.Get)
			r.Post("/", checkoutHandler.Submit)
			r.Get("/status", checkoutHandler.Status)
			r.Get("/pricing", checkoutHandler.Pricing)
			r.Get("/delivery", checkoutHandler.DeliveryOptions)
			r.Put("/delivery", checkoutHandler.SelectDelivery)
			r.Post("/coupon", checkoutHandler.ApplyCoupon)
			r.Delete("/coupon", checkoutHandler.RemoveCoupon)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
