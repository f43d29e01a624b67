package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Emmanation-Designs/Gibson-Collections/internal/service"
	"github.com/Emmanation-Designs/Gibson-Collections/pkg/health"
	"github.com/Emmanation-Designs/Gibson-Collections/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	svc *service.StorefrontService,
	verifier TokenVerifier,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsCfg middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	h := NewStorefrontHandler(svc, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ResolveShopper(verifier, svc))

		// Uploads are multipart, so they sit outside the JSON guard.
		r.Post("/uploads", h.UploadImage)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Route("/catalog", func(r chi.Router) {
				r.Get("/", h.Catalog)
				r.Get("/grouped", h.Grouped)
				r.Post("/", h.CreateProduct)
				r.Delete("/{productID}", h.DeleteProduct)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Delete("/", h.ClearCart)

				r.Post("/items", h.AddToCart)
				r.Patch("/items/{productID}", h.UpdateQuantity)
				r.Delete("/items/{productID}", h.RemoveFromCart)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", h.GetWishlist)
				r.Post("/{productID}", h.ToggleWishlist)
			})

			r.Put("/search", h.SetSearchQuery)

			r.Route("/session", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Post("/refresh", h.RefreshSession)
				r.Post("/signout", h.SignOut)
			})
		})
	})

	return r
}
