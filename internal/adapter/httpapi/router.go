package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ferialibre/catalog-service/internal/adapter/httpapi/middleware"
	"github.com/ferialibre/catalog-service/internal/platform/logger"
	"github.com/ferialibre/catalog-service/internal/platform/metrics"
)

// NewRouter wires the catalog routes. Reads are public; everything
// that writes, and the owner-scoped listing view, requires a valid
// Bearer token.
func NewRouter(h *CatalogHandler, jwtSecret string, log *logger.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(chimw.Recoverer)
	mux.Use(chimw.Timeout(30 * time.Second))
	mux.Use(latencyMiddleware)

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Route("/api/{family}/listings", func(r chi.Router) {
		r.Get("/", h.HandleSearch)
		r.Get("/{id}", h.HandleGetByID)
		r.Get("/slug/{slug}", h.HandleGetBySlug)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret, log))

			r.Get("/mine", h.HandleSearchMine)
			r.Post("/", h.HandleCreate)
			r.Put("/{id}", h.HandleUpdate)
			r.Delete("/{id}", h.HandleDelete)
			r.Patch("/{id}/status", h.HandleSetStatus)
			r.Post("/{id}/reservations", h.HandleReserve)
			r.Post("/{id}/images", h.HandleUploadImage)
		})
	})

	return mux
}

func latencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.APILatency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
