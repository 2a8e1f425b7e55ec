package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RequestTimeout bounds a single request; it covers the slowest page, two
// serial match fetches plus rendering
const RequestTimeout = 30 * time.Second

// NewRouter wires the handlers and middleware
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)
	if h.cfg.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Get("/", h.Home)
	r.Get("/predict/{sport}/{eventID}", h.PredictJSON)
	r.Get("/predict/{sport}/{eventID}/{home}/{away}", h.PredictPage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/predict", h.PredictFragment)
		r.Get("/picks", h.GetPicks)
		r.Get("/picks/history", h.GetPicksHistory)
	})

	return r
}
