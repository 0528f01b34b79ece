package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appMiddleware "github.com/FACorreiaa/go-travel-planner/app/middleware"
	"github.com/FACorreiaa/go-travel-planner/internal/api/itinerary"
)

// Config contains dependencies needed for the router setup
type Config struct {
	ItineraryHandler  *itinerary.HandlerImpl
	MetricsHandler    http.Handler // optional, served at /metrics
	RequestsPerMinute int          // generation rate limit per client IP, 0 disables it
	CORSOrigins       []string
}

// SetupRouter wires the API routes. Server-wide middleware (logger, request
// ID, recoverer) is applied by the caller before mounting this router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/geocode", cfg.ItineraryHandler.Geocode)

		r.Route("/itineraries", func(r chi.Router) {
			r.Post("/download", cfg.ItineraryHandler.DownloadItinerary)

			// only the route that calls the model is limited
			r.With(appMiddleware.RateLimitByIP(cfg.RequestsPerMinute)).Post("/", cfg.ItineraryHandler.GenerateItinerary)
		})
	})

	return r
}
