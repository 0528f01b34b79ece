package container

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-travel-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-planner/config"
	generativeAI "github.com/FACorreiaa/go-travel-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-travel-planner/internal/api/geocoding"
	"github.com/FACorreiaa/go-travel-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-travel-planner/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Generator        generativeAI.TextGenerator // nil when no credential is configured
	ItineraryService *itinerary.ServiceImpl
	ItineraryHandler *itinerary.HandlerImpl
}

// NewContainer builds every dependency from the config. A missing or unusable
// generation credential is logged once and leaves generation unavailable
// instead of failing startup.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, appMetrics *metrics.AppMetrics) *Container {
	generator := newGenerator(ctx, cfg, logger)

	var geocoder geocoding.Geocoder
	if cfg.Geocoding.Enabled {
		geocoder = geocoding.NewNominatimClient(
			cfg.Geocoding.BaseURL,
			cfg.Geocoding.UserAgent,
			cfg.Geocoding.RequestsPerSecond,
			cfg.Geocoding.CacheTTL,
			cfg.Geocoding.Timeout,
			logger.With(slog.String("component", "geocoding")),
		)
	}

	var responseCache *cache.Cache
	if cfg.Cache.ItineraryTTL > 0 {
		responseCache = cache.New(cfg.Cache.ItineraryTTL, 2*cfg.Cache.ItineraryTTL)
	}

	itineraryLogger := logger.With(slog.String("component", "itinerary"))
	service := itinerary.NewServiceImpl(generator, geocoder, responseCache, appMetrics, itineraryLogger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Generator:        generator,
		ItineraryService: service,
		ItineraryHandler: itinerary.NewHandlerImpl(service, itineraryLogger),
	}
}

func newGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) generativeAI.TextGenerator {
	if cfg.LLM.APIKey == "" {
		logger.Warn("Generation credential is not set; itinerary generation is unavailable",
			slog.String("env", cfg.APIKeyEnv()),
			slog.String("provider", cfg.LLM.Provider))
		return nil
	}
	generator, err := generativeAI.NewTextGenerator(ctx, generativeAI.GeneratorConfig{
		Provider:    cfg.LLM.Provider,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		logger.Warn("Failed to configure generation client; itinerary generation is unavailable",
			slog.String("provider", cfg.LLM.Provider),
			slog.Any("error", err))
		return nil
	}
	generator = generativeAI.WithTimeout(generator, cfg.LLM.Timeout)
	logger.Info("Generation client configured",
		slog.String("provider", cfg.LLM.Provider),
		slog.String("model", generator.Model()))
	return generator
}

// Router returns the API router for this container.
func (c *Container) Router(metricsHandler http.Handler) http.Handler {
	return router.SetupRouter(&router.Config{
		ItineraryHandler:  c.ItineraryHandler,
		MetricsHandler:    metricsHandler,
		RequestsPerMinute: c.Config.RateLimit.RequestsPerMinute,
		CORSOrigins:       c.Config.Server.CORSOrigins,
	})
}
