package itinerary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-travel-planner/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-travel-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-travel-planner/internal/api/geocoding"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const downloadSuffix = "_itinerary.txt"

var _ Service = (*ServiceImpl)(nil)

// Service defines the itinerary business logic.
type Service interface {
	GenerateItinerary(ctx context.Context, req types.TripRequest) (*types.ItineraryResult, error)
	Geocode(ctx context.Context, place string) (*types.GeoPoint, error)
}

// ServiceImpl provides the implementation for Service.
// aiClient and geocoder may be nil when not configured.
type ServiceImpl struct {
	logger   *slog.Logger
	aiClient generativeAI.TextGenerator
	geocoder geocoding.Geocoder
	cache    *cache.Cache // nil disables response caching
	group    singleflight.Group
	metrics  *metrics.AppMetrics
	now      func() time.Time
}

// NewServiceImpl creates a new itinerary service instance.
func NewServiceImpl(aiClient generativeAI.TextGenerator,
	geocoder geocoding.Geocoder,
	responseCache *cache.Cache,
	appMetrics *metrics.AppMetrics,
	logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		aiClient: aiClient,
		geocoder: geocoder,
		cache:    responseCache,
		metrics:  appMetrics,
		now:      time.Now,
	}
}

type generation struct {
	text   string
	cached bool
}

func (s *ServiceImpl) GenerateItinerary(ctx context.Context, req types.TripRequest) (*types.ItineraryResult, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateItinerary", trace.WithAttributes(
		attribute.String("app.destination", req.Destination),
		attribute.Int("app.duration_days", req.DurationDays),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GenerateItinerary"), slog.String("destination", req.Destination))

	if err := ValidateTripRequest(req); err != nil {
		span.SetStatus(codes.Error, "Invalid request")
		s.metrics.RecordRequest(ctx, "invalid")
		return nil, err
	}

	if s.aiClient == nil {
		span.SetStatus(codes.Error, "Generation unavailable")
		s.metrics.RecordRequest(ctx, "unavailable")
		return nil, types.ErrGenerationUnavailable
	}

	prompt := BuildPrompt(req)
	span.SetAttributes(attribute.Int("prompt.length", len(prompt)))

	start := s.now()
	gen, err := s.generate(ctx, prompt)
	if err != nil {
		l.ErrorContext(ctx, "Failed to generate itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		s.metrics.RecordRequest(ctx, "failure")
		return nil, fmt.Errorf("%w: %w", types.ErrGenerationFailed, err)
	}
	latency := s.now().Sub(start)

	split := SplitResponse(gen.text)
	s.metrics.RecordSplit(ctx, split.Outcome.String())
	span.SetAttributes(
		attribute.String("app.split.outcome", split.Outcome.String()),
		attribute.Int("app.locations.count", len(split.Locations)),
		attribute.Bool("app.cache.hit", gen.cached),
	)

	result := &types.ItineraryResult{
		ID:           uuid.New(),
		Destination:  req.Destination,
		Itinerary:    split.Prose,
		Locations:    split.Locations,
		DownloadName: DownloadFileName(req.Destination),
		ModelUsed:    s.aiClient.Model(),
		Cached:       gen.cached,
		LatencyMs:    int(latency.Milliseconds()),
		CreatedAt:    s.now().UTC(),
	}
	if split.Warning != nil {
		l.WarnContext(ctx, "Itinerary map data could not be parsed", slog.Any("warning", split.Warning))
		result.Warnings = append(result.Warnings, split.Warning.Error())
	}

	if split.HasLocations() && len(split.Locations) > 0 {
		result.Map = BuildFeatureCollection(split.Locations)
		center, warn := s.mapCenter(ctx, req.Destination, split.Locations)
		result.MapCenter = center
		if warn != "" {
			l.WarnContext(ctx, "Map center lookup failed", slog.String("warning", warn))
			result.Warnings = append(result.Warnings, warn)
		}
	}

	s.metrics.RecordRequest(ctx, "success")
	l.InfoContext(ctx, "Itinerary generated",
		slog.String("outcome", split.Outcome.String()),
		slog.Int("locations", len(split.Locations)),
		slog.Bool("cached", gen.cached))
	span.SetStatus(codes.Ok, "Itinerary generated")
	return result, nil
}

// generate calls the model once per distinct prompt; concurrent callers share the call.
// The shared call outlives any single caller, so it runs detached from the caller's
// cancellation and is bounded by the generator's own timeout. Each caller still
// stops waiting when its own context ends.
func (s *ServiceImpl) generate(ctx context.Context, prompt string) (generation, error) {
	key := generateItineraryCacheKey(s.aiClient.Model(), prompt)
	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			s.metrics.RecordCacheHit(ctx)
			return generation{text: cached.(string), cached: true}, nil
		}
	}

	sharedCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		start := time.Now()
		txt, err := s.aiClient.GenerateContent(sharedCtx, prompt)
		s.metrics.RecordGeneration(sharedCtx, s.aiClient.Model(), time.Since(start).Seconds(), err == nil)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Set(key, txt, cache.DefaultExpiration)
		}
		return txt, nil
	})

	select {
	case <-ctx.Done():
		return generation{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return generation{}, res.Err
		}
		return generation{text: res.Val.(string)}, nil
	}
}

// mapCenter prefers the geocoded destination and falls back to the center of the locations' bound.
func (s *ServiceImpl) mapCenter(ctx context.Context, destination string, locations []types.NamedLocation) (*types.GeoPoint, string) {
	var warn string
	if s.geocoder != nil {
		point, err := s.geocoder.Lookup(ctx, destination)
		switch {
		case err != nil:
			s.metrics.RecordGeocode(ctx, "error")
			warn = fmt.Sprintf("could not geocode destination %q: %v", destination, err)
		case point != nil:
			s.metrics.RecordGeocode(ctx, "found")
			return point, ""
		default:
			s.metrics.RecordGeocode(ctx, "not_found")
		}
	}
	if len(locations) == 0 {
		return nil, warn
	}
	c := locationPoints(locations).Bound().Center()
	return &types.GeoPoint{Latitude: c.Lat(), Longitude: c.Lon()}, warn
}

func (s *ServiceImpl) Geocode(ctx context.Context, place string) (*types.GeoPoint, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Geocode", trace.WithAttributes(
		attribute.String("app.place", place),
	))
	defer span.End()

	if strings.TrimSpace(place) == "" {
		return nil, fmt.Errorf("%w: place is required", types.ErrInvalidRequest)
	}
	if s.geocoder == nil {
		span.SetStatus(codes.Error, "Geocoding disabled")
		return nil, types.ErrGeocodingUnavailable
	}

	point, err := s.geocoder.Lookup(ctx, place)
	if err != nil {
		s.metrics.RecordGeocode(ctx, "error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		s.logger.ErrorContext(ctx, "Geocode lookup failed", slog.String("place", place), slog.Any("error", err))
		if errors.Is(err, types.ErrGeocodingFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", types.ErrGeocodingFailed, err)
	}
	if point == nil {
		s.metrics.RecordGeocode(ctx, "not_found")
		return nil, fmt.Errorf("%w: no match for %q", types.ErrNotFound, place)
	}
	s.metrics.RecordGeocode(ctx, "found")
	span.SetStatus(codes.Ok, "Place resolved")
	return point, nil
}

// BuildFeatureCollection turns locations into GeoJSON point features with name and day properties.
func BuildFeatureCollection(locations []types.NamedLocation) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, loc := range locations {
		f := geojson.NewFeature(orb.Point{loc.Lon, loc.Lat})
		f.Properties["name"] = loc.Name
		f.Properties["day"] = loc.Day
		fc.Append(f)
	}
	return fc
}

func locationPoints(locations []types.NamedLocation) orb.MultiPoint {
	mp := make(orb.MultiPoint, 0, len(locations))
	for _, loc := range locations {
		mp = append(mp, orb.Point{loc.Lon, loc.Lat})
	}
	return mp
}

// DownloadFileName derives the attachment name for an itinerary download.
func DownloadFileName(destination string) string {
	name := strings.TrimSpace(destination)
	name = strings.NewReplacer(" ", "_", "/", "_", `\`, "_").Replace(name)
	if name == "" {
		name = "trip"
	}
	return name + downloadSuffix
}

func generateItineraryCacheKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return "itinerary:" + hex.EncodeToString(sum[:])
}
