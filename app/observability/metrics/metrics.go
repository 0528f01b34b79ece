package metrics

import (
	"context"
	"fmt"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "TravelPlanner"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ItineraryRequestsTotal    metric.Int64Counter
	GenerationDurationSeconds metric.Float64Histogram
	SplitOutcomesTotal        metric.Int64Counter
	GeocodeRequestsTotal      metric.Int64Counter
	CacheHitsTotal            metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// NewAppMetrics creates every instrument on the given meter.
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	m.ItineraryRequestsTotal, err = meter.Int64Counter(
		"itinerary_requests_total",
		metric.WithDescription("Total number of itinerary generation requests, by result"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("itinerary_requests_total: %w", err)
	}

	m.GenerationDurationSeconds, err = meter.Float64Histogram(
		"generation_duration_seconds",
		metric.WithDescription("Duration of remote model calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("generation_duration_seconds: %w", err)
	}

	m.SplitOutcomesTotal, err = meter.Int64Counter(
		"split_outcomes_total",
		metric.WithDescription("Structured block extraction outcomes"),
		metric.WithUnit("{response}"),
	)
	if err != nil {
		return nil, fmt.Errorf("split_outcomes_total: %w", err)
	}

	m.GeocodeRequestsTotal, err = meter.Int64Counter(
		"geocode_requests_total",
		metric.WithDescription("Total number of geocode lookups, by result"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("geocode_requests_total: %w", err)
	}

	m.CacheHitsTotal, err = meter.Int64Counter(
		"itinerary_cache_hits_total",
		metric.WithDescription("Itinerary generations served from cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("itinerary_cache_hits_total: %w", err)
	}

	return m, nil
}

// InitAppMetrics initializes the global instruments once, from the global MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		m, err := NewAppMetrics(otel.GetMeterProvider().Meter(meterName))
		if err != nil {
			log.Fatalf("Metrics: failed to create instruments: %v", err)
		}
		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the global AppMetrics. Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

// RecordRequest counts a finished itinerary request.
func (m *AppMetrics) RecordRequest(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.ItineraryRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (m *AppMetrics) RecordGeneration(ctx context.Context, model string, seconds float64, ok bool) {
	if m == nil {
		return
	}
	m.GenerationDurationSeconds.Record(ctx, seconds, metric.WithAttributes(
		attribute.String("model", model),
		attribute.Bool("success", ok),
	))
}

func (m *AppMetrics) RecordSplit(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.SplitOutcomesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *AppMetrics) RecordGeocode(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.GeocodeRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (m *AppMetrics) RecordCacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Add(ctx, 1)
}
