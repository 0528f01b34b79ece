package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-travel-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-travel-planner/internal/router"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

type cannedGenerator struct {
	reply string
}

func (g cannedGenerator) GenerateContent(context.Context, string) (string, error) {
	return g.reply, nil
}

func (cannedGenerator) Model() string { return "canned" }

// setupBenchmarkRouter builds the API router with an in-process generator and no geocoder.
func setupBenchmarkRouter(withCache bool) http.Handler {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	var c *cache.Cache
	if withCache {
		c = cache.New(cache.NoExpiration, 0)
	}
	svc := itinerary.NewServiceImpl(cannedGenerator{reply: modelReply}, nil, c, nil, logger)

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Mount("/", router.SetupRouter(&router.Config{ItineraryHandler: itinerary.NewHandlerImpl(svc, logger)}))
	return r
}

func postJSON(b *testing.B, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	b.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		b.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func BenchmarkGenerateItinerary(b *testing.B) {
	h := setupBenchmarkRouter(false)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := postJSON(b, h, "/api/v1/itineraries", tripBody(fmt.Sprintf("City %d", i)))
		if rr.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d: %s", rr.Code, rr.Body.String())
		}
	}
}

func BenchmarkGenerateItineraryCached(b *testing.B) {
	h := setupBenchmarkRouter(true)
	body := tripBody("Paris")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		postJSON(b, h, "/api/v1/itineraries", body)
	}
}

func BenchmarkConcurrentGenerate(b *testing.B) {
	h := setupBenchmarkRouter(true)
	body, _ := json.Marshal(tripBody("Paris"))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/itineraries", bytes.NewReader(body))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
		}
	})
}

func BenchmarkDownload(b *testing.B) {
	h := setupBenchmarkRouter(false)
	body := map[string]string{"destination": "New York", "itinerary": modelReply}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		postJSON(b, h, "/api/v1/itineraries/download", body)
	}
}

func BenchmarkResultSerialization(b *testing.B) {
	split := itinerary.SplitResponse(modelReply)
	result := types.ItineraryResult{
		Destination: "Paris",
		Itinerary:   split.Prose,
		Locations:   split.Locations,
		Map:         itinerary.BuildFeatureCollection(split.Locations),
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := json.Marshal(result); err != nil {
			b.Fatal(err)
		}
	}
}
