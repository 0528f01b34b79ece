package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
)

// ItineraryResult is everything one generate interaction produces.
// It replaces session-scoped display state: callers get a fresh value per request.
type ItineraryResult struct {
	ID           uuid.UUID                  `json:"id"`
	Destination  string                     `json:"destination"`
	Itinerary    string                     `json:"itinerary"`
	Locations    []NamedLocation            `json:"locations"` // null when the model gave no usable map data
	Warnings     []string                   `json:"warnings,omitempty"`
	MapCenter    *GeoPoint                  `json:"map_center,omitempty"`
	Map          *geojson.FeatureCollection `json:"map,omitempty"`
	DownloadName string                     `json:"download_name"`
	ModelUsed    string                     `json:"model_used"`
	Cached       bool                       `json:"cached"`
	LatencyMs    int                        `json:"latency_ms"`
	CreatedAt    time.Time                  `json:"created_at"`
}
