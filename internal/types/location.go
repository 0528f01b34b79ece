package types

// NamedLocation is a point of interest mentioned in an itinerary.
type NamedLocation struct {
	Name string  `json:"name"`
	Day  int     `json:"day"` // 1-based trip day, not checked against the trip duration
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// GeoPoint is a resolved coordinate pair.
type GeoPoint struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name,omitempty"`
}

// SplitOutcome tells how the structured block extraction ended.
type SplitOutcome int

const (
	// SplitNoMatch means no candidate block was found.
	SplitNoMatch SplitOutcome = iota
	// SplitParsed means a block was found, parsed and removed from the prose.
	SplitParsed
	// SplitParseFailed means a block was found but could not be used.
	SplitParseFailed
)

func (o SplitOutcome) String() string {
	switch o {
	case SplitParsed:
		return "parsed"
	case SplitParseFailed:
		return "parse_failed"
	default:
		return "no_match"
	}
}

// SplitResult separates the prose of a model response from its location payload.
// Locations is nil when absent; in that case Prose is the original text unchanged.
type SplitResult struct {
	Prose     string
	Locations []NamedLocation
	Outcome   SplitOutcome
	Warning   error // set only for SplitParseFailed
}

// HasLocations reports whether a location sequence is present (it may be empty).
func (r SplitResult) HasLocations() bool {
	return r.Locations != nil
}
