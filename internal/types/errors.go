package types

import "errors"

var (
	ErrInvalidRequest        = errors.New("invalid trip request")
	ErrGenerationUnavailable = errors.New("itinerary generation is not configured")
	ErrGenerationFailed      = errors.New("itinerary generation failed")
	ErrEmptyResponse         = errors.New("empty response from model")
	ErrMissingLocations      = errors.New(`structured block has no "locations" key`)
	ErrInvalidLocation       = errors.New("invalid location entry")
	ErrGeocodingFailed       = errors.New("geocoding failed")
	ErrGeocodingUnavailable  = errors.New("geocoding is disabled")
	ErrNotFound              = errors.New("requested item not found")
)
