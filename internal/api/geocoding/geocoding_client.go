package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "go-travel-planner/1.0"
)

// Geocoder resolves a free-text place name to a coordinate.
// A nil point with a nil error means the name could not be resolved.
type Geocoder interface {
	Lookup(ctx context.Context, place string) (*types.GeoPoint, error)
}

var _ Geocoder = (*NominatimClient)(nil)

// NominatimClient queries an OpenStreetMap Nominatim instance.
// Results, including misses, are cached per normalized place name.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Cache
	logger     *slog.Logger
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// cacheEntry wraps the cached value so misses can be stored too.
type cacheEntry struct {
	point *types.GeoPoint
}

func NewNominatimClient(baseURL, userAgent string, rps float64, cacheTTL, timeout time.Duration, logger *slog.Logger) *NominatimClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if rps <= 0 {
		rps = 1 // public instance usage policy
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NominatimClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		cache:      cache.New(cacheTTL, 2*cacheTTL),
		logger:     logger,
	}
}

func (c *NominatimClient) Lookup(ctx context.Context, place string) (*types.GeoPoint, error) {
	key := strings.ToLower(strings.TrimSpace(place))
	if key == "" {
		return nil, nil
	}
	if cached, found := c.cache.Get(key); found {
		c.logger.DebugContext(ctx, "Geocode cache hit", slog.String("place", key))
		return cached.(cacheEntry).point, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", types.ErrGeocodingFailed, err)
	}

	point, err := c.search(ctx, place)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, cacheEntry{point: point}, cache.DefaultExpiration)
	return point, nil
}

func (c *NominatimClient) search(ctx context.Context, place string) (*types.GeoPoint, error) {
	q := url.Values{}
	q.Set("q", strings.TrimSpace(place))
	q.Set("format", "jsonv2")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", types.ErrGeocodingFailed, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrGeocodingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", types.ErrGeocodingFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", types.ErrGeocodingFailed, err)
	}
	if len(places) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad latitude %q", types.ErrGeocodingFailed, places[0].Lat)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad longitude %q", types.ErrGeocodingFailed, places[0].Lon)
	}
	return &types.GeoPoint{Latitude: lat, Longitude: lon, DisplayName: places[0].DisplayName}, nil
}
