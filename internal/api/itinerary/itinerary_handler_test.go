package itinerary

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
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

type MockItineraryService struct {
	mock.Mock
}

func (m *MockItineraryService) GenerateItinerary(ctx context.Context, req types.TripRequest) (*types.ItineraryResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ItineraryResult), args.Error(1)
}

func (m *MockItineraryService) Geocode(ctx context.Context, place string) (*types.GeoPoint, error) {
	args := m.Called(ctx, place)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GeoPoint), args.Error(1)
}

func setupHandlerTest() (*HandlerImpl, *MockItineraryService) {
	svc := new(MockItineraryService)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	h := NewHandlerImpl(svc, logger)
	h.now = func() time.Time { return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC) }
	return h, svc
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	return fmt.Sprint(body["error"])
}

const validBody = `{"destination":"Paris","duration_days":2,"budget_level":"moderate","stay_type":"hotel","interests":"art"}`

func TestHandlerImpl_GenerateItinerary(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		h, svc := setupHandlerTest()
		want := types.TripRequest{
			Destination: "Paris", DurationDays: 2,
			BudgetLevel: types.BudgetModerate, StayType: types.StayHotel, Interests: "art",
		}
		result := &types.ItineraryResult{ID: uuid.New(), Destination: "Paris", Itinerary: "Day 1", DownloadName: "Paris_itinerary.txt"}
		svc.On("GenerateItinerary", mock.Anything, want).Return(result, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/itineraries", bytes.NewBufferString(validBody))
		rr := httptest.NewRecorder()
		h.GenerateItinerary(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var got types.ItineraryResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, result.ID, got.ID)
		assert.Equal(t, "Day 1", got.Itinerary)
		svc.AssertExpectations(t)
	})

	statusCases := []struct {
		name   string
		err    error
		status int
	}{
		{"unavailable", types.ErrGenerationUnavailable, http.StatusServiceUnavailable},
		{"remote failure", fmt.Errorf("%w: boom", types.ErrGenerationFailed), http.StatusBadGateway},
		{"invalid", fmt.Errorf("%w: nope", types.ErrInvalidRequest), http.StatusBadRequest},
		{"unexpected", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range statusCases {
		t.Run(tc.name, func(t *testing.T) {
			h, svc := setupHandlerTest()
			svc.On("GenerateItinerary", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/itineraries", bytes.NewBufferString(validBody))
			rr := httptest.NewRecorder()
			h.GenerateItinerary(rr, req)

			assert.Equal(t, tc.status, rr.Code)
			assert.Contains(t, decodeError(t, rr), tc.err.Error())
		})
	}

	t.Run("validation failure skips the service", func(t *testing.T) {
		h, svc := setupHandlerTest()
		body := `{"destination":"","duration_days":2,"budget_level":"moderate","stay_type":"hotel"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/itineraries", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		h.GenerateItinerary(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "destination")
		svc.AssertNotCalled(t, "GenerateItinerary", mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		h, _ := setupHandlerTest()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/itineraries", bytes.NewBufferString(`{"destination":`))
		rr := httptest.NewRecorder()
		h.GenerateItinerary(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "Invalid request body")
	})
}

func TestHandlerImpl_DownloadItinerary(t *testing.T) {
	t.Run("attachment", func(t *testing.T) {
		h, _ := setupHandlerTest()
		body := `{"destination":"New York","itinerary":"Day 1: Central Park"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/itineraries/download", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		h.DownloadItinerary(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=New_York_itinerary.txt", rr.Header().Get("Content-Disposition"))
		assert.Equal(t, "Day 1: Central Park", rr.Body.String())
	})

	t.Run("missing itinerary", func(t *testing.T) {
		h, _ := setupHandlerTest()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/itineraries/download", bytes.NewBufferString(`{"destination":"Rome"}`))
		rr := httptest.NewRecorder()
		h.DownloadItinerary(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr), "itinerary")
	})
}

func TestHandlerImpl_Geocode(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		point  *types.GeoPoint
		err    error
		status int
	}{
		{"found", "Lisbon", &types.GeoPoint{Latitude: 38.72, Longitude: -9.14}, nil, http.StatusOK},
		{"not found", "Atlantis", nil, fmt.Errorf("%w: no match", types.ErrNotFound), http.StatusNotFound},
		{"remote failure", "Lisbon", nil, fmt.Errorf("%w: 503", types.ErrGeocodingFailed), http.StatusBadGateway},
		{"disabled", "Lisbon", nil, types.ErrGeocodingUnavailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := setupHandlerTest()
			svc.On("Geocode", mock.Anything, tt.query).Return(tt.point, tt.err).Once()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/geocode?q="+tt.query, nil)
			rr := httptest.NewRecorder()
			h.Geocode(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.point != nil {
				var got types.GeoPoint
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, *tt.point, got)
			}
			svc.AssertExpectations(t)
		})
	}

	t.Run("missing query", func(t *testing.T) {
		h, svc := setupHandlerTest()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/geocode", nil)
		rr := httptest.NewRecorder()
		h.Geocode(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})
}
