package itinerary

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-travel-planner/internal/api"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
	now     func() time.Time
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// GenerateItinerary godoc
// @Summary      Generate Itinerary
// @Description  Builds a day-by-day itinerary for the trip and extracts the named locations for the map.
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Param        trip body types.TripRequestPayload true "Trip Request"
// @Success      201 {object} types.ItineraryResult "Itinerary Generated"
// @Failure      400 {object} map[string]interface{} "Invalid Input"
// @Failure      502 {object} map[string]interface{} "Generation Failed"
// @Failure      503 {object} map[string]interface{} "Generation Unavailable"
// @Router       /itineraries [post]
func (h *HandlerImpl) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GenerateItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/itineraries"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateItinerary"))

	var payload types.TripRequestPayload
	if err := api.DecodeJSONBody(w, r, &payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := ParseTripRequest(payload, h.now())
	if err != nil {
		span.SetStatus(codes.Error, "Validation failed")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	span.SetAttributes(attribute.String("app.destination", req.Destination))

	result, err := h.service.GenerateItinerary(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service error")
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			l.ErrorContext(ctx, "Itinerary generation failed", slog.Any("error", err))
		}
		api.ErrorResponse(w, r, status, err.Error())
		return
	}

	span.SetAttributes(attribute.String("app.itinerary.id", result.ID.String()))
	span.SetStatus(codes.Ok, "Itinerary generated")
	api.WriteJSONResponse(w, r, http.StatusCreated, result)
}

// DownloadItinerary godoc
// @Summary      Download Itinerary
// @Description  Returns the itinerary prose as a plain text attachment named after the destination.
// @Tags         Itinerary
// @Accept       json
// @Produce      plain
// @Param        itinerary body types.DownloadRequest true "Itinerary To Download"
// @Success      200 {string} string "Itinerary Text"
// @Failure      400 {object} map[string]interface{} "Invalid Input"
// @Router       /itineraries/download [post]
func (h *HandlerImpl) DownloadItinerary(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "DownloadItinerary")
	defer span.End()

	var req types.DownloadRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := validateStruct(req); err != nil {
		span.SetStatus(codes.Error, "Validation failed")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	name := DownloadFileName(req.Destination)
	span.SetAttributes(attribute.String("app.download.name", name))
	api.WriteAttachment(w, r, "text/plain; charset=utf-8", name, []byte(req.Itinerary))
}

// Geocode godoc
// @Summary      Geocode Place
// @Description  Resolves a place name to coordinates.
// @Tags         Geocoding
// @Produce      json
// @Param        q query string true "Place Name"
// @Success      200 {object} types.GeoPoint "Place Resolved"
// @Failure      400 {object} map[string]interface{} "Missing Query"
// @Failure      404 {object} map[string]interface{} "Place Not Found"
// @Failure      502 {object} map[string]interface{} "Lookup Failed"
// @Failure      503 {object} map[string]interface{} "Geocoding Unavailable"
// @Router       /geocode [get]
func (h *HandlerImpl) Geocode(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Geocode")
	defer span.End()

	place := strings.TrimSpace(r.URL.Query().Get("q"))
	if place == "" {
		span.SetStatus(codes.Error, "Missing query")
		api.ErrorResponse(w, r, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	point, err := h.service.Geocode(ctx, place)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		api.ErrorResponse(w, r, statusForError(err), err.Error())
		return
	}
	span.SetStatus(codes.Ok, "Place resolved")
	api.WriteJSONResponse(w, r, http.StatusOK, point)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrGenerationUnavailable), errors.Is(err, types.ErrGeocodingUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, types.ErrGenerationFailed), errors.Is(err, types.ErrGeocodingFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
