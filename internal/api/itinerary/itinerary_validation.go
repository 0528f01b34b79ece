package itinerary

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json field names so messages match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseTripRequest validates a wire payload and turns it into a TripRequest.
// now is used to reject start dates in the past.
func ParseTripRequest(payload types.TripRequestPayload, now time.Time) (types.TripRequest, error) {
	if err := validateStruct(payload); err != nil {
		return types.TripRequest{}, err
	}

	req := types.TripRequest{
		Destination:  strings.TrimSpace(payload.Destination),
		DurationDays: payload.DurationDays,
		BudgetLevel:  types.BudgetLevel(payload.BudgetLevel),
		StayType:     types.StayType(payload.StayType),
		Interests:    strings.TrimSpace(payload.Interests),
	}

	if payload.StartDate != "" {
		start, err := time.Parse(dateLayout, payload.StartDate)
		if err != nil {
			return types.TripRequest{}, fmt.Errorf("%w: start_date must be YYYY-MM-DD", types.ErrInvalidRequest)
		}
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if start.Before(today) {
			return types.TripRequest{}, fmt.Errorf("%w: start_date cannot be in the past", types.ErrInvalidRequest)
		}
		req.StartDate = &start
	}

	if err := ValidateTripRequest(req); err != nil {
		return types.TripRequest{}, err
	}
	return req, nil
}

// ValidateTripRequest checks the invariants the prompt builder relies on.
// It runs before any remote call.
func ValidateTripRequest(req types.TripRequest) error {
	switch {
	case strings.TrimSpace(req.Destination) == "":
		return fmt.Errorf("%w: please enter a destination", types.ErrInvalidRequest)
	case req.DurationDays < 1:
		return fmt.Errorf("%w: duration must be at least 1 day", types.ErrInvalidRequest)
	case !req.BudgetLevel.Valid():
		return fmt.Errorf("%w: unknown budget level %q", types.ErrInvalidRequest, req.BudgetLevel)
	case !req.StayType.Valid():
		return fmt.Errorf("%w: unknown stay type %q", types.ErrInvalidRequest, req.StayType)
	}
	return nil
}

// validateStruct runs the struct tag rules and flattens the result into one
// ErrInvalidRequest.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s", types.ErrInvalidRequest, err.Error())
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s=%s' check", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s' check", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", types.ErrInvalidRequest, strings.Join(msgs, "; "))
}
