package types

import (
	"time"
)

// BudgetLevel is how much the traveller is willing to spend.
type BudgetLevel string

const (
	BudgetTight    BudgetLevel = "tight"
	BudgetModerate BudgetLevel = "moderate"
	BudgetFlexible BudgetLevel = "flexible"
)

// StayType is the preferred kind of accommodation.
type StayType string

const (
	StayHostel   StayType = "hostel"
	StayHotel    StayType = "hotel"
	StayResort   StayType = "resort"
	StayHomestay StayType = "homestay"
)

// BudgetLevels lists the accepted budget levels in display order.
func BudgetLevels() []BudgetLevel {
	return []BudgetLevel{BudgetTight, BudgetModerate, BudgetFlexible}
}

// StayTypes lists the accepted stay types in display order.
func StayTypes() []StayType {
	return []StayType{StayHostel, StayHotel, StayResort, StayHomestay}
}

func (b BudgetLevel) Valid() bool {
	for _, v := range BudgetLevels() {
		if b == v {
			return true
		}
	}
	return false
}

func (s StayType) Valid() bool {
	for _, v := range StayTypes() {
		if s == v {
			return true
		}
	}
	return false
}

// TripRequest holds the trip parameters collected from the user.
// It is treated as immutable once handed to the prompt builder.
type TripRequest struct {
	Destination  string      `json:"destination"`
	StartDate    *time.Time  `json:"start_date,omitempty"` // nil when the user did not pick a date
	DurationDays int         `json:"duration_days"`
	BudgetLevel  BudgetLevel `json:"budget_level"`
	StayType     StayType    `json:"stay_type"`
	Interests    string      `json:"interests"`
}

// TripRequestPayload is the wire shape of a TripRequest.
// Dates travel as YYYY-MM-DD strings.
type TripRequestPayload struct {
	Destination  string `json:"destination" validate:"required,max=200"`
	StartDate    string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DurationDays int    `json:"duration_days" validate:"required,min=1"`
	BudgetLevel  string `json:"budget_level" validate:"required,oneof=tight moderate flexible"`
	StayType     string `json:"stay_type" validate:"required,oneof=hostel hotel resort homestay"`
	Interests    string `json:"interests" validate:"max=500"`
}

// DownloadRequest carries a previously generated itinerary back for download.
type DownloadRequest struct {
	Destination string `json:"destination" validate:"required"`
	Itinerary   string `json:"itinerary" validate:"required"`
}
