package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Trip represents a scheduled journey offered by an agency
type Trip struct {
	ID            uuid.UUID `json:"id" db:"id"`
	AgencyID      uuid.UUID `json:"agency_id" db:"agency_id"`
	FromLocation  string    `json:"from_location" db:"from_location"`
	ToLocation    string    `json:"to_location" db:"to_location"`
	JourneyDate   string    `json:"journey_date" db:"journey_date"`     // YYYY-MM-DD
	DepartureTime string    `json:"departure_time" db:"departure_time"` // "HH:mm" or "h:mm AM/PM"
	Price         float64   `json:"price" db:"price"`
	Seats         int       `json:"seats" db:"seats"`
	Reserved      int       `json:"reserved" db:"reserved"`
	BusType       *string   `json:"bus_type,omitempty" db:"bus_type"`
	AgencyName    *string   `json:"agency_name,omitempty" db:"agency_name"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// IsFull reports whether every seat on the trip is reserved
func (t *Trip) IsFull() bool {
	return t.Reserved >= t.Seats
}

// SeatsLeft returns the number of unreserved seats, floored at zero
func (t *Trip) SeatsLeft() int {
	left := t.Seats - t.Reserved
	if left < 0 {
		return 0
	}
	return left
}

// TripSearchFilter holds the optional trip-search filters.
// All supplied filters are AND-composed; a zero filter matches every trip.
type TripSearchFilter struct {
	From             string `form:"from"`
	To               string `form:"to"`
	JourneyDate      string `form:"journeyDate"`
	DepartureTimeMin string `form:"departureTime"` // lower bound, inclusive
}

// Validate checks filter shape; empty filters are allowed
func (f *TripSearchFilter) Validate() error {
	if f.JourneyDate != "" {
		if _, err := time.Parse("2006-01-02", f.JourneyDate); err != nil {
			return fmt.Errorf("journeyDate must be YYYY-MM-DD")
		}
	}
	return nil
}
