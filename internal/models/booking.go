package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	// BookingPendingEmpty is the zero status a freshly inserted booking may carry
	BookingPendingEmpty BookingStatus = ""
	BookingPending      BookingStatus = "PENDING"
	BookingReserved     BookingStatus = "RESERVED"
	BookingCashPending  BookingStatus = "CASH_PENDING"
	BookingPaid         BookingStatus = "PAID"
	BookingConfirmed    BookingStatus = "CONFIRMED"
	BookingBooked       BookingStatus = "BOOKED"
	BookingCancelled    BookingStatus = "CANCELLED"
)

// Booking represents a passenger's seat claim on a trip
type Booking struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	TripID         uuid.UUID     `json:"trip_id" db:"trip_id"`
	AgencyID       uuid.UUID     `json:"agency_id" db:"agency_id"`
	BookerID       *uuid.UUID    `json:"booker_id,omitempty" db:"booker_id"` // nil for anonymous bookings
	Seat           string        `json:"seat" db:"seat"`
	Status         BookingStatus `json:"status" db:"status"`
	PassengerName  string        `json:"passenger_name" db:"passenger_name"`
	PassengerPhone string        `json:"passenger_phone" db:"passenger_phone"`
	PassengerEmail *string       `json:"passenger_email,omitempty" db:"passenger_email"`
	JourneyDate    string        `json:"journey_date" db:"journey_date"`
	DepartureTime  string        `json:"departure_time" db:"departure_time"`
	JourneyYear    int           `json:"journey_year" db:"journey_year"`
	JourneyMonth   string        `json:"journey_month" db:"journey_month"` // locale abbreviation, e.g. "Jan"
	JourneyWeek    string        `json:"journey_week" db:"journey_week"`
	Price          float64       `json:"price" db:"price"`
	TicketNumber   string        `json:"ticket_number" db:"ticket_number"`
	TransactionID  *string       `json:"transaction_id,omitempty" db:"transaction_id"`
	CancelledAt    *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`

	// Attached via a secondary agency lookup, never stored on the booking row
	AgencyLogo *string `json:"agency_logo,omitempty" db:"-"`
}

// IsCancelled reports whether the booking is cancelled, case-insensitively:
// historical rows carry mixed-case statuses
func (b *Booking) IsCancelled() bool {
	return strings.EqualFold(string(b.Status), string(BookingCancelled))
}

// IsProtected reports whether the booking may never be auto-cancelled
func (b *Booking) IsProtected() bool {
	switch b.Status {
	case BookingPaid, BookingConfirmed, BookingBooked:
		return true
	}
	return false
}

// IsSweepable reports whether the lifecycle sweeper may cancel this booking:
// unpaid, not protected, not already cancelled, no recorded transaction
func (b *Booking) IsSweepable() bool {
	if b.IsProtected() || b.IsCancelled() {
		return false
	}
	if b.TransactionID != nil && *b.TransactionID != "" {
		return false
	}
	switch b.Status {
	case BookingPendingEmpty, BookingPending, BookingReserved, BookingCashPending:
		return true
	}
	return false
}

// IsAnonymous reports whether the booking has no owning account
func (b *Booking) IsAnonymous() bool {
	return b.BookerID == nil
}

// CreateBookingRequest is the payload for both booking endpoints
type CreateBookingRequest struct {
	Seat           string  `json:"seat"`
	PassengerName  string  `json:"passengerName"`
	PassengerPhone string  `json:"passengerPhone"`
	PassengerEmail *string `json:"passengerEmail,omitempty"`

	// Optional pre-assigned ticket metadata
	TicketNumber string `json:"ticketNumber,omitempty"`
	JourneyDate  string `json:"journeyDate,omitempty"` // overrides the trip's date when supplied
}

// Validate checks required booking fields
func (r *CreateBookingRequest) Validate() error {
	if strings.TrimSpace(r.Seat) == "" {
		return fmt.Errorf("seat is required")
	}
	if strings.TrimSpace(r.PassengerName) == "" {
		return fmt.Errorf("passengerName is required")
	}
	if strings.TrimSpace(r.PassengerPhone) == "" {
		return fmt.Errorf("passengerPhone is required")
	}
	if r.JourneyDate != "" {
		if _, err := time.Parse("2006-01-02", r.JourneyDate); err != nil {
			return fmt.Errorf("journeyDate must be YYYY-MM-DD")
		}
	}
	return nil
}

// CompletePaymentRequest is the payload for finalizing a reservation payment
type CompletePaymentRequest struct {
	TransactionID string  `json:"transactionId"`
	PaymentMethod string  `json:"paymentMethod"`
	Amount        float64 `json:"amount"`
	Discount      float64 `json:"discount,omitempty"`
	PromoCode     string  `json:"promoCode,omitempty"`
}

// Validate checks required payment-completion fields
func (r *CompletePaymentRequest) Validate() error {
	if strings.TrimSpace(r.TransactionID) == "" {
		return fmt.Errorf("transactionId is required")
	}
	if strings.TrimSpace(r.PaymentMethod) == "" {
		return fmt.Errorf("paymentMethod is required")
	}
	if r.Amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	return nil
}
