package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentMethod identifies how a payment is (or will be) made
type PaymentMethod string

const (
	PaymentMethodCashAtCounter PaymentMethod = "CASH_AT_COUNTER"
	PaymentMethodMobileMoney   PaymentMethod = "MOBILE_MONEY"
	PaymentMethodCard          PaymentMethod = "CARD"
)

// PaymentProvider identifies the upstream processor of a payment
type PaymentProvider string

const (
	PaymentProviderPayUnit  PaymentProvider = "PAYUNIT"
	PaymentProviderInternal PaymentProvider = "INTERNAL"
)

// PaymentRecordStatus represents the state of a payment record
type PaymentRecordStatus string

const (
	PaymentStatusPending   PaymentRecordStatus = "PENDING"
	PaymentStatusSucceeded PaymentRecordStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentRecordStatus = "FAILED"
)

// PaymentRecord is an audit entry of money movement for a booking.
// Records are immutable once created except for the one-shot
// verification-status update.
type PaymentRecord struct {
	ID                 uuid.UUID           `json:"id" db:"id"`
	BookingID          uuid.UUID           `json:"booking_id" db:"booking_id"`
	TripID             uuid.UUID           `json:"trip_id" db:"trip_id"`
	AgencyID           uuid.UUID           `json:"agency_id" db:"agency_id"`
	TicketAmount       float64             `json:"ticket_amount" db:"ticket_amount"`
	ReservationFee     float64             `json:"reservation_fee" db:"reservation_fee"`
	Discount           float64             `json:"discount" db:"discount"`
	AmountDueNow       float64             `json:"amount_due_now" db:"amount_due_now"`
	AmountDueAtCounter float64             `json:"amount_due_at_counter" db:"amount_due_at_counter"`
	Currency           string              `json:"currency" db:"currency"`
	Method             PaymentMethod       `json:"method" db:"method"`
	Provider           PaymentProvider     `json:"provider" db:"provider"`
	TransactionID      *string             `json:"transaction_id,omitempty" db:"transaction_id"`
	PromoCode          *string             `json:"promo_code,omitempty" db:"promo_code"`
	Status             PaymentRecordStatus `json:"status" db:"status"`
	VerifiedAt         *time.Time          `json:"verified_at,omitempty" db:"verified_at"`
	CreatedAt          time.Time           `json:"created_at" db:"created_at"`
}

// IsVerified reports whether the record's verification status was already set
func (p *PaymentRecord) IsVerified() bool {
	return p.VerifiedAt != nil
}

// CreatePaymentRecordRequest is the payload for POST /api/v1/payments/record
type CreatePaymentRecordRequest struct {
	BookingID          string  `json:"bookingId"`
	TicketAmount       float64 `json:"ticketAmount"`
	ReservationFee     float64 `json:"reservationFee"`
	Discount           float64 `json:"discount"`
	AmountDueNow       float64 `json:"amountDueNow"`
	AmountDueAtCounter float64 `json:"amountDueAtCounter"`
	Method             string  `json:"method"`
	Provider           string  `json:"provider,omitempty"`
	TransactionID      string  `json:"transactionId,omitempty"`
	PromoCode          string  `json:"promoCode,omitempty"`
}

// Validate checks required payment-record fields
func (r *CreatePaymentRecordRequest) Validate() error {
	if _, err := uuid.Parse(r.BookingID); err != nil {
		return fmt.Errorf("bookingId must be a valid id")
	}
	if strings.TrimSpace(r.Method) == "" {
		return fmt.Errorf("method is required")
	}
	if r.TicketAmount < 0 || r.ReservationFee < 0 || r.Discount < 0 {
		return fmt.Errorf("amounts must not be negative")
	}
	return nil
}

// VerifyPaymentRequest is the payload for POST /api/v1/payments/verify
type VerifyPaymentRequest struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"` // SUCCEEDED or FAILED
}

// Validate checks verify-request fields
func (r *VerifyPaymentRequest) Validate() error {
	if _, err := uuid.Parse(r.PaymentID); err != nil {
		return fmt.Errorf("paymentId must be a valid id")
	}
	switch PaymentRecordStatus(r.Status) {
	case PaymentStatusSucceeded, PaymentStatusFailed:
		return nil
	}
	return fmt.Errorf("status must be SUCCEEDED or FAILED")
}
