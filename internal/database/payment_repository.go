package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/transix/booking-backend/internal/models"
)

// PaymentRepository handles payment-record database operations
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `
	id, booking_id, trip_id, agency_id,
	ticket_amount, reservation_fee, discount, amount_due_now, amount_due_at_counter,
	currency, method, provider, transaction_id, promo_code,
	status, verified_at, created_at`

// Create inserts a payment record. Records are immutable after this point
// except for the one-shot verification update.
func (r *PaymentRepository) Create(record *models.PaymentRecord) error {
	query := `
		INSERT INTO payment_records (
			booking_id, trip_id, agency_id,
			ticket_amount, reservation_fee, discount, amount_due_now, amount_due_at_counter,
			currency, method, provider, transaction_id, promo_code, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		) RETURNING id, created_at`

	err := r.db.QueryRowx(query,
		record.BookingID, record.TripID, record.AgencyID,
		record.TicketAmount, record.ReservationFee, record.Discount,
		record.AmountDueNow, record.AmountDueAtCounter,
		record.Currency, record.Method, record.Provider,
		record.TransactionID, record.PromoCode, record.Status,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment record: %w", err)
	}
	return nil
}

// GetByID retrieves a payment record
func (r *PaymentRepository) GetByID(paymentID uuid.UUID) (*models.PaymentRecord, error) {
	record := &models.PaymentRecord{}
	query := fmt.Sprintf(`SELECT %s FROM payment_records WHERE id = $1`, paymentColumns)
	if err := r.db.Get(record, query, paymentID); err != nil {
		return nil, err
	}
	return record, nil
}

// ListByBooking retrieves all payment records for a booking, oldest first
func (r *PaymentRepository) ListByBooking(bookingID uuid.UUID) ([]models.PaymentRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM payment_records
		WHERE booking_id = $1
		ORDER BY created_at ASC`, paymentColumns)

	var records []models.PaymentRecord
	if err := r.db.Select(&records, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to list payment records: %w", err)
	}
	return records, nil
}

// Verify sets the verification status exactly once. A second verification
// attempt returns ErrAlreadyVerified; a missing record surfaces as
// sql.ErrNoRows from the lookup.
func (r *PaymentRepository) Verify(paymentID uuid.UUID, status models.PaymentRecordStatus) error {
	record, err := r.GetByID(paymentID)
	if err != nil {
		return err
	}
	if record.IsVerified() {
		return ErrAlreadyVerified
	}

	result, err := r.db.Exec(`
		UPDATE payment_records
		SET status = $2, verified_at = NOW()
		WHERE id = $1 AND verified_at IS NULL`,
		paymentID, status)
	if err != nil {
		return fmt.Errorf("failed to verify payment record: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	// A concurrent verification can land between the lookup and the update
	if rows == 0 {
		return ErrAlreadyVerified
	}
	return nil
}
