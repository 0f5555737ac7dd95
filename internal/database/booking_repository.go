package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/transix/booking-backend/internal/models"
)

// uniqueViolation is the Postgres error code raised by the partial unique
// index on (trip_id, seat) for non-cancelled bookings.
const uniqueViolation = "23505"

// BookingRepository handles booking database operations
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, trip_id, agency_id, booker_id, seat, status,
	passenger_name, passenger_phone, passenger_email,
	journey_date, departure_time, journey_year, journey_month, journey_week,
	price, ticket_number, transaction_id, cancelled_at, created_at, updated_at`

// Create inserts a booking and claims a seat counter on the trip in one
// transaction. The conditional reserved-count update and the unique seat
// index make "trip full" and "seat taken" enforced invariants rather than
// best-effort checks.
func (r *BookingRepository) Create(booking *models.Booking) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO bookings (
			trip_id, agency_id, booker_id, seat, status,
			passenger_name, passenger_phone, passenger_email,
			journey_date, departure_time, journey_year, journey_month, journey_week,
			price, ticket_number, transaction_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		) RETURNING id, created_at, updated_at`

	err = tx.QueryRowx(insertQuery,
		booking.TripID, booking.AgencyID, booking.BookerID, booking.Seat, booking.Status,
		booking.PassengerName, booking.PassengerPhone, booking.PassengerEmail,
		booking.JourneyDate, booking.DepartureTime, booking.JourneyYear, booking.JourneyMonth, booking.JourneyWeek,
		booking.Price, booking.TicketNumber, booking.TransactionID,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return ErrSeatTaken
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	result, err := tx.Exec(
		`UPDATE trips SET reserved = reserved + 1, updated_at = NOW()
		 WHERE id = $1 AND reserved < seats`,
		booking.TripID)
	if err != nil {
		return fmt.Errorf("failed to claim seat counter: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrTripFull
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID uuid.UUID) (*models.Booking, error) {
	booking := &models.Booking{}
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)
	if err := r.db.Get(booking, query, bookingID); err != nil {
		return nil, err
	}
	return booking, nil
}

// TakenSeats returns the seat codes held by non-cancelled bookings on a
// trip. The comparison is case-insensitive: historical rows carry
// mixed-case statuses.
func (r *BookingRepository) TakenSeats(tripID uuid.UUID) ([]string, error) {
	var seats []string
	err := r.db.Select(&seats, `
		SELECT seat FROM bookings
		WHERE trip_id = $1 AND UPPER(status) <> 'CANCELLED'
		ORDER BY seat`,
		tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get taken seats: %w", err)
	}
	return seats, nil
}

// SeatTaken reports whether a seat is already claimed by a non-cancelled
// booking. Advisory pre-check only; the unique index is authoritative.
func (r *BookingRepository) SeatTaken(tripID uuid.UUID, seat string) (bool, error) {
	var count int
	err := r.db.Get(&count, `
		SELECT COUNT(*) FROM bookings
		WHERE trip_id = $1 AND seat = $2 AND UPPER(status) <> 'CANCELLED'`,
		tripID, seat)
	if err != nil {
		return false, fmt.Errorf("failed to check seat: %w", err)
	}
	return count > 0, nil
}

// ListByBookerAndYear retrieves a user's bookings for a journey year,
// newest first
func (r *BookingRepository) ListByBookerAndYear(bookerID uuid.UUID, year int) ([]models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE booker_id = $1 AND journey_year = $2
		ORDER BY created_at DESC`, bookingColumns)

	var bookings []models.Booking
	if err := r.db.Select(&bookings, query, bookerID, year); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListSweepCandidates returns bookings the lifecycle sweeper may cancel:
// unpaid statuses with no recorded transaction. Departure-time filtering
// happens in the sweeper because departure_time is a free-form string.
func (r *BookingRepository) ListSweepCandidates(limit int) ([]models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE status IN ('', 'PENDING', 'RESERVED', 'CASH_PENDING')
		  AND (transaction_id IS NULL OR transaction_id = '')
		ORDER BY created_at ASC
		LIMIT $1`, bookingColumns)

	var bookings []models.Booking
	if err := r.db.Select(&bookings, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list sweep candidates: %w", err)
	}
	return bookings, nil
}

// CancelAndRelease cancels a booking and releases its seat in one
// transaction: the booking flips to CANCELLED and the trip's reserved
// count is decremented, floored at zero.
func (r *BookingRepository) CancelAndRelease(bookingID uuid.UUID) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var tripID uuid.UUID
	err = tx.QueryRowx(`
		UPDATE bookings
		SET status = 'CANCELLED', cancelled_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND UPPER(status) <> 'CANCELLED'
		RETURNING trip_id`,
		bookingID).Scan(&tripID)
	if err == sql.ErrNoRows {
		// Either missing or already cancelled; let the caller decide
		var count int
		if getErr := r.db.Get(&count, `SELECT COUNT(*) FROM bookings WHERE id = $1`, bookingID); getErr == nil && count > 0 {
			return ErrAlreadyCancelled
		}
		return sql.ErrNoRows
	}
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE trips SET reserved = GREATEST(reserved - 1, 0), updated_at = NOW() WHERE id = $1`,
		tripID)
	if err != nil {
		return fmt.Errorf("failed to release seat: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ConfirmPayment records the transaction id and flips the booking to
// CONFIRMED
func (r *BookingRepository) ConfirmPayment(bookingID uuid.UUID, transactionID string) error {
	result, err := r.db.Exec(`
		UPDATE bookings
		SET status = 'CONFIRMED', transaction_id = $2, updated_at = NOW()
		WHERE id = $1`,
		bookingID, transactionID)
	if err != nil {
		return fmt.Errorf("failed to confirm booking: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
