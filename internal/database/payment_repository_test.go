package database

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transix/booking-backend/internal/models"
)

func newMockPaymentRepo(t *testing.T) (*PaymentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPaymentRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func paymentRecordRows(id uuid.UUID, verifiedAt interface{}) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "booking_id", "trip_id", "agency_id",
		"ticket_amount", "reservation_fee", "discount", "amount_due_now", "amount_due_at_counter",
		"currency", "method", "provider", "transaction_id", "promo_code",
		"status", "verified_at", "created_at",
	}).AddRow(
		id, uuid.New(), uuid.New(), uuid.New(),
		5000.0, 500.0, 0.0, 500.0, 4500.0,
		"XAF", "MOBILE_MONEY", "PAYUNIT", "tx-1", nil,
		"PENDING", verifiedAt, time.Now())
}

func TestPaymentRepository_Verify(t *testing.T) {
	repo, mock := newMockPaymentRepo(t)
	paymentID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM payment_records WHERE id = $1")).
		WithArgs(paymentID).
		WillReturnRows(paymentRecordRows(paymentID, nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment_records")).
		WithArgs(paymentID, models.PaymentStatusSucceeded).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Verify(paymentID, models.PaymentStatusSucceeded)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_Verify_AlreadyVerified(t *testing.T) {
	repo, mock := newMockPaymentRepo(t)
	paymentID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM payment_records WHERE id = $1")).
		WithArgs(paymentID).
		WillReturnRows(paymentRecordRows(paymentID, time.Now()))

	err := repo.Verify(paymentID, models.PaymentStatusFailed)
	assert.Equal(t, ErrAlreadyVerified, err)
}

func TestPaymentRepository_Verify_LostRaceReportsAlreadyVerified(t *testing.T) {
	repo, mock := newMockPaymentRepo(t)
	paymentID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM payment_records WHERE id = $1")).
		WithArgs(paymentID).
		WillReturnRows(paymentRecordRows(paymentID, nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment_records")).
		WithArgs(paymentID, models.PaymentStatusSucceeded).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Verify(paymentID, models.PaymentStatusSucceeded)
	assert.Equal(t, ErrAlreadyVerified, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_Verify_NotFound(t *testing.T) {
	repo, mock := newMockPaymentRepo(t)
	paymentID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM payment_records WHERE id = $1")).
		WithArgs(paymentID).
		WillReturnError(sql.ErrNoRows)

	err := repo.Verify(paymentID, models.PaymentStatusSucceeded)
	assert.Equal(t, sql.ErrNoRows, err)
}
