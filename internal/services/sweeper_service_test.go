package services

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transix/booking-backend/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestDepartureAt(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		departure string
		expected  string
		ok        bool
	}{
		{"24h clock", "2025-06-10", "14:30", "2025-06-10T14:30:00Z", true},
		{"12h uppercase", "2025-06-10", "2:30 PM", "2025-06-10T14:30:00Z", true},
		{"12h lowercase", "2025-06-10", "2:30 pm", "2025-06-10T14:30:00Z", true},
		{"12h no space", "2025-06-10", "2:30PM", "2025-06-10T14:30:00Z", true},
		{"morning", "2025-06-10", "9:15 AM", "2025-06-10T09:15:00Z", true},
		{"with seconds", "2025-06-10", "14:30:00", "2025-06-10T14:30:00Z", true},
		{"garbage time", "2025-06-10", "noonish", "", false},
		{"garbage date", "not-a-date", "14:30", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DepartureAt(tt.date, tt.departure)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				expected, err := time.Parse(time.RFC3339, tt.expected)
				require.NoError(t, err)
				assert.True(t, got.Equal(expected), "got %s", got)
			}
		})
	}
}

func TestShouldSweep(t *testing.T) {
	svc := NewSweeperService(nil, 30*time.Minute, testLogger())

	departure := "14:00"
	date := "2025-06-10"
	beforeCutoff := mustParseRFC3339(t, "2025-06-10T13:00:00Z")
	justBeforeCutoff := mustParseRFC3339(t, "2025-06-10T13:29:59Z")
	atCutoff := mustParseRFC3339(t, "2025-06-10T13:30:00Z")
	insideCutoff := mustParseRFC3339(t, "2025-06-10T13:45:00Z")
	afterDeparture := mustParseRFC3339(t, "2025-06-10T15:00:00Z")

	pending := &models.Booking{
		Status:        models.BookingPending,
		JourneyDate:   date,
		DepartureTime: departure,
	}

	assert.False(t, svc.ShouldSweep(pending, beforeCutoff))
	assert.False(t, svc.ShouldSweep(pending, justBeforeCutoff))
	assert.True(t, svc.ShouldSweep(pending, atCutoff), "exactly 30 minutes out must sweep")
	assert.True(t, svc.ShouldSweep(pending, insideCutoff))
	assert.True(t, svc.ShouldSweep(pending, afterDeparture))
}

func TestShouldSweep_ProtectedStatusesNeverSwept(t *testing.T) {
	svc := NewSweeperService(nil, 30*time.Minute, testLogger())
	longGone := mustParseRFC3339(t, "2030-01-01T00:00:00Z")

	for _, status := range []models.BookingStatus{
		models.BookingPaid,
		models.BookingConfirmed,
		models.BookingBooked,
		models.BookingCancelled,
	} {
		b := &models.Booking{
			Status:        status,
			JourneyDate:   "2025-06-10",
			DepartureTime: "14:00",
		}
		assert.False(t, svc.ShouldSweep(b, longGone), "status %s", status)
	}
}

func TestShouldSweep_TransactionBlocksSweep(t *testing.T) {
	svc := NewSweeperService(nil, 30*time.Minute, testLogger())
	longGone := mustParseRFC3339(t, "2030-01-01T00:00:00Z")

	txID := "tx-123"
	b := &models.Booking{
		Status:        models.BookingPending,
		JourneyDate:   "2025-06-10",
		DepartureTime: "14:00",
		TransactionID: &txID,
	}
	assert.False(t, svc.ShouldSweep(b, longGone))
}

func TestShouldSweep_UnparseableDepartureSkipped(t *testing.T) {
	svc := NewSweeperService(nil, 30*time.Minute, testLogger())
	longGone := mustParseRFC3339(t, "2030-01-01T00:00:00Z")

	b := &models.Booking{
		Status:        models.BookingPending,
		JourneyDate:   "2025-06-10",
		DepartureTime: "whenever",
	}
	assert.False(t, svc.ShouldSweep(b, longGone))
}

func TestShouldSweep_EmptyStatusSweeps(t *testing.T) {
	svc := NewSweeperService(nil, 30*time.Minute, testLogger())

	b := &models.Booking{
		Status:        models.BookingPendingEmpty,
		JourneyDate:   "2025-06-10",
		DepartureTime: "14:00",
	}
	assert.True(t, svc.ShouldSweep(b, mustParseRFC3339(t, "2025-06-10T13:45:00Z")))
}

func mustParseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}
