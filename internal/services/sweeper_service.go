package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/transix/booking-backend/internal/database"
	"github.com/transix/booking-backend/internal/models"
)

// departureTimeLayouts are the formats departure_time strings appear in.
// The column is free-form text fed by several upstream writers.
var departureTimeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04 pm",
	"3:04PM",
	"3:04pm",
	time.RFC3339,
}

// DepartureAt combines a booking's journey date and departure time into a
// single UTC instant. The zero time and false are returned when either
// field fails to parse.
func DepartureAt(journeyDate, departureTime string) (time.Time, bool) {
	day, err := time.Parse("2006-01-02", journeyDate)
	if err != nil {
		return time.Time{}, false
	}
	for _, layout := range departureTimeLayouts {
		clock, err := time.Parse(layout, departureTime)
		if err != nil {
			continue
		}
		return time.Date(day.Year(), day.Month(), day.Day(),
			clock.Hour(), clock.Minute(), 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// SweeperService cancels unpaid bookings whose trip departure is too close,
// releasing their seats. A cron job drives the periodic scan; the booking
// list read path also invokes it inline so users never see expired holds.
type SweeperService struct {
	bookingRepo *database.BookingRepository
	cutoff      time.Duration
	batchSize   int
	logger      *logrus.Logger
}

// NewSweeperService creates a new SweeperService
func NewSweeperService(bookingRepo *database.BookingRepository, cutoff time.Duration, logger *logrus.Logger) *SweeperService {
	return &SweeperService{
		bookingRepo: bookingRepo,
		cutoff:      cutoff,
		batchSize:   500,
		logger:      logger,
	}
}

// RunOnce scans one batch of sweep candidates and cancels the expired ones.
// It returns the number of bookings cancelled.
func (s *SweeperService) RunOnce(now time.Time) int {
	candidates, err := s.bookingRepo.ListSweepCandidates(s.batchSize)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list sweep candidates")
		return 0
	}
	return s.sweep(candidates, now)
}

// SweepBookings applies the expiry rule to an already-loaded booking slice,
// cancelling expired holds and reflecting the new status in the returned
// slice. Used by the booking-list read path so users never see a hold the
// cron sweep would cancel moments later.
func (s *SweeperService) SweepBookings(bookings []models.Booking, now time.Time) []models.Booking {
	swept := s.sweptIDs(bookings, now)
	for i := range bookings {
		if _, ok := swept[bookings[i].ID.String()]; ok {
			bookings[i].Status = models.BookingCancelled
		}
	}
	return bookings
}

func (s *SweeperService) sweep(bookings []models.Booking, now time.Time) int {
	return len(s.sweptIDs(bookings, now))
}

func (s *SweeperService) sweptIDs(bookings []models.Booking, now time.Time) map[string]struct{} {
	swept := make(map[string]struct{})
	for i := range bookings {
		b := &bookings[i]
		if !s.ShouldSweep(b, now) {
			continue
		}
		if err := s.bookingRepo.CancelAndRelease(b.ID); err != nil {
			if err == database.ErrAlreadyCancelled {
				continue
			}
			s.logger.WithError(err).WithField("booking_id", b.ID).
				Error("Failed to cancel expired booking")
			continue
		}
		swept[b.ID.String()] = struct{}{}
		s.logger.WithFields(logrus.Fields{
			"booking_id":    b.ID,
			"trip_id":       b.TripID,
			"journey_date":  b.JourneyDate,
			"departure":     b.DepartureTime,
			"ticket_number": b.TicketNumber,
		}).Info("Cancelled expired booking")
	}
	return swept
}

// ShouldSweep reports whether a booking is past the payment cutoff:
// sweepable status, no transaction, and departure within the cutoff window
// or already gone. The cutoff instant itself sweeps. Unparseable departure
// fields never sweep.
func (s *SweeperService) ShouldSweep(b *models.Booking, now time.Time) bool {
	if !b.IsSweepable() {
		return false
	}
	departure, ok := DepartureAt(b.JourneyDate, b.DepartureTime)
	if !ok {
		s.logger.WithFields(logrus.Fields{
			"booking_id":   b.ID,
			"journey_date": b.JourneyDate,
			"departure":    b.DepartureTime,
		}).Warn("Unparseable departure on sweep candidate, skipping")
		return false
	}
	return !now.UTC().Before(departure.Add(-s.cutoff))
}
