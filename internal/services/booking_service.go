package services

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/transix/booking-backend/internal/config"
	"github.com/transix/booking-backend/internal/database"
	"github.com/transix/booking-backend/internal/models"
)

// Sentinel errors surfaced to handlers
var (
	ErrTripNotFound    = fmt.Errorf("trip not found")
	ErrBookingNotFound = fmt.Errorf("booking not found")
)

// BookingService orchestrates booking creation, cancellation and payment
// completion over the repositories
type BookingService struct {
	bookingRepo *database.BookingRepository
	tripRepo    *database.TripRepository
	agencyRepo  *database.AgencyRepository
	paymentRepo *database.PaymentRepository
	cfg         config.BookingConfig
	logger      *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo *database.BookingRepository,
	tripRepo *database.TripRepository,
	agencyRepo *database.AgencyRepository,
	paymentRepo *database.PaymentRepository,
	cfg config.BookingConfig,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		tripRepo:    tripRepo,
		agencyRepo:  agencyRepo,
		paymentRepo: paymentRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

const base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateTicketNumber generates a 7-character uppercase base-36 ticket
// token. Collisions are not checked; the keyspace is ~78 billion.
func GenerateTicketNumber() (string, error) {
	buf := make([]byte, 7)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate ticket number: %w", err)
	}
	for i, b := range buf {
		buf[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	return string(buf), nil
}

// CreateBooking claims a seat on a trip for the given passenger. A nil
// bookerID makes the booking anonymous. The returned booking carries the
// agency logo from a secondary lookup.
func (s *BookingService) CreateBooking(tripID uuid.UUID, bookerID *uuid.UUID, req *models.CreateBookingRequest) (*models.Booking, error) {
	trip, err := s.tripRepo.GetByID(tripID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to load trip: %w", err)
	}

	if trip.IsFull() {
		return nil, database.ErrTripFull
	}

	// Advisory pre-check for a friendly conflict before entering the
	// insert transaction; the unique index remains authoritative
	taken, err := s.bookingRepo.SeatTaken(tripID, req.Seat)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, database.ErrSeatTaken
	}

	journeyDate := trip.JourneyDate
	if req.JourneyDate != "" {
		journeyDate = req.JourneyDate
	}
	journey, err := time.Parse("2006-01-02", journeyDate)
	if err != nil {
		return nil, fmt.Errorf("invalid journey date %q: %w", journeyDate, err)
	}

	ticketNumber := req.TicketNumber
	if ticketNumber == "" {
		ticketNumber, err = GenerateTicketNumber()
		if err != nil {
			return nil, err
		}
	}

	booking := &models.Booking{
		TripID:         trip.ID,
		AgencyID:       trip.AgencyID,
		BookerID:       bookerID,
		Seat:           req.Seat,
		Status:         models.BookingPending,
		PassengerName:  req.PassengerName,
		PassengerPhone: req.PassengerPhone,
		PassengerEmail: req.PassengerEmail,
		JourneyDate:    journeyDate,
		DepartureTime:  trip.DepartureTime,
		JourneyYear:    journey.UTC().Year(),
		JourneyMonth:   MonthAbbreviation(journey),
		JourneyWeek:    WeekOfYear(journey),
		Price:          trip.Price,
		TicketNumber:   ticketNumber,
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		return nil, err
	}

	s.attachAgencyLogo(booking)

	// Best-effort waiver record: the reservation fee is waived and the
	// full ticket price falls due in cash at the counter. A failure here
	// never fails the booking, but it is logged so the gap is visible.
	if err := s.createWaiverRecord(booking); err != nil {
		s.logger.WithError(err).WithField("booking_id", booking.ID).
			Warn("Failed to record reservation-fee waiver; booking kept")
	}

	return booking, nil
}

// createWaiverRecord writes the CASH_AT_COUNTER payment record attached to
// every fresh booking: fee fully discounted, nothing due now.
func (s *BookingService) createWaiverRecord(booking *models.Booking) error {
	fee := CalculateReservationFee(booking.Price, models.FeePolicy{
		Mode:    models.FeeModePercentage,
		Percent: s.cfg.DefaultFeePercent,
		Cap:     s.cfg.DefaultFeeCap,
		Fixed:   s.cfg.DefaultFeeFixed,
	})

	record := &models.PaymentRecord{
		BookingID:          booking.ID,
		TripID:             booking.TripID,
		AgencyID:           booking.AgencyID,
		TicketAmount:       booking.Price,
		ReservationFee:     fee,
		Discount:           fee,
		AmountDueNow:       0,
		AmountDueAtCounter: booking.Price,
		Currency:           s.cfg.Currency,
		Method:             models.PaymentMethodCashAtCounter,
		Provider:           models.PaymentProviderInternal,
		Status:             models.PaymentStatusPending,
	}
	return s.paymentRepo.Create(record)
}

// attachAgencyLogo fetches the agency logo through a secondary lookup.
// Best-effort: a missing agency just leaves the logo empty.
func (s *BookingService) attachAgencyLogo(booking *models.Booking) {
	agency, err := s.agencyRepo.GetByID(booking.AgencyID)
	if err != nil {
		s.logger.WithError(err).WithField("agency_id", booking.AgencyID).
			Debug("Agency logo lookup failed")
		return
	}
	booking.AgencyLogo = agency.LogoURL
}

// Cancel cancels a booking and releases its seat in one transaction
func (s *BookingService) Cancel(bookingID uuid.UUID) error {
	err := s.bookingRepo.CancelAndRelease(bookingID)
	if err == sql.ErrNoRows {
		return ErrBookingNotFound
	}
	return err
}

// CompletePayment records an online reservation-fee payment and confirms
// the booking. A status-update failure after the payment record landed is
// logged and swallowed: the payment stays recorded (documented policy).
func (s *BookingService) CompletePayment(bookingID uuid.UUID, req *models.CompletePaymentRequest) (*models.PaymentRecord, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}

	policy := s.resolveFeePolicy(booking.AgencyID)
	fee := CalculateReservationFee(booking.Price, policy)

	discount := req.Discount
	if discount < 0 {
		discount = 0
	}
	if discount > fee {
		discount = fee
	}

	var promoCode *string
	if req.PromoCode != "" {
		promoCode = &req.PromoCode
	}
	transactionID := req.TransactionID

	record := &models.PaymentRecord{
		BookingID:          booking.ID,
		TripID:             booking.TripID,
		AgencyID:           booking.AgencyID,
		TicketAmount:       booking.Price,
		ReservationFee:     fee,
		Discount:           discount,
		AmountDueNow:       fee - discount,
		AmountDueAtCounter: booking.Price - fee + discount,
		Currency:           s.cfg.Currency,
		Method:             models.PaymentMethod(req.PaymentMethod),
		Provider:           models.PaymentProviderPayUnit,
		TransactionID:      &transactionID,
		PromoCode:          promoCode,
		Status:             models.PaymentStatusSucceeded,
	}
	if err := s.paymentRepo.Create(record); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.ConfirmPayment(booking.ID, req.TransactionID); err != nil {
		s.logger.WithError(err).WithField("booking_id", booking.ID).
			Error("Payment recorded but booking confirmation failed")
	}

	return record, nil
}

// resolveFeePolicy resolves the agency fee policy, falling back to defaults
// when the agency or its fields are absent
func (s *BookingService) resolveFeePolicy(agencyID uuid.UUID) models.FeePolicy {
	agency, err := s.agencyRepo.GetByID(agencyID)
	if err != nil {
		return models.FeePolicy{
			Mode:    models.FeeModePercentage,
			Percent: s.cfg.DefaultFeePercent,
			Cap:     s.cfg.DefaultFeeCap,
			Fixed:   s.cfg.DefaultFeeFixed,
		}
	}
	return models.ResolveFeePolicy(agency)
}
