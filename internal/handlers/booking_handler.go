package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/transix/booking-backend/internal/database"
	"github.com/transix/booking-backend/internal/middleware"
	"github.com/transix/booking-backend/internal/models"
	"github.com/transix/booking-backend/internal/services"
)

// BookingHandler handles booking lifecycle requests
type BookingHandler struct {
	bookingSvc  *services.BookingService
	sweeperSvc  *services.SweeperService
	bookingRepo *database.BookingRepository
	logger      *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	bookingSvc *services.BookingService,
	sweeperSvc *services.SweeperService,
	bookingRepo *database.BookingRepository,
	logger *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookingSvc:  bookingSvc,
		sweeperSvc:  sweeperSvc,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Create handles POST /api/v1/bookings/create-booking/:tripId (authenticated)
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	h.create(c, &userID)
}

// CreateAnonymous handles POST /api/v1/bookings/anon-booking/:tripId.
// Anonymous bookings carry no owner and are retrievable by id alone.
func (h *BookingHandler) CreateAnonymous(c *gin.Context) {
	h.create(c, nil)
}

func (h *BookingHandler) create(c *gin.Context, bookerID *uuid.UUID) {
	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid trip id")
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.bookingSvc.CreateBooking(tripID, bookerID, &req)
	if err != nil {
		switch err {
		case services.ErrTripNotFound:
			respondError(c, http.StatusNotFound, "Trip not found")
		case database.ErrTripFull:
			respondError(c, http.StatusConflict, "Trip is fully booked")
		case database.ErrSeatTaken:
			respondError(c, http.StatusConflict, "Seat is already taken")
		default:
			h.logger.WithError(err).WithField("trip_id", tripID).Error("Booking creation failed")
			respondError(c, http.StatusInternalServerError, "Failed to create booking")
		}
		return
	}

	respondOK(c, http.StatusOK, "Booking created", booking)
}

// TripSeats handles GET /api/v1/bookings/trip-seats/:tripId, returning the
// seat codes held by non-cancelled bookings
func (h *BookingHandler) TripSeats(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("tripId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid trip id")
		return
	}

	seats, err := h.bookingRepo.TakenSeats(tripID)
	if err != nil {
		h.logger.WithError(err).WithField("trip_id", tripID).Error("Taken-seats lookup failed")
		respondError(c, http.StatusInternalServerError, "Failed to load seats")
		return
	}
	if seats == nil {
		seats = []string{}
	}

	respondOK(c, http.StatusOK, "Seats retrieved", gin.H{"taken_seats": seats})
}

// ListMine handles GET /api/v1/bookings/user-bookings. Expired unpaid holds
// are swept inline before the list is returned, so a user never sees a
// hold the sweeper would cancel moments later.
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	year := time.Now().UTC().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid year")
			return
		}
		year = parsed
	}

	bookings, err := h.bookingRepo.ListByBookerAndYear(userID, year)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Booking list failed")
		respondError(c, http.StatusInternalServerError, "Failed to load bookings")
		return
	}

	bookings = h.sweeperSvc.SweepBookings(bookings, time.Now())
	if bookings == nil {
		bookings = []models.Booking{}
	}

	respondOK(c, http.StatusOK, "Bookings retrieved", bookings)
}

// Get handles GET /api/v1/bookings/booking/:bookingId. Owned bookings are
// only visible to their owner; anonymous bookings are visible to anyone
// holding the id.
func (h *BookingHandler) Get(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid booking id")
		return
	}

	booking, err := h.bookingRepo.GetByID(bookingID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Booking not found")
			return
		}
		h.logger.WithError(err).WithField("booking_id", bookingID).Error("Booking lookup failed")
		respondError(c, http.StatusInternalServerError, "Failed to load booking")
		return
	}

	if !booking.IsAnonymous() {
		userID, ok := middleware.GetUserID(c)
		if !ok || userID != *booking.BookerID {
			respondError(c, http.StatusNotFound, "Booking not found")
			return
		}
	}

	respondOK(c, http.StatusOK, "Booking retrieved", booking)
}

// Cancel handles POST /api/v1/bookings/cancel/:bookingId. Owner-checked for
// owned bookings; cancellation and seat release happen atomically, and
// cancelling twice is a conflict.
func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid booking id")
		return
	}

	booking, err := h.bookingRepo.GetByID(bookingID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Booking not found")
			return
		}
		h.logger.WithError(err).WithField("booking_id", bookingID).Error("Booking lookup failed")
		respondError(c, http.StatusInternalServerError, "Failed to cancel booking")
		return
	}

	if !booking.IsAnonymous() {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		if userID != *booking.BookerID {
			respondError(c, http.StatusNotFound, "Booking not found")
			return
		}
	}

	if err := h.bookingSvc.Cancel(bookingID); err != nil {
		switch err {
		case services.ErrBookingNotFound:
			respondError(c, http.StatusNotFound, "Booking not found")
		case database.ErrAlreadyCancelled:
			respondError(c, http.StatusConflict, "Booking is already cancelled")
		default:
			h.logger.WithError(err).WithField("booking_id", bookingID).Error("Cancellation failed")
			respondError(c, http.StatusInternalServerError, "Failed to cancel booking")
		}
		return
	}

	respondOK(c, http.StatusOK, "Booking cancelled", nil)
}

// CompletePayment handles
// POST /api/v1/bookings/:bookingId/complete-reservation-payment, recording
// the online reservation-fee payment and confirming the booking
func (h *BookingHandler) CompletePayment(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid booking id")
		return
	}

	var req models.CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.bookingSvc.CompletePayment(bookingID, &req)
	if err != nil {
		if err == services.ErrBookingNotFound {
			respondError(c, http.StatusNotFound, "Booking not found")
			return
		}
		h.logger.WithError(err).WithField("booking_id", bookingID).Error("Payment completion failed")
		respondError(c, http.StatusInternalServerError, "Failed to complete payment")
		return
	}

	respondOK(c, http.StatusOK, "Payment recorded", record)
}
