package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/transix/booking-backend/internal/database"
	"github.com/transix/booking-backend/internal/models"
)

// PaymentHandler handles payment-record requests
type PaymentHandler struct {
	paymentRepo *database.PaymentRepository
	bookingRepo *database.BookingRepository
	currency    string
	logger      *logrus.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(
	paymentRepo *database.PaymentRepository,
	bookingRepo *database.BookingRepository,
	currency string,
	logger *logrus.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		currency:    currency,
		logger:      logger,
	}
}

// Record handles POST /api/v1/payments/record, writing an explicit payment
// audit entry for a booking
func (h *PaymentHandler) Record(c *gin.Context) {
	var req models.CreatePaymentRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	bookingID := uuid.MustParse(req.BookingID)
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

	provider := models.PaymentProvider(req.Provider)
	if provider == "" {
		provider = models.PaymentProviderInternal
	}
	var transactionID *string
	if req.TransactionID != "" {
		transactionID = &req.TransactionID
	}
	var promoCode *string
	if req.PromoCode != "" {
		promoCode = &req.PromoCode
	}

	record := &models.PaymentRecord{
		BookingID:          booking.ID,
		TripID:             booking.TripID,
		AgencyID:           booking.AgencyID,
		TicketAmount:       req.TicketAmount,
		ReservationFee:     req.ReservationFee,
		Discount:           req.Discount,
		AmountDueNow:       req.AmountDueNow,
		AmountDueAtCounter: req.AmountDueAtCounter,
		Currency:           h.currency,
		Method:             models.PaymentMethod(req.Method),
		Provider:           provider,
		TransactionID:      transactionID,
		PromoCode:          promoCode,
		Status:             models.PaymentStatusPending,
	}

	if err := h.paymentRepo.Create(record); err != nil {
		h.logger.WithError(err).WithField("booking_id", booking.ID).Error("Payment record failed")
		respondError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	respondOK(c, http.StatusOK, "Payment recorded", record)
}

// Verify handles POST /api/v1/payments/verify. Verification is one-shot: a
// record that already carries a verification outcome cannot be flipped.
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	paymentID := uuid.MustParse(req.PaymentID)
	err := h.paymentRepo.Verify(paymentID, models.PaymentRecordStatus(req.Status))
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			respondError(c, http.StatusNotFound, "Payment not found")
		case database.ErrAlreadyVerified:
			respondError(c, http.StatusConflict, "Payment already verified")
		default:
			h.logger.WithError(err).WithField("payment_id", paymentID).Error("Payment verification failed")
			respondError(c, http.StatusInternalServerError, "Failed to verify payment")
		}
		return
	}

	respondOK(c, http.StatusOK, "Payment verified", nil)
}

// ListByBooking handles GET /api/v1/payments/by-booking/:bookingId,
// returning a booking's payment records oldest first
func (h *PaymentHandler) ListByBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid booking id")
		return
	}

	records, err := h.paymentRepo.ListByBooking(bookingID)
	if err != nil {
		h.logger.WithError(err).WithField("booking_id", bookingID).Error("Payment list failed")
		respondError(c, http.StatusInternalServerError, "Failed to load payments")
		return
	}
	if records == nil {
		records = []models.PaymentRecord{}
	}

	respondOK(c, http.StatusOK, "Payments retrieved", records)
}
