package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/transix/booking-backend/internal/database"
	"github.com/transix/booking-backend/internal/models"
	"github.com/transix/booking-backend/internal/services"
)

// PromoHandler handles promo-code validation
type PromoHandler struct {
	promoRepo *database.PromotionRepository
	logger    *logrus.Logger
}

// NewPromoHandler creates a new PromoHandler
func NewPromoHandler(promoRepo *database.PromotionRepository, logger *logrus.Logger) *PromoHandler {
	return &PromoHandler{
		promoRepo: promoRepo,
		logger:    logger,
	}
}

// Validate handles POST /api/v1/promos/validate. Unknown and expired codes are
// not errors: the response says the code is invalid and leaves the fee
// unchanged, always with a 200.
func (h *PromoHandler) Validate(c *gin.Context) {
	var req models.ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	invalid := models.PromoValidationResult{
		Valid:    false,
		Code:     req.Code,
		Discount: 0,
		FinalFee: req.Fee,
	}

	var agencyID *uuid.UUID
	if req.AgencyID != "" {
		parsed := uuid.MustParse(req.AgencyID)
		agencyID = &parsed
	}

	promo, err := h.promoRepo.FindActiveByCode(req.Code, agencyID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondOK(c, http.StatusOK, "Promo code not valid", invalid)
			return
		}
		h.logger.WithError(err).WithField("code", req.Code).Error("Promo lookup failed")
		respondError(c, http.StatusInternalServerError, "Failed to validate promo")
		return
	}

	if !promo.IsEffectiveAt(time.Now()) {
		respondOK(c, http.StatusOK, "Promo code not valid", invalid)
		return
	}

	result := services.ApplyPromo(req.Fee, promo)
	respondOK(c, http.StatusOK, "Promo code applied", result)
}
