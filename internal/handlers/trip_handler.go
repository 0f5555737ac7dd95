package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/transix/booking-backend/internal/database"
	"github.com/transix/booking-backend/internal/models"
)

// TripHandler handles trip search requests
type TripHandler struct {
	tripRepo *database.TripRepository
	logger   *logrus.Logger
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(tripRepo *database.TripRepository, logger *logrus.Logger) *TripHandler {
	return &TripHandler{
		tripRepo: tripRepo,
		logger:   logger,
	}
}

// Search handles GET /api/v1/trips/trip-search. All query filters are optional and
// AND-composed; results are shared across users and cacheable for a minute.
func (h *TripHandler) Search(c *gin.Context) {
	var filter models.TripSearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid search filters")
		return
	}
	if err := filter.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	trips, err := h.tripRepo.Search(filter)
	if err != nil {
		h.logger.WithError(err).Error("Trip search failed")
		respondError(c, http.StatusInternalServerError, "Failed to search trips")
		return
	}
	if trips == nil {
		trips = []models.Trip{}
	}

	c.Header("Cache-Control", "public, s-maxage=60, stale-while-revalidate=120")
	respondOK(c, http.StatusOK, "Trips retrieved", trips)
}
