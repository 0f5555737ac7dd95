package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/transix/booking-backend/internal/services"
)

// PayUnitHandler proxies gateway initialization requests
type PayUnitHandler struct {
	payunitSvc *services.PayUnitService
	logger     *logrus.Logger
}

// NewPayUnitHandler creates a new PayUnitHandler
func NewPayUnitHandler(payunitSvc *services.PayUnitService, logger *logrus.Logger) *PayUnitHandler {
	return &PayUnitHandler{
		payunitSvc: payunitSvc,
		logger:     logger,
	}
}

// Initialize handles POST /api/v1/payunit/initialize. The gateway's response
// status and body pass through so clients see what the gateway said, while
// the API credentials stay on the server.
func (h *PayUnitHandler) Initialize(c *gin.Context) {
	var req services.PayUnitInitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	status, resp, err := h.payunitSvc.Initialize(&req)
	if err != nil {
		h.logger.WithError(err).Error("Gateway initialization failed")
		respondError(c, http.StatusBadGateway, "Payment gateway unavailable")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(status, resp)
}
