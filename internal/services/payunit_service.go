package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/transix/booking-backend/internal/config"
)

// PayUnitEnvironmentURLs maps environment names to gateway base URLs
var PayUnitEnvironmentURLs = map[string]string{
	"sandbox": "https://gateway.payunit.net/api/gateway",
	"live":    "https://gateway.payunit.net/api/gateway",
}

// PayUnitService proxies payment initialization to the PayUnit gateway so
// the API credentials never reach the browser
type PayUnitService struct {
	config *config.PaymentConfig
	logger *logrus.Logger
	client *http.Client
}

// NewPayUnitService creates a new PayUnitService
func NewPayUnitService(cfg *config.PaymentConfig, logger *logrus.Logger) *PayUnitService {
	return &PayUnitService{
		config: cfg,
		logger: logger,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// PayUnitInitializeRequest is the client-supplied part of an initialization.
// Credentials and callback URLs are filled in server-side.
type PayUnitInitializeRequest struct {
	TotalAmount    float64 `json:"total_amount"`
	Currency       string  `json:"currency"`
	TransactionID  string  `json:"transaction_id"`
	ReturnURL      string  `json:"return_url,omitempty"`
	NotifyURL      string  `json:"notify_url,omitempty"`
	PaymentCountry string  `json:"payment_country,omitempty"`
}

// PayUnitInitializeResponse is the gateway's initialization reply
type PayUnitInitializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    struct {
		TransactionID  string `json:"transaction_id"`
		TransactionURL string `json:"transaction_url"`
	} `json:"data"`
}

// Validate checks required initialization fields
func (r *PayUnitInitializeRequest) Validate() error {
	if r.TotalAmount <= 0 {
		return fmt.Errorf("total_amount must be positive")
	}
	if r.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if r.TransactionID == "" {
		return fmt.Errorf("transaction_id is required")
	}
	return nil
}

// Initialize forwards an initialization request to PayUnit with the server's
// credentials attached. The gateway's status code and body are returned
// as-is so the caller can pass them through.
func (s *PayUnitService) Initialize(req *PayUnitInitializeRequest) (int, *PayUnitInitializeResponse, error) {
	if s.config.APIKey == "" || s.config.APIUsername == "" || s.config.APIPassword == "" {
		return 0, nil, fmt.Errorf("payment gateway not configured: missing API credentials")
	}

	if req.ReturnURL == "" {
		req.ReturnURL = s.config.ReturnURL
	}
	if req.NotifyURL == "" {
		req.NotifyURL = s.config.NotifyURL
	}

	baseURL, ok := PayUnitEnvironmentURLs[s.config.Environment]
	if !ok {
		baseURL = PayUnitEnvironmentURLs["sandbox"]
	}

	body, err := json.Marshal(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal gateway request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, baseURL+"/initialize", bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build gateway request: %w", err)
	}

	credentials := base64.StdEncoding.EncodeToString(
		[]byte(s.config.APIUsername + ":" + s.config.APIPassword))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", s.config.APIKey)
	httpReq.Header.Set("Authorization", "Basic "+credentials)
	httpReq.Header.Set("mode", s.config.Environment)

	s.logger.WithFields(logrus.Fields{
		"transaction_id": req.TransactionID,
		"amount":         req.TotalAmount,
		"currency":       req.Currency,
		"environment":    s.config.Environment,
	}).Info("Initializing gateway payment")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	var initResp PayUnitInitializeResponse
	if err := json.Unmarshal(respBody, &initResp); err != nil {
		s.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"body":        string(respBody),
		}).Error("Unparseable gateway response")
		return resp.StatusCode, nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		s.logger.WithFields(logrus.Fields{
			"status_code":    resp.StatusCode,
			"gateway_status": initResp.Status,
			"message":        initResp.Message,
		}).Warn("Gateway rejected payment initialization")
	}

	return resp.StatusCode, &initResp, nil
}
