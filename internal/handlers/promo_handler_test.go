package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transix/booking-backend/internal/database"
)

func setupPromoRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := database.NewPromotionRepository(sqlx.NewDb(db, "sqlmock"))
	handler := NewPromoHandler(repo, logger)

	router := gin.New()
	router.POST("/api/v1/promos/validate", handler.Validate)
	return router, mock
}

func postPromo(t *testing.T, router *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/promos/validate", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func promoRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "code", "agency_id", "discount_type", "value",
		"starts_at", "ends_at", "is_active", "created_at",
	})
}

func TestPromoValidate_AppliesDiscount(t *testing.T) {
	router, mock := setupPromoRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM promotions")).
		WillReturnRows(promoRows().AddRow(
			"6a38a79a-9b64-4bb0-9ee8-6f57e3f2a1aa", "SAVE20", nil, "percentage", 20.0,
			nil, nil, true, time.Now()))

	w := postPromo(t, router, map[string]interface{}{"code": "SAVE20", "fee": 500})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Error bool `json:"error"`
		Data  struct {
			Valid    bool    `json:"valid"`
			Discount float64 `json:"discount"`
			FinalFee float64 `json:"final_fee"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Error)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 100.0, resp.Data.Discount)
	assert.Equal(t, 400.0, resp.Data.FinalFee)
}

func TestPromoValidate_UnknownCodeIsInvalidNotError(t *testing.T) {
	router, mock := setupPromoRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM promotions")).
		WillReturnError(sql.ErrNoRows)

	w := postPromo(t, router, map[string]interface{}{"code": "NOPE", "fee": 500})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Error bool `json:"error"`
		Data  struct {
			Valid    bool    `json:"valid"`
			FinalFee float64 `json:"final_fee"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Error)
	assert.False(t, resp.Data.Valid)
	assert.Equal(t, 500.0, resp.Data.FinalFee)
}

func TestPromoValidate_ExpiredCodeIsInvalid(t *testing.T) {
	router, mock := setupPromoRouter(t)

	ended := time.Now().Add(-24 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("FROM promotions")).
		WillReturnRows(promoRows().AddRow(
			"6a38a79a-9b64-4bb0-9ee8-6f57e3f2a1aa", "OLD", nil, "fixed", 100.0,
			nil, ended, true, time.Now()))

	w := postPromo(t, router, map[string]interface{}{"code": "OLD", "fee": 500})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":false`)
}

func TestPromoValidate_MissingCodeRejected(t *testing.T) {
	router, _ := setupPromoRouter(t)

	w := postPromo(t, router, map[string]interface{}{"fee": 500})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
