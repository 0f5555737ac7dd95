package handlers

import (
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

func setupTripRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	repo := database.NewTripRepository(&database.PostgresDB{DB: sqlx.NewDb(db, "sqlmock")})
	handler := NewTripHandler(repo, logger)

	router := gin.New()
	router.GET("/api/v1/trips/trip-search", handler.Search)
	return router, mock
}

func tripRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "agency_id", "from_location", "to_location",
		"journey_date", "departure_time", "price", "seats", "reserved",
		"bus_type", "agency_name", "created_at", "updated_at",
	})
}

func TestTripSearch_ReturnsTripsAndCacheHeader(t *testing.T) {
	router, mock := setupTripRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM trips t")).
		WithArgs("Douala", "Yaounde").
		WillReturnRows(tripRows().AddRow(
			"0b9e4a66-2f7c-4b3e-9a1d-111111111111", "0b9e4a66-2f7c-4b3e-9a1d-222222222222",
			"Douala", "Yaounde", "2025-06-10", "14:00", 5000.0, 70, 12,
			"VIP", "Finexs Voyages", time.Now(), time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/trip-search?from=Douala&to=Yaounde", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "s-maxage=60")

	var resp struct {
		Error bool              `json:"error"`
		Data  []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Error)
	assert.Len(t, resp.Data, 1)
}

func TestTripSearch_EmptyResultIsArrayNotNull(t *testing.T) {
	router, mock := setupTripRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM trips t")).
		WillReturnRows(tripRows())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/trip-search", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestTripSearch_BadDateRejected(t *testing.T) {
	router, _ := setupTripRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/trip-search?journeyDate=June+10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
