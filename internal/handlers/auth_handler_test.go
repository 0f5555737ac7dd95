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
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transix/booking-backend/internal/database"
	"github.com/transix/booking-backend/pkg/jwt"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	jwtService := jwt.NewService("access-secret", "refresh-secret", 15*time.Minute, 720*time.Hour)
	handler := NewAuthHandler(
		database.NewUserRepository(sqlxDB),
		database.NewSessionRepository(sqlxDB),
		database.NewResetTokenRepository(sqlxDB),
		jwtService,
		logger,
	)

	router := gin.New()
	router.POST("/api/v1/users/refresh-token", handler.Refresh)
	return router, mock, jwtService
}

func postRefresh(t *testing.T, router *gin.Engine, refreshToken string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionRows(userID uuid.UUID, refreshToken string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "refresh_token", "device_os", "browser", "ip_address",
		"revoked_at", "created_at",
	}).AddRow(uuid.New(), userID, refreshToken, nil, nil, nil, nil, time.Now())
}

func userRows(userID uuid.UUID, email string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "full_name", "phone",
		"deleted_at", "created_at", "updated_at",
	}).AddRow(userID, email, "$2a$10$hash", "Ama Nkeng", nil, nil, time.Now(), time.Now())
}

func TestRefresh_IssuesNewAccessToken(t *testing.T) {
	router, mock, jwtService := setupAuthRouter(t)

	userID := uuid.New()
	refreshToken, err := jwtService.GenerateRefreshToken(userID, "ama@example.com")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_sessions")).
		WithArgs(refreshToken).
		WillReturnRows(sessionRows(userID, refreshToken))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs(userID).
		WillReturnRows(userRows(userID, "ama@example.com"))

	w := postRefresh(t, router, refreshToken)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Error bool `json:"error"`
		Data  struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Error)
	assert.Equal(t, refreshToken, resp.Data.RefreshToken)

	claims, err := jwtService.ValidateAccessToken(resp.Data.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefresh_RevokedSessionRejected(t *testing.T) {
	router, mock, jwtService := setupAuthRouter(t)

	refreshToken, err := jwtService.GenerateRefreshToken(uuid.New(), "ama@example.com")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_sessions")).
		WithArgs(refreshToken).
		WillReturnError(sql.ErrNoRows)

	w := postRefresh(t, router, refreshToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh_AccessTokenRejectedAsRefresh(t *testing.T) {
	router, _, jwtService := setupAuthRouter(t)

	accessToken, err := jwtService.GenerateAccessToken(uuid.New(), "ama@example.com")
	require.NoError(t, err)

	w := postRefresh(t, router, accessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh_MissingTokenRejected(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	w := postRefresh(t, router, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
