package handlers

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"github.com/transix/booking-backend/internal/database"
	"github.com/transix/booking-backend/internal/middleware"
	"github.com/transix/booking-backend/internal/models"
	"github.com/transix/booking-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

// AuthHandler handles account endpoints
type AuthHandler struct {
	userRepo    *database.UserRepository
	sessionRepo *database.SessionRepository
	resetRepo   *database.ResetTokenRepository
	jwtService  *jwt.Service
	logger      *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	userRepo *database.UserRepository,
	sessionRepo *database.SessionRepository,
	resetRepo *database.ResetTokenRepository,
	jwtService *jwt.Service,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		resetRepo:   resetRepo,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Signup handles POST /api/v1/users/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := h.userRepo.GetByEmail(email); err == nil {
		respondError(c, http.StatusConflict, "An account with this email already exists")
		return
	} else if err != sql.ErrNoRows {
		h.logger.WithError(err).Error("Signup email lookup failed")
		respondError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.WithError(err).Error("Password hashing failed")
		respondError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
	}
	if req.Phone != "" {
		phone := strings.TrimSpace(req.Phone)
		user.Phone = &phone
	}

	if err := h.userRepo.Create(user); err != nil {
		h.logger.WithError(err).Error("User creation failed")
		respondError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", user.ID).Error("Token issue failed")
		respondError(c, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondOK(c, http.StatusOK, "Account created", gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Login handles POST /api/v1/users/login. Unknown emails and wrong passwords
// produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if err != sql.ErrNoRows {
			h.logger.WithError(err).Error("Login email lookup failed")
		}
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", user.ID).Error("Token issue failed")
		respondError(c, http.StatusInternalServerError, "Failed to create session")
		return
	}

	respondOK(c, http.StatusOK, "Logged in", gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// issueTokens generates a token pair and records the session with the
// requesting device's details
func (h *AuthHandler) issueTokens(c *gin.Context, user *models.User) (*models.AuthTokens, error) {
	accessToken, err := h.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	ua := user_agent.New(c.GetHeader("User-Agent"))
	browserName, browserVersion := ua.Browser()
	browser := strings.TrimSpace(browserName + " " + browserVersion)
	deviceOS := ua.OS()
	ip := c.ClientIP()

	session := &models.UserSession{
		UserID:       user.ID,
		RefreshToken: refreshToken,
	}
	if deviceOS != "" {
		session.DeviceOS = &deviceOS
	}
	if browser != "" {
		session.Browser = &browser
	}
	if ip != "" {
		session.IPAddress = &ip
	}

	// A session row that fails to write never blocks login
	if err := h.sessionRepo.Create(session); err != nil {
		h.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to record session")
	}

	return &models.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(h.jwtService.AccessTokenExpiry().Seconds()),
	}, nil
}

// Refresh handles POST /api/v1/users/refresh-token. A valid refresh token
// whose session is still active yields a fresh access token; the refresh
// token itself is unchanged. Revoked sessions cannot refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.jwtService.ValidateRefreshToken(req.RefreshToken); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	session, err := h.sessionRepo.GetActiveByToken(req.RefreshToken)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusUnauthorized, "Session has been revoked")
			return
		}
		h.logger.WithError(err).Error("Session lookup failed")
		respondError(c, http.StatusInternalServerError, "Failed to refresh session")
		return
	}

	user, err := h.userRepo.GetByID(session.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusUnauthorized, "Account no longer exists")
			return
		}
		h.logger.WithError(err).WithField("user_id", session.UserID).Error("User lookup failed")
		respondError(c, http.StatusInternalServerError, "Failed to refresh session")
		return
	}

	accessToken, err := h.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", user.ID).Error("Token issue failed")
		respondError(c, http.StatusInternalServerError, "Failed to refresh session")
		return
	}

	respondOK(c, http.StatusOK, "Token refreshed", &models.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: req.RefreshToken,
		ExpiresIn:    int64(h.jwtService.AccessTokenExpiry().Seconds()),
	})
}

// ForgotPassword handles POST /api/v1/users/user-forgot. The response is the
// same whether or not the email has an account.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	message := "If an account exists for this email, a reset link has been sent"

	user, err := h.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if err != sql.ErrNoRows {
			h.logger.WithError(err).Error("Forgot-password lookup failed")
		}
		respondOK(c, http.StatusOK, message, nil)
		return
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		h.logger.WithError(err).Error("Reset token generation failed")
		respondOK(c, http.StatusOK, message, nil)
		return
	}

	token := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     hex.EncodeToString(raw),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := h.resetRepo.Create(token); err != nil {
		h.logger.WithError(err).WithField("user_id", user.ID).Error("Reset token store failed")
		respondOK(c, http.StatusOK, message, nil)
		return
	}

	// Delivery is handled out-of-band; the token is logged for the
	// mailer worker to pick up
	h.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"token":   token.Token,
	}).Info("Password reset token issued")

	respondOK(c, http.StatusOK, message, nil)
}

// VerifyResetToken handles POST /api/v1/users/verify-reset-token: 200 when the
// token is usable, 410 when expired or consumed, 400 when unknown
func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	var req models.VerifyResetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		respondError(c, http.StatusBadRequest, "Token is required")
		return
	}

	token, err := h.resetRepo.GetByToken(req.Token)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusBadRequest, "Invalid reset token")
			return
		}
		h.logger.WithError(err).Error("Reset token lookup failed")
		respondError(c, http.StatusInternalServerError, "Failed to verify token")
		return
	}

	if !token.IsUsable(time.Now()) {
		respondError(c, http.StatusGone, "Reset token has expired")
		return
	}

	respondOK(c, http.StatusOK, "Token is valid", nil)
}

// ResetPassword handles POST /api/v1/users/user-reset. A successful reset
// consumes the token and revokes every existing session.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.resetRepo.GetByToken(req.Token)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusBadRequest, "Invalid reset token")
			return
		}
		h.logger.WithError(err).Error("Reset token lookup failed")
		respondError(c, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	if !token.IsUsable(time.Now()) {
		respondError(c, http.StatusGone, "Reset token has expired")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.WithError(err).Error("Password hashing failed")
		respondError(c, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	if err := h.userRepo.UpdatePassword(token.UserID, string(hash)); err != nil {
		h.logger.WithError(err).WithField("user_id", token.UserID).Error("Password update failed")
		respondError(c, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	if err := h.resetRepo.MarkUsed(req.Token); err != nil {
		h.logger.WithError(err).WithField("user_id", token.UserID).Warn("Failed to consume reset token")
	}
	if err := h.sessionRepo.RevokeAllForUser(token.UserID); err != nil {
		h.logger.WithError(err).WithField("user_id", token.UserID).Warn("Failed to revoke sessions")
	}

	respondOK(c, http.StatusOK, "Password updated", nil)
}

// DeleteAccount handles POST /api/v1/users/user-delete-account. The account
// is soft-deleted
// with its email anonymized, and every session is revoked; bookings stay
// for the agencies' records.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.userRepo.SoftDelete(userID); err != nil {
		if err == sql.ErrNoRows {
			respondError(c, http.StatusNotFound, "Account not found")
			return
		}
		h.logger.WithError(err).WithField("user_id", userID).Error("Account deletion failed")
		respondError(c, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	if err := h.sessionRepo.RevokeAllForUser(userID); err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Warn("Failed to revoke sessions")
	}

	respondOK(c, http.StatusOK, "Account deleted", nil)
}
