package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/transix/booking-backend/pkg/jwt"
)

const (
	// ContextUserID is the gin context key carrying the authenticated user id
	ContextUserID = "user_id"
	// ContextUserEmail is the gin context key carrying the authenticated email
	ContextUserEmail = "user_email"

	accessTokenCookie = "sb-access-token"
	legacyAuthCookie  = "auth-token"
)

// legacyCookiePayload is the JSON envelope older clients store in the
// auth-token cookie
type legacyCookiePayload struct {
	AccessToken string `json:"access_token"`
}

// extractToken pulls the access token from the Authorization header or,
// failing that, from the session cookies older clients still send
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}

	if cookie, err := c.Cookie(accessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	if cookie, err := c.Cookie(legacyAuthCookie); err == nil && cookie != "" {
		var payload legacyCookiePayload
		if err := json.Unmarshal([]byte(cookie), &payload); err == nil && payload.AccessToken != "" {
			return payload.AccessToken
		}
		// Oldest clients stored a bare JSON array of tokens
		var tokens []string
		if err := json.Unmarshal([]byte(cookie), &tokens); err == nil && len(tokens) > 0 {
			return tokens[0]
		}
	}

	return ""
}

// RequireAuth rejects requests without a valid access token
func RequireAuth(jwtService *jwt.Service, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   true,
				"message": "Authentication required",
			})
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			logger.WithError(err).Debug("Access token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   true,
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// OptionalAuth attaches user context when a valid token is present but
// lets anonymous requests through
func OptionalAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if claims, err := jwtService.ValidateAccessToken(token); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextUserEmail, claims.Email)
			}
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id from the request context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
