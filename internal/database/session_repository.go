package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/transix/booking-backend/internal/models"
)

// SessionRepository handles user-session database operations
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	id, user_id, refresh_token, device_os, browser, ip_address, revoked_at, created_at`

// Create records an issued refresh token and its device info
func (r *SessionRepository) Create(session *models.UserSession) error {
	query := `
		INSERT INTO user_sessions (user_id, refresh_token, device_os, browser, ip_address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowx(query,
		session.UserID, session.RefreshToken,
		session.DeviceOS, session.Browser, session.IPAddress,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetActiveByToken retrieves an unrevoked session by its refresh token
func (r *SessionRepository) GetActiveByToken(refreshToken string) (*models.UserSession, error) {
	session := &models.UserSession{}
	query := fmt.Sprintf(`
		SELECT %s FROM user_sessions
		WHERE refresh_token = $1 AND revoked_at IS NULL`, sessionColumns)

	if err := r.db.Get(session, query, refreshToken); err != nil {
		return nil, err
	}
	return session, nil
}

// RevokeAllForUser revokes every active session of a user
func (r *SessionRepository) RevokeAllForUser(userID uuid.UUID) error {
	_, err := r.db.Exec(`
		UPDATE user_sessions SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL`,
		userID)
	if err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}
