package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/transix/booking-backend/internal/models"
)

// ResetTokenRepository handles password-reset token database operations
type ResetTokenRepository struct {
	db *sqlx.DB
}

// NewResetTokenRepository creates a new ResetTokenRepository
func NewResetTokenRepository(db *sqlx.DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

// Create inserts a reset token
func (r *ResetTokenRepository) Create(token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowx(query, token.UserID, token.Token, token.ExpiresAt).
		Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// GetByToken retrieves a reset token by its value
func (r *ResetTokenRepository) GetByToken(value string) (*models.PasswordResetToken, error) {
	token := &models.PasswordResetToken{}
	query := `
		SELECT id, user_id, token, expires_at, used_at, created_at
		FROM password_reset_tokens
		WHERE token = $1`

	if err := r.db.Get(token, query, value); err != nil {
		return nil, err
	}
	return token, nil
}

// MarkUsed consumes a token so it cannot be replayed
func (r *ResetTokenRepository) MarkUsed(value string) error {
	_, err := r.db.Exec(`
		UPDATE password_reset_tokens SET used_at = NOW()
		WHERE token = $1 AND used_at IS NULL`,
		value)
	if err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}
	return nil
}
