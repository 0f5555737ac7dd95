package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/transix/booking-backend/internal/models"
)

// UserRepository handles user account database operations
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	id, email, password_hash, full_name, phone, deleted_at, created_at, updated_at`

// Create inserts a new user
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, full_name, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowx(query,
		user.Email, user.PasswordHash, user.FullName, user.Phone,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a non-deleted user by email (case-insensitive)
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL`, userColumns)

	if err := r.db.Get(user, query, email); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a non-deleted user by ID
func (r *UserRepository) GetByID(userID uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE id = $1 AND deleted_at IS NULL`, userColumns)

	if err := r.db.Get(user, query, userID); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword replaces a user's password hash
func (r *UserRepository) UpdatePassword(userID uuid.UUID, passwordHash string) error {
	_, err := r.db.Exec(`
		UPDATE users SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SoftDelete anonymizes and soft-deletes an account. The email is rewritten
// so the address can be reused for a fresh signup.
func (r *UserRepository) SoftDelete(userID uuid.UUID) error {
	result, err := r.db.Exec(`
		UPDATE users
		SET email = 'deleted+' || id::text || '@removed.invalid',
		    full_name = 'Deleted Account',
		    phone = NULL,
		    deleted_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
