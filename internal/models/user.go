package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents an account holder
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"full_name" db:"full_name"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// IsDeleted reports whether the account was soft-deleted
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// UserSession records an issued refresh token and the device it was issued to
type UserSession struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	RefreshToken string     `json:"-" db:"refresh_token"`
	DeviceOS     *string    `json:"device_os,omitempty" db:"device_os"`
	Browser      *string    `json:"browser,omitempty" db:"browser"`
	IPAddress    *string    `json:"ip_address,omitempty" db:"ip_address"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty" db:"revoked_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// PasswordResetToken is a single-use token for the forgot-password flow
type PasswordResetToken struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Token     string     `json:"token" db:"token"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty" db:"used_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// IsUsable reports whether the token is unused and unexpired
func (t *PasswordResetToken) IsUsable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}

// SignupRequest is the payload for POST /api/v1/users/signup
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone,omitempty"`
}

// Validate checks signup fields
func (r *SignupRequest) Validate() error {
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if strings.TrimSpace(r.FullName) == "" {
		return fmt.Errorf("fullName is required")
	}
	return nil
}

// LoginRequest is the payload for POST /api/v1/users/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks login fields
func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return fmt.Errorf("email and password are required")
	}
	return nil
}

// ForgotPasswordRequest is the payload for POST /api/v1/users/user-forgot
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the payload for POST /api/v1/users/user-reset
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Validate checks reset fields
func (r *ResetPasswordRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return fmt.Errorf("token is required")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// VerifyResetTokenRequest is the payload for POST /api/v1/users/verify-reset-token
type VerifyResetTokenRequest struct {
	Token string `json:"token"`
}

// RefreshTokenRequest is the payload for POST /api/v1/users/refresh-token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate checks refresh fields
func (r *RefreshTokenRequest) Validate() error {
	if strings.TrimSpace(r.RefreshToken) == "" {
		return fmt.Errorf("refresh_token is required")
	}
	return nil
}

// AuthTokens is the token pair returned on signup/login
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // access token lifetime in seconds
}
