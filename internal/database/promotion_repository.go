package database

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/transix/booking-backend/internal/models"
)

// PromotionRepository handles promotion database operations
type PromotionRepository struct {
	db *sqlx.DB
}

// NewPromotionRepository creates a new PromotionRepository
func NewPromotionRepository(db *sqlx.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// FindActiveByCode looks up an active promotion by code. When both an
// app-wide and an agency-scoped promotion share the code, the app-wide one
// wins. Window checks happen in the caller so expired codes can be reported
// as invalid rather than missing.
func (r *PromotionRepository) FindActiveByCode(code string, agencyID *uuid.UUID) (*models.Promotion, error) {
	promo := &models.Promotion{}
	query := `
		SELECT id, code, agency_id, discount_type, value,
		       starts_at, ends_at, is_active, created_at
		FROM promotions
		WHERE UPPER(code) = UPPER($1)
		  AND is_active = TRUE
		  AND (agency_id IS NULL OR agency_id = $2)
		ORDER BY (agency_id IS NULL) DESC
		LIMIT 1`

	if err := r.db.Get(promo, query, code, agencyID); err != nil {
		return nil, err
	}
	return promo, nil
}
