package database

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/transix/booking-backend/internal/models"
)

// AgencyRepository handles agency database operations
type AgencyRepository struct {
	db *sqlx.DB
}

// NewAgencyRepository creates a new AgencyRepository
func NewAgencyRepository(db *sqlx.DB) *AgencyRepository {
	return &AgencyRepository{db: db}
}

// GetByID retrieves an agency with its fee policy and logo. Bookings fetch
// the logo through this secondary lookup rather than a join.
func (r *AgencyRepository) GetByID(agencyID uuid.UUID) (*models.Agency, error) {
	agency := &models.Agency{}
	query := `
		SELECT id, name, logo_url, fee_mode, fee_percent, fee_cap, fee_fixed, created_at
		FROM agencies
		WHERE id = $1`

	if err := r.db.Get(agency, query, agencyID); err != nil {
		return nil, err
	}
	return agency, nil
}
