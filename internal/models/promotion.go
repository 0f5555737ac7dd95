package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DiscountType distinguishes percentage discounts from fixed-amount ones
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Promotion is a discount code applied to the reservation fee,
// scoped app-wide (AgencyID nil) or to a single agency
type Promotion struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	Code         string       `json:"code" db:"code"`
	AgencyID     *uuid.UUID   `json:"agency_id,omitempty" db:"agency_id"`
	DiscountType DiscountType `json:"discount_type" db:"discount_type"`
	Value        float64      `json:"value" db:"value"`
	StartsAt     *time.Time   `json:"starts_at,omitempty" db:"starts_at"`
	EndsAt       *time.Time   `json:"ends_at,omitempty" db:"ends_at"`
	IsActive     bool         `json:"is_active" db:"is_active"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// IsAppWide reports whether the promotion applies regardless of agency
func (p *Promotion) IsAppWide() bool {
	return p.AgencyID == nil
}

// IsEffectiveAt reports whether the promotion is active and inside its
// validity window. Absent bounds are unbounded.
func (p *Promotion) IsEffectiveAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return false
	}
	return true
}

// ValidatePromoRequest is the payload for POST /api/v1/promos/validate
type ValidatePromoRequest struct {
	Code     string  `json:"code"`
	AgencyID string  `json:"agencyId,omitempty"`
	Fee      float64 `json:"fee"`
}

// Validate checks promo-validation fields
func (r *ValidatePromoRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return fmt.Errorf("code is required")
	}
	if r.Fee < 0 {
		return fmt.Errorf("fee must not be negative")
	}
	if r.AgencyID != "" {
		if _, err := uuid.Parse(r.AgencyID); err != nil {
			return fmt.Errorf("agencyId must be a valid id")
		}
	}
	return nil
}

// PromoValidationResult is returned by promo validation. An unknown or
// expired code yields Valid=false with the original fee, not an error.
type PromoValidationResult struct {
	Valid    bool    `json:"valid"`
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
	FinalFee float64 `json:"final_fee"`
}
