package models

import (
	"time"

	"github.com/google/uuid"
)

// FeeMode selects how an agency's reservation fee is computed
type FeeMode string

const (
	FeeModePercentage FeeMode = "percentage"
	FeeModeFixed      FeeMode = "fixed"
)

// Agency represents a bus agency and its reservation-fee policy.
// The policy is read-only from the booking workflow's perspective.
type Agency struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	LogoURL    *string   `json:"logo_url,omitempty" db:"logo_url"`
	FeeMode    *FeeMode  `json:"fee_mode,omitempty" db:"fee_mode"`
	FeePercent *float64  `json:"fee_percent,omitempty" db:"fee_percent"`
	FeeCap     *float64  `json:"fee_cap,omitempty" db:"fee_cap"`
	FeeFixed   *float64  `json:"fee_fixed,omitempty" db:"fee_fixed"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// FeePolicy is the resolved reservation-fee configuration used by the
// calculator. Defaults fill in for absent agencies or absent fields.
type FeePolicy struct {
	Mode    FeeMode
	Percent float64
	Cap     float64
	Fixed   float64
}

// DefaultFeePolicy returns the policy used when an agency has no
// configuration of its own: 10% capped at 500, fixed 500.
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{
		Mode:    FeeModePercentage,
		Percent: 10,
		Cap:     500,
		Fixed:   500,
	}
}

// ResolveFeePolicy merges an agency's configured fields over the defaults.
// A nil agency yields the defaults unchanged.
func ResolveFeePolicy(agency *Agency) FeePolicy {
	policy := DefaultFeePolicy()
	if agency == nil {
		return policy
	}
	if agency.FeeMode != nil && *agency.FeeMode != "" {
		policy.Mode = *agency.FeeMode
	}
	if agency.FeePercent != nil {
		policy.Percent = *agency.FeePercent
	}
	if agency.FeeCap != nil {
		policy.Cap = *agency.FeeCap
	}
	if agency.FeeFixed != nil {
		policy.Fixed = *agency.FeeFixed
	}
	return policy
}
