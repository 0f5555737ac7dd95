package services

import (
	"math"
	"strconv"
	"time"

	"github.com/transix/booking-backend/internal/models"
)

// RoundPriceToNearest50 rounds a price up to the nearest multiple of 50.
// Non-finite or non-positive input yields 0.
func RoundPriceToNearest50(price float64) float64 {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0
	}
	return math.Ceil(price/50) * 50
}

// CalculateReservationFee computes the upfront reservation fee for a ticket
// price under the given agency policy. In percentage mode the fee is a
// percentage of the rounded price, capped, then rounded again so it always
// lands on a multiple of 50.
func CalculateReservationFee(price float64, policy models.FeePolicy) float64 {
	if policy.Mode == models.FeeModeFixed {
		return policy.Fixed
	}
	feeBase := RoundPriceToNearest50(price) * policy.Percent / 100
	feeCapped := math.Min(feeBase, policy.Cap)
	return RoundPriceToNearest50(feeCapped)
}

// ApplyPromo applies a promotion's discount to a reservation fee. The
// discount is clamped to [0, fee] so the final fee can never go negative
// or exceed the original.
func ApplyPromo(fee float64, promo *models.Promotion) models.PromoValidationResult {
	var discount float64
	if promo.DiscountType == models.DiscountPercentage {
		discount = math.Round(fee * promo.Value / 100)
	} else {
		discount = promo.Value
	}
	if discount < 0 {
		discount = 0
	}
	if discount > fee {
		discount = fee
	}
	return models.PromoValidationResult{
		Valid:    true,
		Code:     promo.Code,
		Discount: discount,
		FinalFee: fee - discount,
	}
}

// WeekOfYear returns the week number of a date as a string, using the
// Thursday-anchored counting the booking rows have always carried:
// ceil((days since Jan 1 UTC + 1) / 7).
func WeekOfYear(t time.Time) string {
	u := t.UTC()
	jan1 := time.Date(u.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := int(u.Sub(jan1).Hours() / 24)
	week := (days + 7) / 7
	if week < 1 {
		week = 1
	}
	return strconv.Itoa(week)
}

// MonthAbbreviation returns the locale month abbreviation, e.g. "Jan"
func MonthAbbreviation(t time.Time) string {
	return t.Format("Jan")
}
