package services

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/transix/booking-backend/internal/models"
)

func TestRoundPriceToNearest50(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		expected float64
	}{
		{"exact multiple unchanged", 1000, 1000},
		{"rounds up", 1001, 1050},
		{"just below multiple", 1049, 1050},
		{"small price", 1, 50},
		{"zero", 0, 0},
		{"negative", -100, 0},
		{"NaN", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RoundPriceToNearest50(tt.price))
		})
	}
}

func TestRoundPriceToNearest50_Idempotent(t *testing.T) {
	for _, price := range []float64{1, 49, 50, 1234, 6000} {
		once := RoundPriceToNearest50(price)
		assert.Equal(t, once, RoundPriceToNearest50(once))
	}
}

func TestCalculateReservationFee_Percentage(t *testing.T) {
	policy := models.FeePolicy{
		Mode:    models.FeeModePercentage,
		Percent: 10,
		Cap:     500,
		Fixed:   500,
	}

	tests := []struct {
		name     string
		price    float64
		expected float64
	}{
		{"ten percent of 1000", 1000, 100},
		{"cap kicks in", 6000, 500},
		{"fee lands on multiple of 50", 1010, 150},
		{"zero price", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateReservationFee(tt.price, policy))
		})
	}
}

func TestCalculateReservationFee_Fixed(t *testing.T) {
	policy := models.FeePolicy{Mode: models.FeeModeFixed, Fixed: 750}
	assert.Equal(t, 750.0, CalculateReservationFee(1000, policy))
	assert.Equal(t, 750.0, CalculateReservationFee(100000, policy))
}

func TestApplyPromo_Percentage(t *testing.T) {
	promo := &models.Promotion{
		Code:         "SAVE20",
		DiscountType: models.DiscountPercentage,
		Value:        20,
	}

	result := ApplyPromo(500, promo)
	assert.True(t, result.Valid)
	assert.Equal(t, 100.0, result.Discount)
	assert.Equal(t, 400.0, result.FinalFee)
}

func TestApplyPromo_FixedClampedToFee(t *testing.T) {
	promo := &models.Promotion{
		Code:         "BIGCUT",
		DiscountType: models.DiscountFixed,
		Value:        10000,
	}

	result := ApplyPromo(300, promo)
	assert.Equal(t, 300.0, result.Discount)
	assert.Equal(t, 0.0, result.FinalFee)
}

func TestApplyPromo_NegativeValueClampedToZero(t *testing.T) {
	promo := &models.Promotion{
		Code:         "WEIRD",
		DiscountType: models.DiscountFixed,
		Value:        -50,
	}

	result := ApplyPromo(300, promo)
	assert.Equal(t, 0.0, result.Discount)
	assert.Equal(t, 300.0, result.FinalFee)
}

func TestWeekOfYear(t *testing.T) {
	tests := []struct {
		date     string
		expected string
	}{
		{"2024-01-01", "1"},
		{"2024-01-07", "1"},
		{"2024-01-08", "2"},
		{"2024-12-31", "53"},
	}

	for _, tt := range tests {
		day, err := time.Parse("2006-01-02", tt.date)
		assert.NoError(t, err)
		assert.Equal(t, tt.expected, WeekOfYear(day), "date %s", tt.date)
	}
}

func TestMonthAbbreviation(t *testing.T) {
	day, _ := time.Parse("2006-01-02", "2024-03-15")
	assert.Equal(t, "Mar", MonthAbbreviation(day))
}
