package services

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPricingService_NightlyRate(t *testing.T) {
	pricing := NewPricingService()

	tests := []struct {
		name     string
		category string
		want     float64
		wantErr  bool
	}{
		{"Single", "Single", 25000, false},
		{"Double", "Double", 40000, false},
		{"Triple", "Triple", 55000, false},
		{"Dormitory", "Dormitory", 12000, false},
		{"LowercaseSingle", "single", 25000, false},
		{"PlaceholderPrefix", "Online-Double", 40000, false},
		{"Unknown", "Penthouse", 0, true},
		{"Empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := pricing.NightlyRate(tt.category)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, rate)
		})
	}
}

func TestPricingService_DecomposeTax(t *testing.T) {
	pricing := NewPricingService()

	t.Run("PreTaxedSplitsOutGST", func(t *testing.T) {
		breakdown := pricing.DecomposeTax(59000, true)
		assert.InDelta(t, 50000, breakdown.Base, 0.01)
		assert.InDelta(t, 9000, breakdown.Tax, 0.01)
	})

	t.Run("UntaxedAddsGSTOnTop", func(t *testing.T) {
		breakdown := pricing.DecomposeTax(47500, false)
		assert.InDelta(t, 47500, breakdown.Base, 0.01)
		assert.InDelta(t, 8550, breakdown.Tax, 0.01)
	})

	t.Run("PreTaxedRoundTrip", func(t *testing.T) {
		// Decomposing a tax-inclusive amount must reassemble to the original.
		for _, amount := range []float64{1, 118, 56050, 99999.99, 12345.67} {
			breakdown := pricing.DecomposeTax(amount, true)
			assert.InDelta(t, amount, breakdown.Base+breakdown.Tax, 0.01, "amount %v", amount)
		}
	})

	t.Run("UntaxedReassembly", func(t *testing.T) {
		for _, amount := range []float64{1, 25000, 47500} {
			breakdown := pricing.DecomposeTax(amount, false)
			assert.InDelta(t, amount*1.18, breakdown.Base+breakdown.Tax, 0.01, "amount %v", amount)
		}
	})
}

func TestPricingService_Nights(t *testing.T) {
	pricing := NewPricingService()
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }

	t.Run("TwoFullNights", func(t *testing.T) {
		nights, err := pricing.Nights(day(10), day(12))
		assert.NoError(t, err)
		assert.Equal(t, 2, nights)
	})

	t.Run("PartialDayRoundsUp", func(t *testing.T) {
		checkOut := time.Date(2025, 3, 11, 6, 0, 0, 0, time.UTC)
		nights, err := pricing.Nights(day(10), checkOut)
		assert.NoError(t, err)
		assert.Equal(t, 2, nights)
	})

	t.Run("SameDayRejected", func(t *testing.T) {
		_, err := pricing.Nights(day(10), day(10))
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("ReversedRangeRejected", func(t *testing.T) {
		_, err := pricing.Nights(day(12), day(10))
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})
}

func TestPricingService_LateFee(t *testing.T) {
	pricing := NewPricingService()
	const dailyRate = 25000.0

	tests := []struct {
		name      string
		lateHours float64
		want      float64
	}{
		{"OnTime", 0, 0},
		{"NegativeClamped", -2, 0},
		{"OneHour", 1, 2000},
		{"ThreeHours", 3, 6000},
		{"JustUnderThreshold", 3.99, 7980},
		{"AtThresholdChargesFullDay", 4, dailyRate},
		{"WellPastThreshold", 10, dailyRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.LateFee(tt.lateHours, dailyRate)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestRoundCurrency(t *testing.T) {
	assert.Equal(t, 56050.0, RoundCurrency(56050.000000001))
	assert.Equal(t, 12.35, RoundCurrency(12.345))
	assert.Equal(t, -12.35, RoundCurrency(-12.345000001))
	assert.True(t, math.Abs(RoundCurrency(0.005)-0.01) < 1e-9)
}
