package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"veridian_haveli_backend/internal/models"
)

// --- Custom Service Errors for Pricing ---
var (
	ErrInvalidDateRange = errors.New("invalid date range (check-out must be after check-in)")
	ErrUnknownCategory  = errors.New("unknown room category")
)

// Billing constants. Amounts are rupees; GST at the standard hospitality rate.
const (
	TaxRate             = 0.18
	LoyaltyDiscountRate = 0.05
	LateFeePerHour      = 2000.0
	LateFeeFullDayHours = 4.0
)

// Fixed nightly rate schedule per room category.
var nightlyRates = map[string]float64{
	models.CategorySingle:    25000,
	models.CategoryDouble:    40000,
	models.CategoryTriple:    55000,
	models.CategoryDormitory: 12000,
}

// TaxBreakdown is the result of decomposing an amount into base and GST.
type TaxBreakdown struct {
	Base float64 `json:"base"`
	Tax  float64 `json:"tax"`
}

// --- PricingService Interface ---
type PricingService interface {
	NightlyRate(category string) (float64, error)
	DecomposeTax(amount float64, preTaxed bool) TaxBreakdown
	Nights(checkIn, checkOut time.Time) (int, error)
	LateFee(lateHours, dailyRate float64) float64
}

// --- pricingService Implementation ---
type pricingService struct{}

// NewPricingService creates a new instance of PricingService.
func NewPricingService() PricingService {
	return &pricingService{}
}

// NightlyRate returns the fixed nightly price for a category. Lookup is
// tolerant of legacy free-text category strings ("Online-Single", "single").
func (s *pricingService) NightlyRate(category string) (float64, error) {
	for name, rate := range nightlyRates {
		if models.MatchesCategory(category, name) {
			return rate, nil
		}
	}
	return 0, fmt.Errorf("%w: '%s'", ErrUnknownCategory, category)
}

// DecomposeTax splits an amount into {base, tax}. A pre-taxed amount already
// includes GST (online bookings store tax-inclusive totals) and is decomposed;
// otherwise tax is added on top of the base. Detecting the channel correctly
// is what keeps offline bookings from being double-taxed.
func (s *pricingService) DecomposeTax(amount float64, preTaxed bool) TaxBreakdown {
	if preTaxed {
		base := amount / (1 + TaxRate)
		return TaxBreakdown{Base: base, Tax: amount - base}
	}
	return TaxBreakdown{Base: amount, Tax: amount * TaxRate}
}

// Nights computes the chargeable night count as the ceiling of the day
// difference. Zero or negative spans are rejected, never floored to 1.
func (s *pricingService) Nights(checkIn, checkOut time.Time) (int, error) {
	nights := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if nights <= 0 {
		return 0, ErrInvalidDateRange
	}
	return nights, nil
}

// LateFee computes the late-departure fee. At or above the full-day threshold
// the fee is the room's entire daily rate; below it a flat per-hour rate
// applies. The threshold check is a strict >= so 3.99 hours stays per-hour.
func (s *pricingService) LateFee(lateHours, dailyRate float64) float64 {
	if lateHours <= 0 {
		return 0
	}
	if lateHours >= LateFeeFullDayHours {
		return dailyRate
	}
	return lateHours * LateFeePerHour
}

// RoundCurrency rounds to 2 decimal places for display. Internal accumulation
// never rounds intermediate sums.
func RoundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}
