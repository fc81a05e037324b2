package services

import (
	"time"

	"veridian_haveli_backend/internal/models"
	"veridian_haveli_backend/internal/repositories"
)

// --- FolioService Interface ---
type FolioService interface {
	// ComputeFolio aggregates a reservation and its orders into the billing
	// view. Deterministic over its inputs; nothing is persisted.
	ComputeFolio(reservation *models.Reservation, orders []models.Order) models.Folio
	// GetFolio loads the reservation and its orders and computes the folio.
	GetFolio(reservationID int64) (*models.Folio, error)
}

// --- folioService Implementation ---
type folioService struct {
	reservationRepo repositories.ReservationRepository
	orderRepo       repositories.OrderRepository
	pricing         PricingService
	reservations    ReservationService
}

// NewFolioService creates a new instance of FolioService.
func NewFolioService(
	rr repositories.ReservationRepository,
	or repositories.OrderRepository,
	pricing PricingService,
	rs ReservationService,
) FolioService {
	return &folioService{
		reservationRepo: rr,
		orderRepo:       or,
		pricing:         pricing,
		reservations:    rs,
	}
}

// isPreTaxed resolves the billing channel. The explicit channel enum is
// authoritative; rows predating the enum fall back to the legacy
// room-string marker. Documented legacy behavior only, not to be extended.
func isPreTaxed(r *models.Reservation) bool {
	if r.Channel != "" {
		return models.BookingChannel(r.Channel) == models.ChannelOnline
	}
	return models.MatchesCategory(r.RoomNumber, "online")
}

func (s *folioService) ComputeFolio(reservation *models.Reservation, orders []models.Order) models.Folio {
	breakdown := s.pricing.DecomposeTax(reservation.TotalAmount, isPreTaxed(reservation))
	taxable := breakdown.Base
	roomTax := breakdown.Tax
	roomTotalIncGST := taxable + roomTax

	var roomBase, discount float64
	switch {
	case reservation.LoyaltyDiscountApplied:
		// Discount was baked into the stored total at creation (5% off the
		// pre-tax base). Reconstruct the gross base for display.
		roomBase = taxable / (1 - LoyaltyDiscountRate)
		discount = roomBase - taxable
	case reservation.IsRepeatCustomer:
		// Legacy display path: rows created before the discount was baked in
		// get 5% of the decomposed base knocked off the stored total. Kept
		// deliberately distinct from the creation path above.
		roomBase = taxable
		discount = taxable * LoyaltyDiscountRate
		roomTotalIncGST -= discount
	default:
		roomBase = taxable
	}

	// Orders attach by room-number match within the active stay window.
	var foodTotal float64
	matched := false
	for _, order := range orders {
		if order.RoomNumber != reservation.RoomNumber {
			continue
		}
		if !orderInStayWindow(reservation, order.OrderTime) {
			continue
		}
		foodTotal += order.Amount
		matched = true
	}
	if !matched && reservation.FoodCharges > 0 {
		// The charges folded in at checkout survive even if the order rows
		// were since deleted by an admin.
		foodTotal = reservation.FoodCharges
	}
	foodTax := foodTotal * TaxRate

	grandTotal := roomTotalIncGST + foodTotal + foodTax + reservation.LateFee + reservation.LateNightFee
	balance := grandTotal - reservation.AmountPaid
	balanceDue := balance
	if balanceDue < 0 {
		balanceDue = 0
	}

	// Rounding happens here and only here; the sums above stay unrounded.
	return models.Folio{
		ReservationID:   reservation.ID,
		RoomBase:        RoundCurrency(roomBase),
		RoomTax:         RoundCurrency(roomTax),
		LoyaltyDiscount: RoundCurrency(discount),
		RoomTotalIncGST: RoundCurrency(roomTotalIncGST),
		FoodTotal:       RoundCurrency(foodTotal),
		FoodTax:         RoundCurrency(foodTax),
		LateFees:        RoundCurrency(reservation.LateFee),
		LateNightFee:    RoundCurrency(reservation.LateNightFee),
		GrandTotal:      RoundCurrency(grandTotal),
		AmountPaid:      RoundCurrency(reservation.AmountPaid),
		Balance:         RoundCurrency(balance),
		BalanceDue:      RoundCurrency(balanceDue),
	}
}

func orderInStayWindow(reservation *models.Reservation, orderTime time.Time) bool {
	if reservation.CheckedInAt == nil {
		return false
	}
	if orderTime.Before(*reservation.CheckedInAt) {
		return false
	}
	if reservation.CheckedOutAt != nil && !orderTime.Before(*reservation.CheckedOutAt) {
		return false
	}
	return true
}

func (s *folioService) GetFolio(reservationID int64) (*models.Folio, error) {
	reservation, err := s.reservations.GetReservationByID(reservationID)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if reservation.CheckedInAt != nil {
		orders, err = s.orderRepo.GetOrdersForStay(reservation.RoomNumber, *reservation.CheckedInAt, reservation.CheckedOutAt)
		if err != nil {
			return nil, err
		}
	}

	folio := s.ComputeFolio(reservation, orders)
	return &folio, nil
}
