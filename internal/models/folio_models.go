package models

// Folio is the computed billing view over a reservation and its orders.
// It is derived on demand and never persisted.
type Folio struct {
	ReservationID   int64   `json:"reservation_id"`
	RoomBase        float64 `json:"room_base"`         // pre-tax room amount
	RoomTax         float64 `json:"room_tax"`          // GST on the room amount
	LoyaltyDiscount float64 `json:"loyalty_discount"`  // 5% repeat-customer discount
	RoomTotalIncGST float64 `json:"roomTotalIncGST"`   // discounted, tax-inclusive room total
	FoodTotal       float64 `json:"foodTotal"`         // incidental orders subtotal
	FoodTax         float64 `json:"tax"`               // GST on the food subtotal
	LateFees        float64 `json:"lateFees"`          // late-departure fee
	LateNightFee    float64 `json:"late_night_fee"`    // manual surcharge
	GrandTotal      float64 `json:"grandTotal"`
	AmountPaid      float64 `json:"amountPaid"`
	// Balance keeps its sign so overpayment is visible to reporting;
	// BalanceDue is the clamped-to-zero figure shown to guests.
	Balance    float64 `json:"balance"`
	BalanceDue float64 `json:"balance_due"`
}
