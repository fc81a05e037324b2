package models

import "time"

// ReservationStatus defines the type for reservation lifecycle states
type ReservationStatus string

const (
	ReservationStatusBooked     ReservationStatus = "Booked"
	ReservationStatusCheckedIn  ReservationStatus = "CheckedIn"
	ReservationStatusCheckedOut ReservationStatus = "CheckedOut"
	ReservationStatusExpired    ReservationStatus = "Expired"
	ReservationStatusCancelled  ReservationStatus = "Cancelled"
)

// IsValidReservationStatus checks if the provided status string is a valid ReservationStatus.
func IsValidReservationStatus(status string) bool {
	switch ReservationStatus(status) {
	case ReservationStatusBooked,
		ReservationStatusCheckedIn,
		ReservationStatusCheckedOut,
		ReservationStatusExpired,
		ReservationStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionReservation reports whether moving a reservation from one
// status to another is allowed. Transitions only move forward: CheckedOut,
// Expired and Cancelled are terminal.
func CanTransitionReservation(from, to ReservationStatus) bool {
	switch from {
	case ReservationStatusBooked:
		return to == ReservationStatusCheckedIn ||
			to == ReservationStatusExpired ||
			to == ReservationStatusCancelled
	case ReservationStatusCheckedIn:
		return to == ReservationStatusCheckedOut ||
			to == ReservationStatusCancelled
	default:
		return false
	}
}

// BookingChannel distinguishes how a reservation was created. Online
// reservations store a tax-inclusive total, offline (front-desk) ones a
// tax-exclusive base.
type BookingChannel string

const (
	ChannelOnline  BookingChannel = "Online"
	ChannelOffline BookingChannel = "Offline"
)

// IsValidBookingChannel checks if the provided channel string is a valid BookingChannel.
func IsValidBookingChannel(channel string) bool {
	switch BookingChannel(channel) {
	case ChannelOnline, ChannelOffline:
		return true
	default:
		return false
	}
}

// PaymentStatus values derived from amount paid vs grand total
const (
	PaymentStatusPending = "Pending"
	PaymentStatusPartial = "Partial"
	PaymentStatusPaid    = "Paid"
)

// Reservation represents a guest booking and its running folio inputs
type Reservation struct {
	ID            int64  `json:"id" db:"id"`
	ReferenceCode string `json:"reference_code" db:"reference_code"`
	GuestName     string `json:"guest_name" db:"guest_name" binding:"required"`
	GuestPhone    *string `json:"guest_phone,omitempty" db:"guest_phone"`
	GuestEmail    *string `json:"guest_email,omitempty" db:"guest_email"`
	// RoomNumber holds the physical room once assigned. Online reservations
	// carry an "Online-<Category>" placeholder until check-in; the placeholder
	// is display-only and never parsed for channel detection.
	RoomNumber    string    `json:"room_number" db:"room_number"`
	Category      string    `json:"category" db:"category"`
	Channel       string    `json:"channel" db:"channel"` // Online, Offline
	CheckInDate   time.Time `json:"check_in_date" db:"check_in_date"`
	CheckOutDate  time.Time `json:"check_out_date" db:"check_out_date"`
	Status        string    `json:"status" db:"status"`
	PaymentStatus string    `json:"payment_status" db:"payment_status"`
	// TotalAmount is tax-inclusive for Online reservations and tax-exclusive
	// for Offline ones. The folio engine decomposes it per channel.
	TotalAmount            float64    `json:"total_amount" db:"total_amount"`
	AmountPaid             float64    `json:"amount_paid" db:"amount_paid"`
	LateFee                float64    `json:"late_fee" db:"late_fee"`
	LateNightFee           float64    `json:"late_night_fee" db:"late_night_fee"`
	FoodCharges            float64    `json:"food_charges" db:"food_charges"`
	IsRepeatCustomer       bool       `json:"is_repeat_customer" db:"is_repeat_customer"`
	LoyaltyDiscountApplied bool       `json:"loyalty_discount_applied" db:"loyalty_discount_applied"`
	CheckedInAt            *time.Time `json:"checked_in_at,omitempty" db:"checked_in_at"`
	CheckedOutAt           *time.Time `json:"checked_out_at,omitempty" db:"checked_out_at"`
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at" db:"updated_at"`
	Room                   *Room      `json:"room,omitempty"` // For joining with Room details
}

// ReservationFilters defines the available filters for querying reservations.
type ReservationFilters struct {
	RoomNumber *string    `form:"room_number"`
	Status     *string    `form:"status"`
	Channel    *string    `form:"channel"`
	DateFrom   *time.Time `form:"date_from"` // Expect YYYY-MM-DD
	DateTo     *time.Time `form:"date_to"`   // Expect YYYY-MM-DD
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}
