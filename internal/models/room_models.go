package models

import (
	"strings"
	"time"
)

// RoomStatus defines the type for room availability states
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "Available"
	RoomStatusBooked      RoomStatus = "Booked"
	RoomStatusMaintenance RoomStatus = "Maintenance"
)

// IsValidRoomStatus checks if the provided status string is a valid RoomStatus.
func IsValidRoomStatus(status string) bool {
	switch RoomStatus(status) {
	case RoomStatusAvailable, RoomStatusBooked, RoomStatusMaintenance:
		return true
	default:
		return false
	}
}

// Room category names. Legacy records may carry free-text variants
// ("online-single", "DOUBLE DELUXE"), so lookups go through MatchesCategory.
const (
	CategorySingle    = "Single"
	CategoryDouble    = "Double"
	CategoryTriple    = "Triple"
	CategoryDormitory = "Dormitory"
)

// MatchesCategory reports whether a stored category string refers to the
// wanted category. Case-insensitive substring match, tolerant of legacy
// free-text values.
func MatchesCategory(stored, wanted string) bool {
	return strings.Contains(strings.ToLower(stored), strings.ToLower(wanted))
}

// Room represents a physical guest room
type Room struct {
	ID           int64     `json:"id" db:"id"`
	RoomNumber   string    `json:"room_number" db:"room_number" binding:"required"`
	Category     string    `json:"category" db:"category" binding:"required"`
	NightlyPrice float64   `json:"nightly_price" db:"nightly_price"`
	Status       string    `json:"status" db:"status"` // Available, Booked, Maintenance
	Floor        *string   `json:"floor,omitempty" db:"floor"`
	Description  *string   `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RoomFilters defines the available filters for querying rooms.
type RoomFilters struct {
	Category *string `form:"category"`
	Status   *string `form:"status"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}
