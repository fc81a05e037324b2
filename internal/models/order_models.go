package models

import "time"

// Order represents a room-service (food/incidental) charge. Orders are
// immutable once created; deletion is an admin-only correction.
type Order struct {
	ID         int64     `json:"id" db:"id"`
	RoomNumber string    `json:"room_number" db:"room_number" binding:"required"`
	ItemName   string    `json:"item_name" db:"item_name" binding:"required"`
	Quantity   int       `json:"quantity" db:"quantity"`
	Amount     float64   `json:"amount" db:"amount"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	OrderTime  time.Time `json:"order_time" db:"order_time"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// OrderFilters defines the available filters for querying orders.
// This struct is used by both the service and repository layers.
type OrderFilters struct {
	RoomNumber *string    `form:"room_number"`
	DateFrom   *time.Time `form:"date_from"` // Expected format YYYY-MM-DD
	DateTo     *time.Time `form:"date_to"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}
