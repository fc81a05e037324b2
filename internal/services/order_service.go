package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"veridian_haveli_backend/internal/models"
	"veridian_haveli_backend/internal/repositories"
	"veridian_haveli_backend/pkg/utils"
)

// --- Custom Service Errors for Orders ---
var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrNoActiveStay    = errors.New("no checked-in reservation for room")
	ErrOrderValidation = errors.New("order data validation error")
)

// --- Order DTOs ---
type CreateOrderRequest struct {
	RoomNumber string  `json:"room_number" binding:"required"`
	ItemName   string  `json:"item_name" binding:"required"`
	Quantity   int     `json:"quantity" binding:"required,gt=0"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Notes      *string `json:"notes"`
}

// --- OrderService Interface ---
type OrderService interface {
	CreateOrder(req CreateOrderRequest) (*models.Order, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	DeleteOrder(orderID int64) error
}

// --- orderService Implementation ---
type orderService struct {
	orderRepo       repositories.OrderRepository
	reservationRepo repositories.ReservationRepository
	db              *sql.DB
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	rr repositories.ReservationRepository,
	db *sql.DB,
) OrderService {
	return &orderService{
		orderRepo:       or,
		reservationRepo: rr,
		db:              db,
	}
}

// CreateOrder places a room-service order. The charge attaches to whichever
// reservation is CheckedIn for the room at order time; once that guest checks
// out the room's later orders no longer reach them. The order itself is an
// additive pass-through: the reservation record is not touched here.
func (s *orderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrOrderValidation)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrOrderValidation)
	}

	status := string(models.ReservationStatusCheckedIn)
	active, _, err := s.reservationRepo.GetReservations(models.ReservationFilters{
		RoomNumber: &req.RoomNumber,
		Status:     &status,
		Page:       1,
		PageSize:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up active stay for room %s: %w", req.RoomNumber, err)
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrNoActiveStay, req.RoomNumber)
	}

	order := &models.Order{
		RoomNumber: req.RoomNumber,
		ItemName:   req.ItemName,
		Quantity:   req.Quantity,
		Amount:     req.Amount,
		Notes:      req.Notes,
		OrderTime:  time.Now(),
	}
	if _, err := s.orderRepo.CreateOrder(s.db, order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	utils.LogInfo("Room-service order placed", map[string]interface{}{
		"order_id": order.ID, "room_number": order.RoomNumber, "amount": order.Amount,
	})
	return order, nil
}

func (s *orderService) GetOrderByID(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}
	return order, nil
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	orders, totalCount, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, totalCount, nil
}

// DeleteOrder is an admin-only correction; guests cannot remove charges.
func (s *orderService) DeleteOrder(orderID int64) error {
	if _, err := s.GetOrderByID(orderID); err != nil {
		return err
	}
	if err := s.orderRepo.DeleteOrder(s.db, orderID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}
