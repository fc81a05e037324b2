package services

import (
	"database/sql"
	"errors"
	"fmt"

	"veridian_haveli_backend/internal/models"
	"veridian_haveli_backend/internal/repositories"
	"veridian_haveli_backend/pkg/utils"
)

// --- Custom Service Errors for Inventory ---
var (
	ErrRoomNotFound          = errors.New("room not found")
	ErrRoomUnavailable       = errors.New("room is not available")
	ErrRoomNotOccupied       = errors.New("room is not currently booked")
	ErrRoomValidation        = errors.New("room data validation error")
	ErrRoomNumberExists      = errors.New("room number already exists")
	ErrRoomHasActiveBookings = errors.New("room has active reservations and cannot be deleted")
)

// --- Room DTOs ---
type CreateRoomRequest struct {
	RoomNumber  string  `json:"room_number" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Floor       *string `json:"floor"`
	Description *string `json:"description"`
}

type UpdateRoomRequest struct {
	Category    *string  `json:"category"`
	NightlyPrice *float64 `json:"nightly_price"`
	Floor       *string  `json:"floor"`
	Description *string  `json:"description"`
}

// --- InventoryService Interface ---
type InventoryService interface {
	CreateRoom(req CreateRoomRequest) (*models.Room, error)
	GetRoomByNumber(roomNumber string) (*models.Room, error)
	GetRooms(filters models.RoomFilters) ([]models.Room, int, error)
	ListAvailable(category string) ([]models.Room, error)
	UpdateRoom(roomNumber string, req UpdateRoomRequest) (*models.Room, error)
	// Reserve transitions Available -> Booked within the given executor.
	Reserve(executor repositories.SQLExecutor, roomNumber string) error
	// Release transitions Booked -> Maintenance within the given executor.
	// Never directly back to Available: housekeeping acknowledges via SetStatus.
	Release(executor repositories.SQLExecutor, roomNumber string) error
	// SetStatus is the unguarded admin override, any state to any state.
	SetStatus(roomNumber string, status string) (*models.Room, error)
	DeleteRoom(roomNumber string) error
}

// --- inventoryService Implementation ---
type inventoryService struct {
	roomRepo repositories.RoomRepository
	pricing  PricingService
	db       *sql.DB
}

// NewInventoryService creates a new instance of InventoryService.
func NewInventoryService(rr repositories.RoomRepository, ps PricingService, db *sql.DB) InventoryService {
	return &inventoryService{roomRepo: rr, pricing: ps, db: db}
}

func (s *inventoryService) CreateRoom(req CreateRoomRequest) (*models.Room, error) {
	rate, err := s.pricing.NightlyRate(req.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRoomValidation, err)
	}

	room := &models.Room{
		RoomNumber:   req.RoomNumber,
		Category:     req.Category,
		NightlyPrice: rate,
		Status:       string(models.RoomStatusAvailable),
		Floor:        req.Floor,
		Description:  req.Description,
	}

	created, err := s.roomRepo.CreateRoom(s.db, room)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: '%s'", ErrRoomNumberExists, req.RoomNumber)
		}
		return nil, fmt.Errorf("failed to create room in repository: %w", err)
	}
	utils.LogInfo("Room added to inventory", map[string]interface{}{"room_number": created.RoomNumber, "category": created.Category})
	return created, nil
}

func (s *inventoryService) GetRoomByNumber(roomNumber string) (*models.Room, error) {
	room, err := s.roomRepo.GetRoomByNumber(roomNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room by number: %w", err)
	}
	return room, nil
}

func (s *inventoryService) GetRooms(filters models.RoomFilters) ([]models.Room, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	rooms, totalCount, err := s.roomRepo.GetRooms(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get rooms: %w", err)
	}
	return rooms, totalCount, nil
}

func (s *inventoryService) ListAvailable(category string) ([]models.Room, error) {
	rooms, err := s.roomRepo.ListAvailableByCategory(category)
	if err != nil {
		return nil, fmt.Errorf("failed to list available rooms: %w", err)
	}
	return rooms, nil
}

func (s *inventoryService) UpdateRoom(roomNumber string, req UpdateRoomRequest) (*models.Room, error) {
	room, err := s.roomRepo.GetRoomByNumber(roomNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room for update: %w", err)
	}

	if req.Category != nil {
		if _, rateErr := s.pricing.NightlyRate(*req.Category); rateErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrRoomValidation, rateErr)
		}
		room.Category = *req.Category
	}
	if req.NightlyPrice != nil {
		if *req.NightlyPrice <= 0 {
			return nil, fmt.Errorf("%w: nightly price must be positive", ErrRoomValidation)
		}
		room.NightlyPrice = *req.NightlyPrice
	}
	if req.Floor != nil {
		room.Floor = req.Floor
	}
	if req.Description != nil {
		room.Description = req.Description
	}

	updated, err := s.roomRepo.UpdateRoom(s.db, room)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to update room in repository: %w", err)
	}
	return updated, nil
}

func (s *inventoryService) Reserve(executor repositories.SQLExecutor, roomNumber string) error {
	err := s.roomRepo.UpdateRoomStatusGuarded(executor, roomNumber,
		string(models.RoomStatusAvailable), string(models.RoomStatusBooked))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Either the room does not exist or it is no longer Available.
			if _, getErr := s.roomRepo.GetRoomByNumber(roomNumber); errors.Is(getErr, repositories.ErrNotFound) {
				return fmt.Errorf("%w: '%s'", ErrRoomNotFound, roomNumber)
			}
			return fmt.Errorf("%w: '%s'", ErrRoomUnavailable, roomNumber)
		}
		return fmt.Errorf("failed to reserve room %s: %w", roomNumber, err)
	}
	return nil
}

func (s *inventoryService) Release(executor repositories.SQLExecutor, roomNumber string) error {
	err := s.roomRepo.UpdateRoomStatusGuarded(executor, roomNumber,
		string(models.RoomStatusBooked), string(models.RoomStatusMaintenance))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			if _, getErr := s.roomRepo.GetRoomByNumber(roomNumber); errors.Is(getErr, repositories.ErrNotFound) {
				return fmt.Errorf("%w: '%s'", ErrRoomNotFound, roomNumber)
			}
			return fmt.Errorf("%w: '%s'", ErrRoomNotOccupied, roomNumber)
		}
		return fmt.Errorf("failed to release room %s: %w", roomNumber, err)
	}
	return nil
}

func (s *inventoryService) SetStatus(roomNumber string, status string) (*models.Room, error) {
	if !models.IsValidRoomStatus(status) {
		return nil, fmt.Errorf("%w: invalid status '%s'", ErrRoomValidation, status)
	}
	err := s.roomRepo.SetRoomStatus(s.db, roomNumber, status)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to set room status: %w", err)
	}
	utils.LogInfo("Room status overridden", map[string]interface{}{"room_number": roomNumber, "status": status})
	return s.roomRepo.GetRoomByNumber(roomNumber)
}

func (s *inventoryService) DeleteRoom(roomNumber string) error {
	if _, err := s.roomRepo.GetRoomByNumber(roomNumber); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to find room for deletion: %w", err)
	}

	// Restrict policy: never orphan an active reservation's room reference.
	activeCount, err := s.roomRepo.CountActiveReservationsForRoom(roomNumber)
	if err != nil {
		return fmt.Errorf("failed to check reservations for room %s: %w", roomNumber, err)
	}
	if activeCount > 0 {
		return fmt.Errorf("%w: '%s' has %d active reservation(s)", ErrRoomHasActiveBookings, roomNumber, activeCount)
	}

	if err := s.roomRepo.DeleteRoom(s.db, roomNumber); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}
