package services

import (
	"time"

	"veridian_haveli_backend/internal/models"
	"veridian_haveli_backend/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockReservationRepository
type MockReservationRepository struct {
	mock.Mock
}

// CreateReservation echoes the input when the stubbed return is (nil, nil),
// mirroring the repository contract of returning the persisted row.
func (m *MockReservationRepository) CreateReservation(executor repositories.SQLExecutor, reservation *models.Reservation) (*models.Reservation, error) {
	args := m.Called(executor, reservation)
	if args.Get(0) == nil {
		if args.Error(1) == nil {
			return reservation, nil
		}
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetReservationByID(id int64) (*models.Reservation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error) {
	args := m.Called(filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Reservation), args.Int(1), args.Error(2)
}

// UpdateReservation echoes the input when the stubbed return is (nil, nil).
func (m *MockReservationRepository) UpdateReservation(executor repositories.SQLExecutor, reservation *models.Reservation) (*models.Reservation, error) {
	args := m.Called(executor, reservation)
	if args.Get(0) == nil {
		if args.Error(1) == nil {
			return reservation, nil
		}
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationRepository) DeleteReservation(executor repositories.SQLExecutor, id int64) error {
	args := m.Called(executor, id)
	return args.Error(0)
}

func (m *MockReservationRepository) ListStale(status string, cutoff time.Time) ([]models.Reservation, error) {
	args := m.Called(status, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reservation), args.Error(1)
}

// MockRoomRepository
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) CreateRoom(executor repositories.SQLExecutor, room *models.Room) (*models.Room, error) {
	args := m.Called(executor, room)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) GetRoomByNumber(roomNumber string) (*models.Room, error) {
	args := m.Called(roomNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) GetRooms(filters models.RoomFilters) ([]models.Room, int, error) {
	args := m.Called(filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Room), args.Int(1), args.Error(2)
}

func (m *MockRoomRepository) ListAvailableByCategory(category string) ([]models.Room, error) {
	args := m.Called(category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *MockRoomRepository) UpdateRoom(executor repositories.SQLExecutor, room *models.Room) (*models.Room, error) {
	args := m.Called(executor, room)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) UpdateRoomStatusGuarded(executor repositories.SQLExecutor, roomNumber, fromStatus, toStatus string) error {
	args := m.Called(executor, roomNumber, fromStatus, toStatus)
	return args.Error(0)
}

func (m *MockRoomRepository) SetRoomStatus(executor repositories.SQLExecutor, roomNumber, status string) error {
	args := m.Called(executor, roomNumber, status)
	return args.Error(0)
}

func (m *MockRoomRepository) DeleteRoom(executor repositories.SQLExecutor, roomNumber string) error {
	args := m.Called(executor, roomNumber)
	return args.Error(0)
}

func (m *MockRoomRepository) CountActiveReservationsForRoom(roomNumber string) (int, error) {
	args := m.Called(roomNumber)
	return args.Int(0), args.Error(1)
}

// MockOrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(executor repositories.SQLExecutor, order *models.Order) (int64, error) {
	args := m.Called(executor, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GetOrderByID(orderID int64) (*models.Order, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	args := m.Called(filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) GetOrdersForStay(roomNumber string, from time.Time, to *time.Time) ([]models.Order, error) {
	args := m.Called(roomNumber, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) DeleteOrder(executor repositories.SQLExecutor, orderID int64) error {
	args := m.Called(executor, orderID)
	return args.Error(0)
}
