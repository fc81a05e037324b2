package services

import (
	"testing"

	"veridian_haveli_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderTestService(t *testing.T) (OrderService, *MockOrderRepository, *MockReservationRepository) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	orderRepo := new(MockOrderRepository)
	reservationRepo := new(MockReservationRepository)
	return NewOrderService(orderRepo, reservationRepo, db), orderRepo, reservationRepo
}

func TestOrderService_CreateOrder(t *testing.T) {
	t.Run("AttachesToCheckedInStay", func(t *testing.T) {
		svc, orderRepo, reservationRepo := newOrderTestService(t)

		reservationRepo.On("GetReservations", mock.MatchedBy(func(f models.ReservationFilters) bool {
			return f.RoomNumber != nil && *f.RoomNumber == "101" &&
				f.Status != nil && *f.Status == string(models.ReservationStatusCheckedIn)
		})).Return([]models.Reservation{{ID: 1, RoomNumber: "101"}}, 1, nil)
		orderRepo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
			return o.RoomNumber == "101" && o.Amount == 500 && !o.OrderTime.IsZero()
		})).Return(int64(10), nil)

		order, err := svc.CreateOrder(CreateOrderRequest{
			RoomNumber: "101", ItemName: "Biryani", Quantity: 2, Amount: 500,
		})
		require.NoError(t, err)
		assert.Equal(t, "Biryani", order.ItemName)
		orderRepo.AssertExpectations(t)
	})

	t.Run("NoCheckedInGuestRejected", func(t *testing.T) {
		svc, orderRepo, reservationRepo := newOrderTestService(t)

		reservationRepo.On("GetReservations", mock.Anything).Return([]models.Reservation{}, 0, nil)

		_, err := svc.CreateOrder(CreateOrderRequest{
			RoomNumber: "105", ItemName: "Chai", Quantity: 1, Amount: 150,
		})
		assert.ErrorIs(t, err, ErrNoActiveStay)
		orderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("NonPositiveAmountRejected", func(t *testing.T) {
		svc, _, _ := newOrderTestService(t)
		_, err := svc.CreateOrder(CreateOrderRequest{
			RoomNumber: "101", ItemName: "Chai", Quantity: 1, Amount: 0,
		})
		assert.ErrorIs(t, err, ErrOrderValidation)
	})

	t.Run("NonPositiveQuantityRejected", func(t *testing.T) {
		svc, _, _ := newOrderTestService(t)
		_, err := svc.CreateOrder(CreateOrderRequest{
			RoomNumber: "101", ItemName: "Chai", Quantity: 0, Amount: 150,
		})
		assert.ErrorIs(t, err, ErrOrderValidation)
	})
}

func TestOrderService_DeleteOrder(t *testing.T) {
	svc, orderRepo, _ := newOrderTestService(t)

	orderRepo.On("GetOrderByID", int64(10)).Return(&models.Order{ID: 10, RoomNumber: "101"}, nil)
	orderRepo.On("DeleteOrder", mock.Anything, int64(10)).Return(nil)

	assert.NoError(t, svc.DeleteOrder(10))
	orderRepo.AssertExpectations(t)
}
