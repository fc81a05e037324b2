package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"veridian_haveli_backend/internal/models"
	"veridian_haveli_backend/internal/repositories"
	"veridian_haveli_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReservationService
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) CreateReservation(req services.CreateReservationRequest) (*models.Reservation, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationService) GetReservationByID(id int64) (*models.Reservation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationService) GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error) {
	args := m.Called(filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Reservation), args.Int(1), args.Error(2)
}

func (m *MockReservationService) CheckIn(id int64, req services.CheckInRequest) (*models.Reservation, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationService) CheckOut(id int64, req services.CheckOutRequest) (*models.Reservation, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationService) Cancel(id int64) (*models.Reservation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationService) RecordPayment(id int64, amount float64) (*models.Reservation, error) {
	args := m.Called(id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationService) SweepStale(now time.Time) (int, error) {
	args := m.Called(now)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationService) DeleteReservation(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockFolioService
type MockFolioService struct {
	mock.Mock
}

func (m *MockFolioService) ComputeFolio(reservation *models.Reservation, orders []models.Order) models.Folio {
	args := m.Called(reservation, orders)
	return args.Get(0).(models.Folio)
}

func (m *MockFolioService) GetFolio(reservationID int64) (*models.Folio, error) {
	args := m.Called(reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Folio), args.Error(1)
}

func setupReservationRouter(rs services.ReservationService, fs services.FolioService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := NewReservationHandler(rs, fs)

	group := engine.Group("/api/v1/reservations")
	group.POST("", handler.CreateReservation)
	group.GET("/:id", handler.GetReservationByID)
	group.PATCH("/:id/check-in", handler.CheckIn)
	group.POST("/:id/payments", handler.RecordPayment)
	group.GET("/:id/folio", handler.GetFolio)
	return engine
}

func TestCreateReservationHandler(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		rs := new(MockReservationService)
		fs := new(MockFolioService)
		rs.On("CreateReservation", mock.AnythingOfType("services.CreateReservationRequest")).
			Return(&models.Reservation{ID: 1, RoomNumber: "Online-Single", TotalAmount: 59000}, nil)
		engine := setupReservationRouter(rs, fs)

		body, _ := json.Marshal(map[string]interface{}{
			"guest_name":     "Arjun Mehta",
			"category":       "Single",
			"channel":        "Online",
			"check_in_date":  "2025-03-10",
			"check_out_date": "2025-03-12",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp models.Reservation
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.ID)
	})

	t.Run("MissingGuestNameRejected", func(t *testing.T) {
		rs := new(MockReservationService)
		fs := new(MockFolioService)
		engine := setupReservationRouter(rs, fs)

		body := []byte(`{"category": "Single", "channel": "Online", "check_in_date": "2025-03-10", "check_out_date": "2025-03-12"}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		rs.AssertNotCalled(t, "CreateReservation", mock.Anything)
	})

	t.Run("RoomUnavailableMapsToConflict", func(t *testing.T) {
		rs := new(MockReservationService)
		fs := new(MockFolioService)
		rs.On("CreateReservation", mock.Anything).Return(nil, services.ErrRoomUnavailable)
		engine := setupReservationRouter(rs, fs)

		body, _ := json.Marshal(map[string]interface{}{
			"guest_name":     "Second Guest",
			"category":       "Single",
			"room_number":    "101",
			"channel":        "Offline",
			"check_in_date":  "2025-03-10",
			"check_out_date": "2025-03-12",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCheckInHandler(t *testing.T) {
	t.Run("EmptyBodyAllowed", func(t *testing.T) {
		rs := new(MockReservationService)
		fs := new(MockFolioService)
		rs.On("CheckIn", int64(7), services.CheckInRequest{}).
			Return(&models.Reservation{ID: 7, RoomNumber: "104", Status: "CheckedIn"}, nil)
		engine := setupReservationRouter(rs, fs)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/reservations/7/check-in", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("InvalidTransitionMapsToConflict", func(t *testing.T) {
		rs := new(MockReservationService)
		fs := new(MockFolioService)
		rs.On("CheckIn", int64(7), mock.Anything).Return(nil, services.ErrInvalidTransition)
		engine := setupReservationRouter(rs, fs)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/reservations/7/check-in", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("BadIDMapsToBadRequest", func(t *testing.T) {
		rs := new(MockReservationService)
		fs := new(MockFolioService)
		engine := setupReservationRouter(rs, fs)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/reservations/abc/check-in", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecordPaymentHandler(t *testing.T) {
	t.Run("NegativeBalanceMapsToBadRequest", func(t *testing.T) {
		rs := new(MockReservationService)
		fs := new(MockFolioService)
		rs.On("RecordPayment", int64(5), -100.0).Return(nil, services.ErrNegativePayment)
		engine := setupReservationRouter(rs, fs)

		body := []byte(`{"amount": -100}`)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/5/payments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetFolioHandler(t *testing.T) {
	t.Run("ReturnsComputedFolio", func(t *testing.T) {
		rs := new(MockReservationService)
		fs := new(MockFolioService)
		fs.On("GetFolio", int64(1)).Return(&models.Folio{
			ReservationID:   1,
			RoomTotalIncGST: 56050,
			GrandTotal:      56050,
			BalanceDue:      56050,
		}, nil)
		engine := setupReservationRouter(rs, fs)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/1/folio", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var folio models.Folio
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &folio))
		assert.InDelta(t, 56050, folio.GrandTotal, 0.01)
	})

	t.Run("DatabaseErrorMapsToServiceUnavailable", func(t *testing.T) {
		rs := new(MockReservationService)
		fs := new(MockFolioService)
		fs.On("GetFolio", int64(1)).Return(nil, fmt.Errorf("loading reservation: %w", repositories.ErrDatabaseError))
		engine := setupReservationRouter(rs, fs)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/1/folio", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("UnknownReservationMapsToNotFound", func(t *testing.T) {
		rs := new(MockReservationService)
		fs := new(MockFolioService)
		fs.On("GetFolio", int64(99)).Return(nil, services.ErrReservationNotFound)
		engine := setupReservationRouter(rs, fs)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/99/folio", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
