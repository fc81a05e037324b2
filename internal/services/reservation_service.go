package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"veridian_haveli_backend/internal/models"
	"veridian_haveli_backend/internal/repositories"
	"veridian_haveli_backend/pkg/utils"

	"github.com/google/uuid"
)

// --- Custom Service Errors for Reservations ---
var (
	ErrReservationNotFound   = errors.New("reservation not found")
	ErrInvalidTransition     = errors.New("invalid reservation status transition")
	ErrNegativePayment       = errors.New("payment would make amount paid negative")
	ErrReservationValidation = errors.New("reservation data validation error")
)

const dateLayout = "2006-01-02"

// --- Reservation DTOs ---
type CreateReservationRequest struct {
	GuestName        string  `json:"guest_name" binding:"required"`
	GuestPhone       *string `json:"guest_phone"`
	GuestEmail       *string `json:"guest_email"`
	Category         string  `json:"category" binding:"required"`
	RoomNumber       *string `json:"room_number"` // required for Offline bookings
	Channel          string  `json:"channel" binding:"required"`
	CheckInDate      string  `json:"check_in_date" binding:"required"`  // YYYY-MM-DD
	CheckOutDate     string  `json:"check_out_date" binding:"required"` // YYYY-MM-DD
	IsRepeatCustomer bool    `json:"is_repeat_customer"`
}

type CheckInRequest struct {
	RoomNumber string `json:"room_number"` // optional: resolved from category when empty
}

type CheckOutRequest struct {
	LateHours    float64 `json:"late_hours"`
	LateNightFee float64 `json:"late_night_fee"`
}

type RecordPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// --- ReservationService Interface ---
type ReservationService interface {
	CreateReservation(req CreateReservationRequest) (*models.Reservation, error)
	GetReservationByID(id int64) (*models.Reservation, error)
	// GetReservations runs the expiry sweep before reading so listings never
	// show stale Booked/CheckedIn records.
	GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error)
	CheckIn(id int64, req CheckInRequest) (*models.Reservation, error)
	CheckOut(id int64, req CheckOutRequest) (*models.Reservation, error)
	Cancel(id int64) (*models.Reservation, error)
	RecordPayment(id int64, amount float64) (*models.Reservation, error)
	// SweepStale expires never-arrived bookings and force-closes overstays.
	// Idempotent: re-running past the first application is a no-op.
	SweepStale(now time.Time) (int, error)
	DeleteReservation(id int64) error
}

// --- reservationService Implementation ---
type reservationService struct {
	reservationRepo repositories.ReservationRepository
	roomRepo        repositories.RoomRepository
	orderRepo       repositories.OrderRepository
	inventory       InventoryService
	pricing         PricingService
	db              *sql.DB

	sweepMu sync.Mutex // single-flight guard for the expiry sweep
}

// NewReservationService creates a new instance of ReservationService.
func NewReservationService(
	rr repositories.ReservationRepository,
	roomRepo repositories.RoomRepository,
	or repositories.OrderRepository,
	inv InventoryService,
	pricing PricingService,
	db *sql.DB,
) ReservationService {
	return &reservationService{
		reservationRepo: rr,
		roomRepo:        roomRepo,
		orderRepo:       or,
		inventory:       inv,
		pricing:         pricing,
		db:              db,
	}
}

func parseStayDates(checkInStr, checkOutStr string) (time.Time, time.Time, error) {
	checkIn, err := time.Parse(dateLayout, checkInStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("check_in_date: %w: %v", ErrReservationValidation, err)
	}
	checkOut, err := time.Parse(dateLayout, checkOutStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("check_out_date: %w: %v", ErrReservationValidation, err)
	}
	return checkIn, checkOut, nil
}

func (s *reservationService) CreateReservation(req CreateReservationRequest) (*models.Reservation, error) {
	if !models.IsValidBookingChannel(req.Channel) {
		return nil, fmt.Errorf("%w: invalid channel '%s'", ErrReservationValidation, req.Channel)
	}

	checkIn, checkOut, err := parseStayDates(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}
	nights, err := s.pricing.Nights(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	rate, err := s.pricing.NightlyRate(req.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReservationValidation, err)
	}

	// Loyalty discount reduces the taxable base before tax is computed.
	base := float64(nights) * rate
	if req.IsRepeatCustomer {
		base -= base * LoyaltyDiscountRate
	}

	reservation := &models.Reservation{
		ReferenceCode:          uuid.NewString(),
		GuestName:              req.GuestName,
		GuestPhone:             req.GuestPhone,
		GuestEmail:             req.GuestEmail,
		Category:               req.Category,
		Channel:                req.Channel,
		CheckInDate:            checkIn,
		CheckOutDate:           checkOut,
		Status:                 string(models.ReservationStatusBooked),
		PaymentStatus:          models.PaymentStatusPending,
		IsRepeatCustomer:       req.IsRepeatCustomer,
		LoyaltyDiscountApplied: req.IsRepeatCustomer,
	}

	if models.BookingChannel(req.Channel) == models.ChannelOnline {
		// Online totals are stored tax-inclusive; the room stays a category
		// placeholder until check-in assigns a physical room.
		reservation.TotalAmount = base + base*TaxRate
		reservation.RoomNumber = "Online-" + req.Category
		created, err := s.reservationRepo.CreateReservation(s.db, reservation)
		if err != nil {
			return nil, fmt.Errorf("failed to create reservation in repository: %w", err)
		}
		utils.LogInfo("Reservation created", map[string]interface{}{
			"reservation_id": created.ID, "channel": created.Channel, "category": created.Category,
		})
		return created, nil
	}

	// Offline: tax-exclusive base stored, physical room reserved atomically
	// with the reservation insert.
	if req.RoomNumber == nil || *req.RoomNumber == "" {
		return nil, fmt.Errorf("%w: room_number is required for offline bookings", ErrReservationValidation)
	}
	room, err := s.roomRepo.GetRoomByNumber(*req.RoomNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrRoomNotFound, *req.RoomNumber)
		}
		return nil, fmt.Errorf("failed to validate room for booking: %w", err)
	}
	if !models.MatchesCategory(room.Category, req.Category) && !models.MatchesCategory(req.Category, room.Category) {
		return nil, fmt.Errorf("%w: room '%s' is not a %s room", ErrReservationValidation, room.RoomNumber, req.Category)
	}
	reservation.TotalAmount = base
	reservation.RoomNumber = room.RoomNumber

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.inventory.Reserve(tx, room.RoomNumber); err != nil {
		return nil, err
	}
	created, err := s.reservationRepo.CreateReservation(tx, reservation)
	if err != nil {
		return nil, fmt.Errorf("failed to create reservation in repository: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reservation creation: %w", err)
	}

	utils.LogInfo("Reservation created", map[string]interface{}{
		"reservation_id": created.ID, "channel": created.Channel, "room_number": created.RoomNumber,
	})
	return created, nil
}

func (s *reservationService) GetReservationByID(id int64) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetReservationByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation by ID: %w", err)
	}
	return reservation, nil
}

func (s *reservationService) GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error) {
	if _, err := s.SweepStale(time.Now()); err != nil {
		utils.LogError(err, "GetReservations: expiry sweep failed, serving possibly stale listing")
	}

	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 10
	}
	reservations, totalCount, err := s.reservationRepo.GetReservations(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get reservations: %w", err)
	}
	return reservations, totalCount, nil
}

// holdsPhysicalRoom reports whether a Booked reservation already has a real
// room reserved for it. Offline bookings reserve at creation; online ones
// carry a placeholder until check-in.
func holdsPhysicalRoom(r *models.Reservation) bool {
	return models.BookingChannel(r.Channel) == models.ChannelOffline
}

func (s *reservationService) CheckIn(id int64, req CheckInRequest) (*models.Reservation, error) {
	reservation, err := s.GetReservationByID(id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionReservation(models.ReservationStatus(reservation.Status), models.ReservationStatusCheckedIn) {
		return nil, fmt.Errorf("%w: cannot check in a reservation that is '%s'", ErrInvalidTransition, reservation.Status)
	}

	targetRoom := req.RoomNumber
	if targetRoom == "" {
		if holdsPhysicalRoom(reservation) {
			targetRoom = reservation.RoomNumber
		} else {
			// Resolve the category placeholder to a physical room.
			available, listErr := s.inventory.ListAvailable(reservation.Category)
			if listErr != nil {
				return nil, listErr
			}
			if len(available) == 0 {
				return nil, fmt.Errorf("%w: no %s room available for check-in", ErrRoomUnavailable, reservation.Category)
			}
			targetRoom = available[0].RoomNumber
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	alreadyHeld := holdsPhysicalRoom(reservation) && reservation.RoomNumber == targetRoom
	if !alreadyHeld {
		if err := s.inventory.Reserve(tx, targetRoom); err != nil {
			return nil, err
		}
		if holdsPhysicalRoom(reservation) && reservation.RoomNumber != targetRoom {
			// Front desk moved the guest: the originally held room was never
			// occupied, so it goes straight back to Available.
			if err := s.roomRepo.UpdateRoomStatusGuarded(tx, reservation.RoomNumber,
				string(models.RoomStatusBooked), string(models.RoomStatusAvailable)); err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("failed to free previously held room %s: %w", reservation.RoomNumber, err)
			}
		}
	}

	now := time.Now()
	reservation.RoomNumber = targetRoom
	reservation.Status = string(models.ReservationStatusCheckedIn)
	reservation.CheckedInAt = &now

	updated, err := s.reservationRepo.UpdateReservation(tx, reservation)
	if err != nil {
		return nil, fmt.Errorf("failed to update reservation for check-in: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit check-in: %w", err)
	}

	utils.LogInfo("Guest checked in", map[string]interface{}{
		"reservation_id": updated.ID, "room_number": updated.RoomNumber,
	})
	return updated, nil
}

func (s *reservationService) CheckOut(id int64, req CheckOutRequest) (*models.Reservation, error) {
	if req.LateHours < 0 {
		return nil, fmt.Errorf("%w: late_hours cannot be negative", ErrReservationValidation)
	}
	reservation, err := s.GetReservationByID(id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionReservation(models.ReservationStatus(reservation.Status), models.ReservationStatusCheckedOut) {
		return nil, fmt.Errorf("%w: cannot check out a reservation that is '%s'", ErrInvalidTransition, reservation.Status)
	}

	dailyRate, err := s.dailyRateFor(reservation)
	if err != nil {
		return nil, err
	}

	// Fold the stay's accrued food charges into the reservation's running
	// totals. Orders after checkout no longer attach to this guest.
	var foodCharges float64
	if reservation.CheckedInAt != nil {
		orders, ordersErr := s.orderRepo.GetOrdersForStay(reservation.RoomNumber, *reservation.CheckedInAt, nil)
		if ordersErr != nil {
			return nil, fmt.Errorf("failed to fetch stay orders for checkout: %w", ordersErr)
		}
		for _, order := range orders {
			foodCharges += order.Amount
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	reservation.Status = string(models.ReservationStatusCheckedOut)
	reservation.CheckedOutAt = &now
	reservation.LateFee = s.pricing.LateFee(req.LateHours, dailyRate)
	reservation.LateNightFee = req.LateNightFee
	reservation.FoodCharges = foodCharges

	updated, err := s.reservationRepo.UpdateReservation(tx, reservation)
	if err != nil {
		return nil, fmt.Errorf("failed to update reservation for checkout: %w", err)
	}
	if err := s.inventory.Release(tx, reservation.RoomNumber); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}

	utils.LogInfo("Guest checked out", map[string]interface{}{
		"reservation_id": updated.ID, "room_number": updated.RoomNumber,
		"late_fee": updated.LateFee, "food_charges": updated.FoodCharges,
	})
	return updated, nil
}

func (s *reservationService) Cancel(id int64) (*models.Reservation, error) {
	reservation, err := s.GetReservationByID(id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionReservation(models.ReservationStatus(reservation.Status), models.ReservationStatusCancelled) {
		return nil, fmt.Errorf("%w: cannot cancel a reservation that is '%s'", ErrInvalidTransition, reservation.Status)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	switch models.ReservationStatus(reservation.Status) {
	case models.ReservationStatusBooked:
		if holdsPhysicalRoom(reservation) {
			// Never occupied, so the room is immediately rebookable.
			if err := s.roomRepo.UpdateRoomStatusGuarded(tx, reservation.RoomNumber,
				string(models.RoomStatusBooked), string(models.RoomStatusAvailable)); err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("failed to free room %s on cancel: %w", reservation.RoomNumber, err)
			}
		}
	case models.ReservationStatusCheckedIn:
		if err := s.inventory.Release(tx, reservation.RoomNumber); err != nil {
			return nil, err
		}
	}

	reservation.Status = string(models.ReservationStatusCancelled)
	updated, err := s.reservationRepo.UpdateReservation(tx, reservation)
	if err != nil {
		return nil, fmt.Errorf("failed to update reservation for cancel: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancel: %w", err)
	}

	utils.LogInfo("Reservation cancelled", map[string]interface{}{"reservation_id": updated.ID})
	return updated, nil
}

func (s *reservationService) RecordPayment(id int64, amount float64) (*models.Reservation, error) {
	reservation, err := s.GetReservationByID(id)
	if err != nil {
		return nil, err
	}

	newPaid := reservation.AmountPaid + amount
	if newPaid < 0 {
		return nil, fmt.Errorf("%w: paid %.2f, adjustment %.2f", ErrNegativePayment, reservation.AmountPaid, amount)
	}
	reservation.AmountPaid = newPaid
	reservation.PaymentStatus = derivePaymentStatus(reservation)

	updated, err := s.reservationRepo.UpdateReservation(s.db, reservation)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	utils.LogInfo("Payment recorded", map[string]interface{}{
		"reservation_id": updated.ID, "amount": amount, "amount_paid": updated.AmountPaid,
	})
	return updated, nil
}

// derivePaymentStatus compares amount paid against what the reservation owes
// so far. Food tax rides on the folio, not here; the stored room total plus
// fees is the front-desk figure the source compared against.
func derivePaymentStatus(r *models.Reservation) string {
	roomTotal := r.TotalAmount
	if models.BookingChannel(r.Channel) == models.ChannelOffline {
		roomTotal += r.TotalAmount * TaxRate
	}
	due := roomTotal + r.LateFee + r.LateNightFee + r.FoodCharges
	switch {
	case r.AmountPaid <= 0:
		return models.PaymentStatusPending
	case r.AmountPaid < due:
		return models.PaymentStatusPartial
	default:
		return models.PaymentStatusPaid
	}
}

func (s *reservationService) dailyRateFor(reservation *models.Reservation) (float64, error) {
	room, err := s.roomRepo.GetRoomByNumber(reservation.RoomNumber)
	if err == nil && room.NightlyPrice > 0 {
		return room.NightlyPrice, nil
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return 0, fmt.Errorf("failed to fetch room for rate lookup: %w", err)
	}
	rate, rateErr := s.pricing.NightlyRate(reservation.Category)
	if rateErr != nil {
		return 0, fmt.Errorf("%w: %v", ErrReservationValidation, rateErr)
	}
	return rate, nil
}

func (s *reservationService) SweepStale(now time.Time) (int, error) {
	// Single-flight: a sweep already in progress covers this invocation.
	if !s.sweepMu.TryLock() {
		return 0, nil
	}
	defer s.sweepMu.Unlock()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	swept := 0

	// Guests who never arrived: Booked past their check-out date expire.
	staleBooked, err := s.reservationRepo.ListStale(string(models.ReservationStatusBooked), today)
	if err != nil {
		return swept, fmt.Errorf("failed to list stale booked reservations: %w", err)
	}
	for i := range staleBooked {
		if sweepErr := s.expireBooked(&staleBooked[i]); sweepErr != nil {
			utils.LogError(sweepErr, "SweepStale: failed to expire reservation")
			continue
		}
		swept++
	}

	// Overstays: CheckedIn past their check-out date are force-closed.
	overstays, err := s.reservationRepo.ListStale(string(models.ReservationStatusCheckedIn), today)
	if err != nil {
		return swept, fmt.Errorf("failed to list overstayed reservations: %w", err)
	}
	for i := range overstays {
		if sweepErr := s.forceCheckOut(&overstays[i], now); sweepErr != nil {
			utils.LogError(sweepErr, "SweepStale: failed to force-close overstay")
			continue
		}
		swept++
	}

	if swept > 0 {
		utils.LogInfo("Expiry sweep applied", map[string]interface{}{"records": swept})
	}
	return swept, nil
}

func (s *reservationService) expireBooked(reservation *models.Reservation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction for expiry: %w", err)
	}
	defer tx.Rollback()

	if holdsPhysicalRoom(reservation) {
		if err := s.roomRepo.UpdateRoomStatusGuarded(tx, reservation.RoomNumber,
			string(models.RoomStatusBooked), string(models.RoomStatusAvailable)); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("failed to free room %s on expiry: %w", reservation.RoomNumber, err)
		}
	}
	reservation.Status = string(models.ReservationStatusExpired)
	if _, err := s.reservationRepo.UpdateReservation(tx, reservation); err != nil {
		return fmt.Errorf("failed to expire reservation %d: %w", reservation.ID, err)
	}
	return tx.Commit()
}

func (s *reservationService) forceCheckOut(reservation *models.Reservation, now time.Time) error {
	var foodCharges float64
	if reservation.CheckedInAt != nil {
		orders, err := s.orderRepo.GetOrdersForStay(reservation.RoomNumber, *reservation.CheckedInAt, nil)
		if err != nil {
			return fmt.Errorf("failed to fetch stay orders for force-close: %w", err)
		}
		for _, order := range orders {
			foodCharges += order.Amount
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction for force-close: %w", err)
	}
	defer tx.Rollback()

	reservation.Status = string(models.ReservationStatusCheckedOut)
	reservation.CheckedOutAt = &now
	reservation.FoodCharges = foodCharges
	if _, err := s.reservationRepo.UpdateReservation(tx, reservation); err != nil {
		return fmt.Errorf("failed to force-close reservation %d: %w", reservation.ID, err)
	}
	if err := s.inventory.Release(tx, reservation.RoomNumber); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *reservationService) DeleteReservation(id int64) error {
	if _, err := s.GetReservationByID(id); err != nil {
		return err
	}
	// Orders are left in place; they remain individually admin-deletable.
	if err := s.reservationRepo.DeleteReservation(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReservationNotFound
		}
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	return nil
}
