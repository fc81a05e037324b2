package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"veridian_haveli_backend/internal/models"
)

// ReservationRepository defines the interface for reservation-related database operations.
type ReservationRepository interface {
	CreateReservation(executor SQLExecutor, reservation *models.Reservation) (*models.Reservation, error)
	GetReservationByID(id int64) (*models.Reservation, error)
	GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error) // reservations, total count, error
	UpdateReservation(executor SQLExecutor, reservation *models.Reservation) (*models.Reservation, error)
	DeleteReservation(executor SQLExecutor, id int64) error
	// ListStale returns reservations in the given status whose check-out date
	// is strictly before the cutoff. Used by the expiry sweep; matching only
	// strictly stale records keeps repeated sweeps idempotent.
	ListStale(status string, cutoff time.Time) ([]models.Reservation, error)
}

type reservationRepository struct {
	db *sql.DB
}

// NewReservationRepository creates a new instance of ReservationRepository.
func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

const selectReservationFields = `
	r.id, r.reference_code, r.guest_name, r.guest_phone, r.guest_email,
	r.room_number, r.category, r.channel, r.check_in_date, r.check_out_date,
	r.status, r.payment_status, r.total_amount, r.amount_paid,
	r.late_fee, r.late_night_fee, r.food_charges,
	r.is_repeat_customer, r.loyalty_discount_applied,
	r.checked_in_at, r.checked_out_at, r.created_at, r.updated_at
`

// scanReservationRow is a helper to scan a single reservation row.
// It's used by GetReservationByID, GetReservations and ListStale.
func scanReservationRow(row scanner, isList bool) (*models.Reservation, int, error) {
	var res models.Reservation
	var guestPhone, guestEmail sql.NullString
	var checkedInAt, checkedOutAt sql.NullTime
	var totalCount int

	scanDest := []interface{}{
		&res.ID, &res.ReferenceCode, &res.GuestName, &guestPhone, &guestEmail,
		&res.RoomNumber, &res.Category, &res.Channel, &res.CheckInDate, &res.CheckOutDate,
		&res.Status, &res.PaymentStatus, &res.TotalAmount, &res.AmountPaid,
		&res.LateFee, &res.LateNightFee, &res.FoodCharges,
		&res.IsRepeatCustomer, &res.LoyaltyDiscountApplied,
		&checkedInAt, &checkedOutAt, &res.CreatedAt, &res.UpdatedAt,
	}
	if isList {
		scanDest = append(scanDest, &totalCount)
	}

	err := row.Scan(scanDest...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("%w: scanning reservation: %v", ErrDatabaseError, err)
	}

	if guestPhone.Valid {
		res.GuestPhone = &guestPhone.String
	}
	if guestEmail.Valid {
		res.GuestEmail = &guestEmail.String
	}
	if checkedInAt.Valid {
		t := checkedInAt.Time
		res.CheckedInAt = &t
	}
	if checkedOutAt.Valid {
		t := checkedOutAt.Time
		res.CheckedOutAt = &t
	}
	return &res, totalCount, nil
}

func (r *reservationRepository) CreateReservation(executor SQLExecutor, reservation *models.Reservation) (*models.Reservation, error) {
	query := `INSERT INTO reservations
	            (reference_code, guest_name, guest_phone, guest_email, room_number, category, channel,
	             check_in_date, check_out_date, status, payment_status, total_amount, amount_paid,
	             late_fee, late_night_fee, food_charges, is_repeat_customer, loyalty_discount_applied,
	             created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	reservation.CreatedAt = currentTime
	reservation.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		reservation.ReferenceCode, reservation.GuestName, reservation.GuestPhone, reservation.GuestEmail,
		reservation.RoomNumber, reservation.Category, reservation.Channel,
		reservation.CheckInDate, reservation.CheckOutDate, reservation.Status, reservation.PaymentStatus,
		reservation.TotalAmount, reservation.AmountPaid,
		reservation.LateFee, reservation.LateNightFee, reservation.FoodCharges,
		reservation.IsRepeatCustomer, reservation.LoyaltyDiscountApplied,
		reservation.CreatedAt, reservation.UpdatedAt,
	).Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("%w: creating reservation: %v", ErrDatabaseError, err)
	}
	return reservation, nil
}

func (r *reservationRepository) GetReservationByID(id int64) (*models.Reservation, error) {
	query := "SELECT " + selectReservationFields + " FROM reservations r WHERE r.id = $1"
	reservation, _, err := scanReservationRow(r.db.QueryRow(query, id), false)
	return reservation, err
}

func (r *reservationRepository) GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error) {
	reservations := []models.Reservation{}
	var totalCount int

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectReservationFields + ", COUNT(*) OVER() as total_count FROM reservations r")

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.RoomNumber != nil && *filters.RoomNumber != "" {
		conditions = append(conditions, fmt.Sprintf("r.room_number = $%d", argCount))
		args = append(args, *filters.RoomNumber)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.Channel != nil && *filters.Channel != "" {
		conditions = append(conditions, fmt.Sprintf("r.channel = $%d", argCount))
		args = append(args, *filters.Channel)
		argCount++
	}
	if filters.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("r.check_in_date >= $%d", argCount))
		args = append(args, *filters.DateFrom)
		argCount++
	}
	if filters.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("r.check_out_date <= $%d", argCount))
		args = append(args, *filters.DateTo)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY r.check_in_date DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying reservations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		reservation, scannedTotalCount, scanErr := scanReservationRow(rows, true)
		if scanErr != nil {
			return nil, 0, scanErr // Error already wrapped in scanReservationRow
		}
		reservations = append(reservations, *reservation)
		totalCount = scannedTotalCount // total_count is the same for all rows from OVER()
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating reservation rows: %v", ErrDatabaseError, err)
	}
	if len(reservations) == 0 {
		totalCount = 0
	}
	return reservations, totalCount, nil
}

func (r *reservationRepository) UpdateReservation(executor SQLExecutor, reservation *models.Reservation) (*models.Reservation, error) {
	query := `UPDATE reservations SET
	            guest_name = $1, guest_phone = $2, guest_email = $3, room_number = $4, category = $5,
	            check_in_date = $6, check_out_date = $7, status = $8, payment_status = $9,
	            total_amount = $10, amount_paid = $11, late_fee = $12, late_night_fee = $13,
	            food_charges = $14, is_repeat_customer = $15, loyalty_discount_applied = $16,
	            checked_in_at = $17, checked_out_at = $18, updated_at = $19
	          WHERE id = $20
	          RETURNING updated_at`
	reservation.UpdatedAt = time.Now()

	err := executor.QueryRow(query,
		reservation.GuestName, reservation.GuestPhone, reservation.GuestEmail,
		reservation.RoomNumber, reservation.Category,
		reservation.CheckInDate, reservation.CheckOutDate, reservation.Status, reservation.PaymentStatus,
		reservation.TotalAmount, reservation.AmountPaid, reservation.LateFee, reservation.LateNightFee,
		reservation.FoodCharges, reservation.IsRepeatCustomer, reservation.LoyaltyDiscountApplied,
		reservation.CheckedInAt, reservation.CheckedOutAt, reservation.UpdatedAt, reservation.ID,
	).Scan(&reservation.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating reservation ID %d: %v", ErrDatabaseError, reservation.ID, err)
	}
	return reservation, nil
}

func (r *reservationRepository) DeleteReservation(executor SQLExecutor, id int64) error {
	query := `DELETE FROM reservations WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting reservation ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reservationRepository) ListStale(status string, cutoff time.Time) ([]models.Reservation, error) {
	query := "SELECT " + selectReservationFields + ` FROM reservations r
	          WHERE r.status = $1 AND r.check_out_date < $2
	          ORDER BY r.check_out_date ASC`
	rows, err := r.db.Query(query, status, cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: querying stale reservations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	reservations := []models.Reservation{}
	for rows.Next() {
		reservation, _, scanErr := scanReservationRow(rows, false)
		if scanErr != nil {
			return nil, scanErr
		}
		reservations = append(reservations, *reservation)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stale reservations: %v", ErrDatabaseError, err)
	}
	return reservations, nil
}
