package repositories

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"veridian_haveli_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReservationRepoWithMock(t *testing.T) (ReservationRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReservationRepository(db), mock, db
}

var reservationColumns = []string{
	"id", "reference_code", "guest_name", "guest_phone", "guest_email",
	"room_number", "category", "channel", "check_in_date", "check_out_date",
	"status", "payment_status", "total_amount", "amount_paid",
	"late_fee", "late_night_fee", "food_charges",
	"is_repeat_customer", "loyalty_discount_applied",
	"checked_in_at", "checked_out_at", "created_at", "updated_at",
}

func reservationRow(id int64, status string, checkOut time.Time) []driverValue {
	now := time.Now()
	return []driverValue{
		id, "ref-abc", "Meera Nair", nil, nil,
		"101", "Single", "Offline", checkOut.AddDate(0, 0, -2), checkOut,
		status, "Pending", 47500.0, 0.0,
		0.0, 0.0, 0.0,
		true, true,
		nil, nil, now, now,
	}
}

type driverValue = driver.Value

func TestReservationRepository_GetReservationByID(t *testing.T) {
	repo, mock, _ := newReservationRepoWithMock(t)
	checkOut := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows(reservationColumns).
			AddRow(reservationRow(1, "Booked", checkOut)...)
		mock.ExpectQuery(`SELECT (.+) FROM reservations r WHERE r\.id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(rows)

		res, err := repo.GetReservationByID(1)
		require.NoError(t, err)
		assert.Equal(t, "Meera Nair", res.GuestName)
		assert.Equal(t, "Offline", res.Channel)
		assert.True(t, res.LoyaltyDiscountApplied)
		assert.Nil(t, res.CheckedInAt)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM reservations r WHERE r\.id = \$1`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(reservationColumns))

		_, err := repo.GetReservationByID(99)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestReservationRepository_GetReservations_FiltersAndCount(t *testing.T) {
	repo, mock, _ := newReservationRepoWithMock(t)
	checkOut := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	columns := append(append([]string{}, reservationColumns...), "total_count")
	rows := sqlmock.NewRows(columns).
		AddRow(append(reservationRow(1, "Booked", checkOut), 5)...)

	roomNumber := "101"
	status := "Booked"
	mock.ExpectQuery(`SELECT (.+), COUNT\(\*\) OVER\(\) as total_count FROM reservations r WHERE r\.room_number = \$1 AND r\.status = \$2 ORDER BY r\.check_in_date DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(roomNumber, status, 10, 0).
		WillReturnRows(rows)

	reservations, totalCount, err := repo.GetReservations(models.ReservationFilters{
		RoomNumber: &roomNumber,
		Status:     &status,
		Page:       1,
		PageSize:   10,
	})
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, 5, totalCount)
	assert.Equal(t, "101", reservations[0].RoomNumber)
}

func TestReservationRepository_GetReservations_EmptyResult(t *testing.T) {
	repo, mock, _ := newReservationRepoWithMock(t)

	columns := append(append([]string{}, reservationColumns...), "total_count")
	mock.ExpectQuery(`SELECT (.+) FROM reservations r`).
		WillReturnRows(sqlmock.NewRows(columns))

	reservations, totalCount, err := repo.GetReservations(models.ReservationFilters{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, reservations)
	assert.Equal(t, 0, totalCount)
}

func TestReservationRepository_ListStale(t *testing.T) {
	repo, mock, _ := newReservationRepoWithMock(t)
	cutoff := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(reservationColumns).
		AddRow(reservationRow(30, "Booked", checkOut)...)
	mock.ExpectQuery(`SELECT (.+) FROM reservations r\s+WHERE r\.status = \$1 AND r\.check_out_date < \$2`).
		WithArgs("Booked", cutoff).
		WillReturnRows(rows)

	stale, err := repo.ListStale("Booked", cutoff)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, int64(30), stale[0].ID)
}

func TestReservationRepository_DeleteReservation(t *testing.T) {
	repo, mock, db := newReservationRepoWithMock(t)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM reservations WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteReservation(db, 1))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM reservations WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeleteReservation(db, 99), ErrNotFound)
	})
}

func TestReservationRepository_CreateReservation_InsideTransaction(t *testing.T) {
	repo, mock, db := newReservationRepoWithMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO reservations`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	created, err := repo.CreateReservation(tx, &models.Reservation{
		ReferenceCode: "ref-xyz",
		GuestName:     "Arjun Mehta",
		RoomNumber:    "101",
		Category:      "Single",
		Channel:       "Offline",
		Status:        "Booked",
		PaymentStatus: "Pending",
		TotalAmount:   47500,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.Equal(t, int64(7), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
