package repositories

import (
	"database/sql"
	"testing"
	"time"

	"veridian_haveli_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoomRepoWithMock(t *testing.T) (RoomRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRoomRepository(db), mock, db
}

func roomRows(t time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "room_number", "category", "nightly_price", "status", "floor", "description", "created_at", "updated_at",
	}).AddRow(1, "101", "Single", 25000.0, "Available", "1", nil, t, t)
}

func TestRoomRepository_GetRoomByNumber(t *testing.T) {
	repo, mock, _ := newRoomRepoWithMock(t)
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rooms WHERE room_number = \$1`).
			WithArgs("101").
			WillReturnRows(roomRows(now))

		room, err := repo.GetRoomByNumber("101")
		require.NoError(t, err)
		assert.Equal(t, "101", room.RoomNumber)
		assert.Equal(t, 25000.0, room.NightlyPrice)
		require.NotNil(t, room.Floor)
		assert.Equal(t, "1", *room.Floor)
		assert.Nil(t, room.Description)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM rooms WHERE room_number = \$1`).
			WithArgs("999").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetRoomByNumber("999")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRoomRepository_CreateRoom(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mock, db := newRoomRepoWithMock(t)
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO rooms`).
			WithArgs("101", "Single", 25000.0, "Available", nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))

		room, err := repo.CreateRoom(db, &models.Room{
			RoomNumber: "101", Category: "Single", NightlyPrice: 25000, Status: "Available",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), room.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateRoomNumber", func(t *testing.T) {
		repo, mock, db := newRoomRepoWithMock(t)

		mock.ExpectQuery(`INSERT INTO rooms`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "rooms_room_number_key"})

		_, err := repo.CreateRoom(db, &models.Room{
			RoomNumber: "101", Category: "Single", NightlyPrice: 25000,
		})
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})
}

func TestRoomRepository_UpdateRoomStatusGuarded(t *testing.T) {
	t.Run("GuardHolds", func(t *testing.T) {
		repo, mock, db := newRoomRepoWithMock(t)

		mock.ExpectExec(`UPDATE rooms SET status = \$1, updated_at = \$2 WHERE room_number = \$3 AND status = \$4`).
			WithArgs("Booked", sqlmock.AnyArg(), "101", "Available").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateRoomStatusGuarded(db, "101", "Available", "Booked")
		assert.NoError(t, err)
	})

	t.Run("GuardFailsWhenStatusChanged", func(t *testing.T) {
		repo, mock, db := newRoomRepoWithMock(t)

		// Someone else already booked the room: zero rows match the guard.
		mock.ExpectExec(`UPDATE rooms SET status = \$1, updated_at = \$2 WHERE room_number = \$3 AND status = \$4`).
			WithArgs("Booked", sqlmock.AnyArg(), "101", "Available").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateRoomStatusGuarded(db, "101", "Available", "Booked")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRoomRepository_ListAvailableByCategory(t *testing.T) {
	repo, mock, _ := newRoomRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM rooms\s+WHERE status = \$1 AND LOWER\(category\) LIKE`).
		WithArgs("Available", "Single").
		WillReturnRows(roomRows(now))

	rooms, err := repo.ListAvailableByCategory("Single")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "101", rooms[0].RoomNumber)
}

func TestRoomRepository_CountActiveReservationsForRoom(t *testing.T) {
	repo, mock, _ := newRoomRepoWithMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations WHERE room_number = \$1 AND status IN \(\$2, \$3\)`).
		WithArgs("101", "Booked", "CheckedIn").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountActiveReservationsForRoom("101")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
