package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"veridian_haveli_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// RoomRepository defines the interface for room-related database operations.
type RoomRepository interface {
	CreateRoom(executor SQLExecutor, room *models.Room) (*models.Room, error)
	GetRoomByNumber(roomNumber string) (*models.Room, error)
	GetRooms(filters models.RoomFilters) ([]models.Room, int, error) // rooms, total count, error
	ListAvailableByCategory(category string) ([]models.Room, error)
	UpdateRoom(executor SQLExecutor, room *models.Room) (*models.Room, error)
	// UpdateRoomStatusGuarded moves a room from an expected status to a new
	// one in a single statement. ErrNotFound means the room either does not
	// exist or is no longer in the expected status.
	UpdateRoomStatusGuarded(executor SQLExecutor, roomNumber, fromStatus, toStatus string) error
	// SetRoomStatus is the admin override: any state to any state, no guard.
	SetRoomStatus(executor SQLExecutor, roomNumber, status string) error
	DeleteRoom(executor SQLExecutor, roomNumber string) error
	CountActiveReservationsForRoom(roomNumber string) (int, error)
}

type roomRepository struct {
	db *sql.DB
}

// NewRoomRepository creates a new instance of RoomRepository.
func NewRoomRepository(db *sql.DB) RoomRepository {
	return &roomRepository{db: db}
}

const selectRoomFields = `id, room_number, category, nightly_price, status, floor, description, created_at, updated_at`

func scanRoom(row scanner) (*models.Room, error) {
	var room models.Room
	var floor, description sql.NullString
	err := row.Scan(
		&room.ID, &room.RoomNumber, &room.Category, &room.NightlyPrice, &room.Status,
		&floor, &description, &room.CreatedAt, &room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning room: %v", ErrDatabaseError, err)
	}
	if floor.Valid {
		room.Floor = &floor.String
	}
	if description.Valid {
		room.Description = &description.String
	}
	return &room, nil
}

func (r *roomRepository) CreateRoom(executor SQLExecutor, room *models.Room) (*models.Room, error) {
	query := `INSERT INTO rooms
	            (room_number, category, nightly_price, status, floor, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id, created_at, updated_at`

	currentTime := time.Now()
	room.CreatedAt = currentTime
	room.UpdatedAt = currentTime
	if room.Status == "" {
		room.Status = string(models.RoomStatusAvailable)
	}

	err := executor.QueryRow(query,
		room.RoomNumber, room.Category, room.NightlyPrice, room.Status,
		room.Floor, room.Description, room.CreatedAt, room.UpdatedAt,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, fmt.Errorf("%w (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: creating room: %v", ErrDatabaseError, err)
	}
	return room, nil
}

func (r *roomRepository) GetRoomByNumber(roomNumber string) (*models.Room, error) {
	query := "SELECT " + selectRoomFields + " FROM rooms WHERE room_number = $1"
	return scanRoom(r.db.QueryRow(query, roomNumber))
}

func (r *roomRepository) GetRooms(filters models.RoomFilters) ([]models.Room, int, error) {
	rooms := []models.Room{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectRoomFields + ", COUNT(*) OVER() as total_count FROM rooms")

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Category != nil && *filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(category) LIKE '%%' || LOWER($%d) || '%%'", argCount))
		args = append(args, *filters.Category)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY room_number ASC")

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
		return nil, 0, fmt.Errorf("%w: querying rooms: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var room models.Room
		var floor, description sql.NullString
		if scanErr := rows.Scan(
			&room.ID, &room.RoomNumber, &room.Category, &room.NightlyPrice, &room.Status,
			&floor, &description, &room.CreatedAt, &room.UpdatedAt, &totalCount,
		); scanErr != nil {
			return nil, 0, fmt.Errorf("%w: scanning room row: %v", ErrDatabaseError, scanErr)
		}
		if floor.Valid {
			room.Floor = &floor.String
		}
		if description.Valid {
			room.Description = &description.String
		}
		rooms = append(rooms, room)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating room rows: %v", ErrDatabaseError, err)
	}
	return rooms, totalCount, nil
}

func (r *roomRepository) ListAvailableByCategory(category string) ([]models.Room, error) {
	query := "SELECT " + selectRoomFields + ` FROM rooms
	          WHERE status = $1 AND LOWER(category) LIKE '%' || LOWER($2) || '%'
	          ORDER BY room_number ASC`
	rows, err := r.db.Query(query, string(models.RoomStatusAvailable), category)
	if err != nil {
		return nil, fmt.Errorf("%w: querying available rooms: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	rooms := []models.Room{}
	for rows.Next() {
		var room models.Room
		var floor, description sql.NullString
		if scanErr := rows.Scan(
			&room.ID, &room.RoomNumber, &room.Category, &room.NightlyPrice, &room.Status,
			&floor, &description, &room.CreatedAt, &room.UpdatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("%w: scanning available room: %v", ErrDatabaseError, scanErr)
		}
		if floor.Valid {
			room.Floor = &floor.String
		}
		if description.Valid {
			room.Description = &description.String
		}
		rooms = append(rooms, room)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating available rooms: %v", ErrDatabaseError, err)
	}
	return rooms, nil
}

func (r *roomRepository) UpdateRoom(executor SQLExecutor, room *models.Room) (*models.Room, error) {
	query := `UPDATE rooms SET
	            category = $1, nightly_price = $2, status = $3, floor = $4, description = $5, updated_at = $6
	          WHERE room_number = $7
	          RETURNING updated_at`
	room.UpdatedAt = time.Now()

	err := executor.QueryRow(query,
		room.Category, room.NightlyPrice, room.Status, room.Floor, room.Description,
		room.UpdatedAt, room.RoomNumber,
	).Scan(&room.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating room %s: %v", ErrDatabaseError, room.RoomNumber, err)
	}
	return room, nil
}

func (r *roomRepository) UpdateRoomStatusGuarded(executor SQLExecutor, roomNumber, fromStatus, toStatus string) error {
	query := `UPDATE rooms SET status = $1, updated_at = $2 WHERE room_number = $3 AND status = $4`
	result, err := executor.Exec(query, toStatus, time.Now(), roomNumber, fromStatus)
	if err != nil {
		return fmt.Errorf("%w: updating status of room %s: %v", ErrDatabaseError, roomNumber, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roomRepository) SetRoomStatus(executor SQLExecutor, roomNumber, status string) error {
	query := `UPDATE rooms SET status = $1, updated_at = $2 WHERE room_number = $3`
	result, err := executor.Exec(query, status, time.Now(), roomNumber)
	if err != nil {
		return fmt.Errorf("%w: setting status of room %s: %v", ErrDatabaseError, roomNumber, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roomRepository) DeleteRoom(executor SQLExecutor, roomNumber string) error {
	query := `DELETE FROM rooms WHERE room_number = $1`
	result, err := executor.Exec(query, roomNumber)
	if err != nil {
		return fmt.Errorf("%w: deleting room %s: %v", ErrDatabaseError, roomNumber, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roomRepository) CountActiveReservationsForRoom(roomNumber string) (int, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE room_number = $1 AND status IN ($2, $3)`
	var count int
	err := r.db.QueryRow(query, roomNumber,
		string(models.ReservationStatusBooked), string(models.ReservationStatusCheckedIn),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting active reservations for room %s: %v", ErrDatabaseError, roomNumber, err)
	}
	return count, nil
}
