package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"veridian_haveli_backend/internal/models"
)

// OrderRepository defines the interface for room-service order database operations.
type OrderRepository interface {
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error) // orders, total count, error
	// GetOrdersForStay returns orders for a room whose order time falls inside
	// the half-open window [from, to). A nil "to" means the stay is still open.
	GetOrdersForStay(roomNumber string, from time.Time, to *time.Time) ([]models.Order, error)
	DeleteOrder(executor SQLExecutor, orderID int64) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const selectOrderFields = `id, room_number, item_name, quantity, amount, notes, order_time, created_at, updated_at`

func scanOrder(row scanner, dest *models.Order, totalCount *int) error {
	var notes sql.NullString
	scanDest := []interface{}{
		&dest.ID, &dest.RoomNumber, &dest.ItemName, &dest.Quantity, &dest.Amount,
		&notes, &dest.OrderTime, &dest.CreatedAt, &dest.UpdatedAt,
	}
	if totalCount != nil {
		scanDest = append(scanDest, totalCount)
	}
	if err := row.Scan(scanDest...); err != nil {
		return err
	}
	if notes.Valid {
		dest.Notes = &notes.String
	}
	return nil
}

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO room_orders
	            (room_number, item_name, quantity, amount, notes, order_time, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	if order.OrderTime.IsZero() {
		order.OrderTime = time.Now()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		order.RoomNumber, order.ItemName, order.Quantity, order.Amount, order.Notes,
		order.OrderTime, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)

	if err != nil {
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrderByID(orderID int64) (*models.Order, error) {
	order := &models.Order{}
	query := "SELECT " + selectOrderFields + " FROM room_orders WHERE id = $1"
	err := scanOrder(r.db.QueryRow(query, orderID), order, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectOrderFields + ", COUNT(*) OVER() as total_count FROM room_orders")

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.RoomNumber != nil && *filters.RoomNumber != "" {
		conditions = append(conditions, fmt.Sprintf("room_number = $%d", argCounter))
		args = append(args, *filters.RoomNumber)
		argCounter++
	}
	if filters.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("order_time >= $%d", argCounter))
		args = append(args, *filters.DateFrom)
		argCounter++
	}
	if filters.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("order_time <= $%d", argCounter))
		args = append(args, *filters.DateTo)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY order_time DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var order models.Order
		if scanErr := scanOrder(rows, &order, &totalCount); scanErr != nil {
			return nil, 0, fmt.Errorf("%w: scanning order row: %v", ErrDatabaseError, scanErr)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) GetOrdersForStay(roomNumber string, from time.Time, to *time.Time) ([]models.Order, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectOrderFields + " FROM room_orders WHERE room_number = $1 AND order_time >= $2")
	args := []interface{}{roomNumber, from}
	if to != nil {
		queryBuilder.WriteString(" AND order_time < $3")
		args = append(args, *to)
	}
	queryBuilder.WriteString(" ORDER BY order_time ASC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying orders for room %s stay: %v", ErrDatabaseError, roomNumber, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var order models.Order
		if scanErr := scanOrder(rows, &order, nil); scanErr != nil {
			return nil, fmt.Errorf("%w: scanning stay order: %v", ErrDatabaseError, scanErr)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stay orders: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

func (r *orderRepository) DeleteOrder(executor SQLExecutor, orderID int64) error {
	query := `DELETE FROM room_orders WHERE id = $1`
	result, err := executor.Exec(query, orderID)
	if err != nil {
		return fmt.Errorf("%w: deleting order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
