package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopline/internal/domain"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderBadReference = errors.New("order references a missing user or product")
)

// orderSelect joins the owning user's display fields into every order
// read
const orderSelect = `
	SELECT o.order_id, o.user_id, o.total_amount, o.status, o.shipping_address,
	       o.order_date, u.username, u.full_name
	FROM orders o
	LEFT JOIN users u ON o.user_id = u.user_id
`

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	CreateWithItems(ctx context.Context, order *domain.Order, items []domain.NewOrderItem) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository. It
// takes the pool directly because order creation spans multiple
// statements in one transaction.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithItems inserts the order row and all of its item rows in a
// single transaction. On any failure the whole transaction is rolled
// back; no partial order is ever visible.
func (r *orderRepository) CreateWithItems(ctx context.Context, order *domain.Order, items []domain.NewOrderItem) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// No-op after a successful commit
	defer tx.Rollback()

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, total_amount, status, shipping_address)
		VALUES ($1, $2, $3, $4)
		RETURNING order_id
	`, order.UserID, order.TotalAmount, order.Status, order.ShippingAddress).Scan(&orderID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrOrderBadReference
		}
		return 0, fmt.Errorf("failed to create order: %w", err)
	}

	itemRepo := NewOrderItemRepository(tx)
	for _, item := range items {
		if _, err := itemRepo.Create(ctx, orderID, item); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit order: %w", err)
	}

	return orderID, nil
}

// FindByID retrieves an order by id with the owning user's name
func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := orderSelect + `WHERE o.order_id = $1`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.UserID,
		&order.TotalAmount,
		&order.Status,
		&order.ShippingAddress,
		&order.OrderDate,
		&order.Username,
		&order.FullName,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	return order, nil
}

// List retrieves all orders, newest first
func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.query(ctx, orderSelect+`ORDER BY o.order_date DESC`)
}

// ListByUser retrieves one user's orders, newest first
func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	query := orderSelect + `WHERE o.user_id = $1 ORDER BY o.order_date DESC`
	return r.query(ctx, query, userID)
}

func (r *orderRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order := &domain.Order{}
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.TotalAmount,
			&order.Status,
			&order.ShippingAddress,
			&order.OrderDate,
			&order.Username,
			&order.FullName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus overwrites the order status
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status string) (int64, error) {
	query := `UPDATE orders SET status = $1 WHERE order_id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update order status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return 0, ErrOrderNotFound
	}

	return affected, nil
}

// Delete removes an order; its items are removed by the cascade
func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM orders WHERE order_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
