package repository

import (
	"context"
	"errors"
	"fmt"

	"shopline/internal/domain"
)

var ErrOrderItemNotFound = errors.New("order item not found")

// OrderItemRepository defines the interface for order item data access
type OrderItemRepository interface {
	Create(ctx context.Context, orderID int64, item domain.NewOrderItem) (int64, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*domain.OrderItem, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int) (int64, error)
	Delete(ctx context.Context, id int64) error
	TotalAmount(ctx context.Context, orderID int64) (float64, error)
}

type orderItemRepository struct {
	db DBTX
}

// NewOrderItemRepository creates a new instance of OrderItemRepository.
// Passing a *sql.Tx runs every statement inside that transaction.
func NewOrderItemRepository(db DBTX) OrderItemRepository {
	return &orderItemRepository{db: db}
}

// Create inserts one order item and returns the assigned id
func (r *orderItemRepository) Create(ctx context.Context, orderID int64, item domain.NewOrderItem) (int64, error) {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING order_item_id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, orderID, item.ProductID, item.Quantity, item.UnitPrice).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrOrderBadReference
		}
		return 0, fmt.Errorf("failed to create order item: %w", err)
	}

	return id, nil
}

// ListByOrder retrieves the items of one order with the product's
// display fields joined in
func (r *orderItemRepository) ListByOrder(ctx context.Context, orderID int64) ([]*domain.OrderItem, error) {
	query := `
		SELECT oi.order_item_id, oi.order_id, oi.product_id, oi.quantity,
		       oi.unit_price, oi.subtotal, p.product_name, p.description
		FROM order_items oi
		LEFT JOIN products p ON oi.product_id = p.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.order_item_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	items := []*domain.OrderItem{}
	for rows.Next() {
		item := &domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
			&item.ProductName,
			&item.ProductDescription,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// UpdateQuantity changes the quantity of one item; the database
// recomputes the subtotal
func (r *orderItemRepository) UpdateQuantity(ctx context.Context, id int64, quantity int) (int64, error) {
	query := `UPDATE order_items SET quantity = $1 WHERE order_item_id = $2`

	result, err := r.db.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update order item quantity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return 0, ErrOrderItemNotFound
	}

	return affected, nil
}

// Delete removes one order item
func (r *orderItemRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM order_items WHERE order_item_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete order item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrOrderItemNotFound
	}

	return nil
}

// TotalAmount sums the item subtotals of one order. An order without
// items totals zero.
func (r *orderItemRepository) TotalAmount(ctx context.Context, orderID int64) (float64, error) {
	query := `SELECT COALESCE(SUM(subtotal), 0) FROM order_items WHERE order_id = $1`

	var total float64
	if err := r.db.QueryRowContext(ctx, query, orderID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to compute order total: %w", err)
	}

	return total, nil
}
