package domain

import "time"

// Order statuses accepted at the boundary. No transition graph is
// enforced; any accepted status may overwrite any other.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order represents a placed order. Username and FullName are
// denormalized from the users table on read paths. Items is populated
// only by the order-history composition.
type Order struct {
	ID              int64       `json:"order_id" db:"order_id"`
	UserID          int64       `json:"user_id" db:"user_id"`
	TotalAmount     float64     `json:"total_amount" db:"total_amount"`
	Status          string      `json:"status" db:"status"`
	ShippingAddress string      `json:"shipping_address" db:"shipping_address"`
	OrderDate       time.Time   `json:"order_date" db:"order_date"`
	Username        *string     `json:"username,omitempty" db:"username"`
	FullName        *string     `json:"full_name,omitempty" db:"full_name"`
	Items           []*OrderItem `json:"items,omitempty"`
}

// OrderItem represents one line of an order. UnitPrice is captured at
// order time and never re-read from the product. Subtotal is computed
// by the database as quantity * unit_price. ProductName and
// ProductDescription are denormalized from the products table.
type OrderItem struct {
	ID                 int64   `json:"order_item_id" db:"order_item_id"`
	OrderID            int64   `json:"order_id" db:"order_id"`
	ProductID          int64   `json:"product_id" db:"product_id"`
	Quantity           int     `json:"quantity" db:"quantity"`
	UnitPrice          float64 `json:"unit_price" db:"unit_price"`
	Subtotal           float64 `json:"subtotal" db:"subtotal"`
	ProductName        *string `json:"product_name,omitempty" db:"product_name"`
	ProductDescription *string `json:"product_description,omitempty" db:"description"`
}

// NewOrderItem is the caller-supplied input to the place-order flow
type NewOrderItem struct {
	ProductID int64
	Quantity  int
	UnitPrice float64
}
