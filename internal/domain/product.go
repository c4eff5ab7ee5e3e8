package domain

import "time"

// Product represents a product in the catalog. CategoryName is
// denormalized from the categories table on read paths.
type Product struct {
	ID            int64     `json:"product_id" db:"product_id"`
	Name          string    `json:"product_name" db:"product_name"`
	Description   *string   `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"`
	StockQuantity int       `json:"stock_quantity" db:"stock_quantity"`
	CategoryID    int64     `json:"category_id" db:"category_id"`
	CategoryName  *string   `json:"category_name,omitempty" db:"category_name"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ProductUpdate carries the fields of a partial product update
type ProductUpdate struct {
	Name          *string
	Description   *string
	Price         *float64
	StockQuantity *int
	CategoryID    *int64
}

// IsEmpty reports whether no field is set
func (p ProductUpdate) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.StockQuantity == nil && p.CategoryID == nil
}
