package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopline/internal/domain"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductReferenced  = errors.New("product is referenced by existing order items")
	ErrProductBadCategory = errors.New("product category does not exist")
)

// productUpdateColumns is the fixed allow-list for partial product updates
var productUpdateColumns = []string{"product_name", "description", "price", "stock_quantity", "category_id"}

// productSelect joins the category display name into every product read
// so callers do not need a second round trip.
const productSelect = `
	SELECT p.product_id, p.product_name, p.description, p.price, p.stock_quantity,
	       p.category_id, c.category_name, p.created_at
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.category_id
`

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error)
	Search(ctx context.Context, keyword string) ([]*domain.Product, error)
	Update(ctx context.Context, id int64, update domain.ProductUpdate) (int64, error)
	UpdateStock(ctx context.Context, id int64, quantity int) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type productRepository struct {
	db DBTX
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product and returns the assigned id
func (r *productRepository) Create(ctx context.Context, product *domain.Product) (int64, error) {
	query := `
		INSERT INTO products (product_name, description, price, stock_quantity, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING product_id
	`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Price,
		product.StockQuantity,
		product.CategoryID,
	).Scan(&id)

	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrProductBadCategory
		}
		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	return id, nil
}

// FindByID retrieves a product by id with its category name
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := productSelect + `WHERE p.product_id = $1`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.StockQuantity,
		&product.CategoryID,
		&product.CategoryName,
		&product.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves all products, newest first
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.query(ctx, productSelect+`ORDER BY p.created_at DESC`)
}

// ListByCategory retrieves the products of one category ordered by name
func (r *productRepository) ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	query := productSelect + `WHERE p.category_id = $1 ORDER BY p.product_name ASC`
	return r.query(ctx, query, categoryID)
}

// Search retrieves products whose name or description contains the
// keyword, case-insensitively
func (r *productRepository) Search(ctx context.Context, keyword string) ([]*domain.Product, error) {
	query := productSelect + `
		WHERE p.product_name ILIKE $1 OR p.description ILIKE $1
		ORDER BY p.product_name ASC
	`
	return r.query(ctx, query, "%"+keyword+"%")
}

func (r *productRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.StockQuantity,
			&product.CategoryID,
			&product.CategoryName,
			&product.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Update applies a partial update and returns the affected-row count.
// An empty update is a no-op and never reaches the database.
func (r *productRepository) Update(ctx context.Context, id int64, update domain.ProductUpdate) (int64, error) {
	if update.IsEmpty() {
		return 0, nil
	}

	builder := newUpdateBuilder(productUpdateColumns...)
	if update.Name != nil {
		builder.Set("product_name", *update.Name)
	}
	if update.Description != nil {
		builder.Set("description", *update.Description)
	}
	if update.Price != nil {
		builder.Set("price", *update.Price)
	}
	if update.StockQuantity != nil {
		builder.Set("stock_quantity", *update.StockQuantity)
	}
	if update.CategoryID != nil {
		builder.Set("category_id", *update.CategoryID)
	}

	query, args, err := builder.Build("products", "product_id", id)
	if err != nil {
		return 0, fmt.Errorf("failed to build product update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrProductBadCategory
		}
		return 0, fmt.Errorf("failed to update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return 0, ErrProductNotFound
	}

	return affected, nil
}

// UpdateStock sets the absolute stock quantity of a product
func (r *productRepository) UpdateStock(ctx context.Context, id int64, quantity int) (int64, error) {
	query := `UPDATE products SET stock_quantity = $1 WHERE product_id = $2`

	result, err := r.db.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update stock: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return 0, ErrProductNotFound
	}

	return affected, nil
}

// Delete removes a product. Deletion is blocked while order items
// reference it.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE product_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrProductReferenced
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	return nil
}
