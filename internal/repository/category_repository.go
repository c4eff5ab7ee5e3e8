package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopline/internal/domain"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryReferenced = errors.New("category is referenced by products or subcategories")
	ErrCategoryBadParent  = errors.New("parent category does not exist")
)

// categoryUpdateColumns is the fixed allow-list for partial category updates
var categoryUpdateColumns = []string{"category_name", "parent_id", "description"}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	ListRoot(ctx context.Context) ([]*domain.Category, error)
	ListChildren(ctx context.Context, parentID int64) ([]*domain.Category, error)
	Update(ctx context.Context, id int64, update domain.CategoryUpdate) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type categoryRepository struct {
	db DBTX
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db DBTX) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create inserts a new category and returns the assigned id
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) (int64, error) {
	query := `
		INSERT INTO categories (category_name, parent_id, description)
		VALUES ($1, $2, $3)
		RETURNING category_id
	`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		query,
		category.Name,
		category.ParentID,
		category.Description,
	).Scan(&id)

	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrCategoryBadParent
		}
		return 0, fmt.Errorf("failed to create category: %w", err)
	}

	return id, nil
}

// FindByID retrieves a category by id
func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `
		SELECT category_id, category_name, parent_id, description
		FROM categories
		WHERE category_id = $1
	`

	category := &domain.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.ParentID,
		&category.Description,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// List retrieves all categories ordered by name
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	return r.list(ctx, "", nil)
}

// ListRoot retrieves categories without a parent
func (r *categoryRepository) ListRoot(ctx context.Context) ([]*domain.Category, error) {
	return r.list(ctx, "WHERE parent_id IS NULL", nil)
}

// ListChildren retrieves the direct subcategories of a parent
func (r *categoryRepository) ListChildren(ctx context.Context, parentID int64) ([]*domain.Category, error) {
	return r.list(ctx, "WHERE parent_id = $1", []any{parentID})
}

func (r *categoryRepository) list(ctx context.Context, where string, args []any) ([]*domain.Category, error) {
	query := fmt.Sprintf(`
		SELECT category_id, category_name, parent_id, description
		FROM categories
		%s
		ORDER BY category_name ASC
	`, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category := &domain.Category{}
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.ParentID,
			&category.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Update applies a partial update and returns the affected-row count.
// An empty update is a no-op and never reaches the database.
func (r *categoryRepository) Update(ctx context.Context, id int64, update domain.CategoryUpdate) (int64, error) {
	if update.IsEmpty() {
		return 0, nil
	}

	builder := newUpdateBuilder(categoryUpdateColumns...)
	if update.Name != nil {
		builder.Set("category_name", *update.Name)
	}
	if update.ParentID != nil {
		builder.Set("parent_id", *update.ParentID)
	}
	if update.Description != nil {
		builder.Set("description", *update.Description)
	}

	query, args, err := builder.Build("categories", "category_id", id)
	if err != nil {
		return 0, fmt.Errorf("failed to build category update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrCategoryBadParent
		}
		return 0, fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return 0, ErrCategoryNotFound
	}

	return affected, nil
}

// Delete removes a category. Deletion is blocked while products or
// subcategories reference it.
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM categories WHERE category_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCategoryReferenced
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
