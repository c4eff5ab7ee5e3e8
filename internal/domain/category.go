package domain

// Category represents a node in the product category tree.
// A nil ParentID marks a root category.
type Category struct {
	ID          int64   `json:"category_id" db:"category_id"`
	Name        string  `json:"category_name" db:"category_name"`
	ParentID    *int64  `json:"parent_id" db:"parent_id"`
	Description *string `json:"description" db:"description"`
}

// CategoryUpdate carries the fields of a partial category update
type CategoryUpdate struct {
	Name        *string
	ParentID    *int64
	Description *string
}

// IsEmpty reports whether no field is set
func (c CategoryUpdate) IsEmpty() bool {
	return c.Name == nil && c.ParentID == nil && c.Description == nil
}
