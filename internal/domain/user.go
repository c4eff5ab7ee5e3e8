package domain

import "time"

// User represents a registered customer account
type User struct {
	ID           int64     `json:"user_id" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     *string   `json:"full_name" db:"full_name"`
	Phone        *string   `json:"phone" db:"phone"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserUpdate carries the fields of a partial user update.
// A nil field means "leave unchanged".
type UserUpdate struct {
	Email    *string
	FullName *string
	Phone    *string
}

// IsEmpty reports whether no field is set
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.FullName == nil && u.Phone == nil
}
