package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shopline/internal/domain"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this username or email already exists")
	ErrUserReferenced    = errors.New("user is referenced by existing orders")
)

// userUpdateColumns is the fixed allow-list for partial user updates
var userUpdateColumns = []string{"email", "full_name", "phone"}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id int64, update domain.UserUpdate) (int64, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db DBTX
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user and returns the assigned id
func (r *userRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	query := `
		INSERT INTO users (username, email, password_hash, full_name, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id
	`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Phone,
	).Scan(&id)

	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUserAlreadyExists
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	return id, nil
}

// FindByID retrieves a user by id
func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, "user_id = $1", id)
}

// FindByUsername retrieves a user by username
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = $1", username)
}

// FindByEmail retrieves a user by email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = $1", email)
}

func (r *userRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `
		SELECT user_id, username, email, password_hash, full_name, phone, created_at
		FROM users
		WHERE ` + where

	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Phone,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// List retrieves all users, newest first
func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT user_id, username, email, password_hash, full_name, phone, created_at
		FROM users
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user := &domain.User{}
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.FullName,
			&user.Phone,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// Update applies a partial update and returns the affected-row count.
// An empty update is a no-op and never reaches the database.
func (r *userRepository) Update(ctx context.Context, id int64, update domain.UserUpdate) (int64, error) {
	if update.IsEmpty() {
		return 0, nil
	}

	builder := newUpdateBuilder(userUpdateColumns...)
	if update.Email != nil {
		builder.Set("email", *update.Email)
	}
	if update.FullName != nil {
		builder.Set("full_name", *update.FullName)
	}
	if update.Phone != nil {
		builder.Set("phone", *update.Phone)
	}

	query, args, err := builder.Build("users", "user_id", id)
	if err != nil {
		return 0, fmt.Errorf("failed to build user update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUserAlreadyExists
		}
		return 0, fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return 0, ErrUserNotFound
	}

	return affected, nil
}

// UpdatePassword replaces the stored password hash
func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) (int64, error) {
	query := `UPDATE users SET password_hash = $1 WHERE user_id = $2`

	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update password: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return 0, ErrUserNotFound
	}

	return affected, nil
}

// Delete removes a user. Deletion is blocked while orders reference
// the user.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserReferenced
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}
