package service

import (
	"context"
	"fmt"

	"shopline/internal/domain"
	"shopline/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing
const BcryptCost = 10

// UserService defines the interface for user business logic. Passwords
// are hashed here before they reach the repository; plaintext is never
// stored.
type UserService interface {
	Register(ctx context.Context, user *domain.User, password string) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id int64, update domain.UserUpdate) (int64, error)
	ChangePassword(ctx context.Context, id int64, newPassword string) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Register creates a new user account with a hashed password and
// returns the new user id
func (s *userService) Register(ctx context.Context, user *domain.User, password string) (int64, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetByID retrieves a user by id
func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// GetByUsername retrieves a user by username
func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.FindByUsername(ctx, username)
}

// GetByEmail retrieves a user by email
func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindByEmail(ctx, email)
}

// List retrieves all users, newest first
func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

// Update applies a partial update and returns the affected-row count
func (s *userService) Update(ctx context.Context, id int64, update domain.UserUpdate) (int64, error) {
	return s.userRepo.Update(ctx, id, update)
}

// ChangePassword hashes and stores a new password
func (s *userService) ChangePassword(ctx context.Context, id int64, newPassword string) (int64, error) {
	hash, err := hashPassword(newPassword)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, id, hash)
}

// Delete removes a user by id
func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.userRepo.Delete(ctx, id)
}

func hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}
