package transport

import (
	"errors"
	"net/http"

	"shopline/internal/domain"
	"shopline/internal/middleware"
	"shopline/internal/repository"
	"shopline/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateUserRequest represents the user registration payload
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

// UpdateUserRequest represents a partial user update payload
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

// ChangePasswordRequest represents the password change payload
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// CreateUserResponse is returned on successful registration
type CreateUserResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
		r.Get("/username/{username}", h.GetByUsername)
		r.Get("/email/{email}", h.GetByEmail)
		r.Put("/{id}", h.Update)
		r.Put("/{id}/password", h.ChangePassword)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles user registration
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := &domain.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
	}

	id, err := h.userService.Register(r.Context(), user, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "user with this username or email already exists")
			return
		}
		h.logger.Error("Failed to create user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.logger.Info("User created", zap.Int64("user_id", id))
	middleware.RespondWithJSON(w, http.StatusCreated, CreateUserResponse{Message: "user created", UserID: id})
}

// GetByID handles fetching one user by id
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		h.respondUserError(w, err, "failed to get user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}

// GetByUsername handles fetching one user by username
func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.userService.GetByUsername(r.Context(), username)
	if err != nil {
		h.respondUserError(w, err, "failed to get user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}

// GetByEmail handles fetching one user by email
func (h *UserHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	user, err := h.userService.GetByEmail(r.Context(), email)
	if err != nil {
		h.respondUserError(w, err, "failed to get user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}

// List handles fetching all users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, users)
}

// Update handles partial user updates
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req UpdateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := domain.UserUpdate{
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
	}
	if update.IsEmpty() {
		middleware.RespondWithError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	affected, err := h.userService.Update(r.Context(), id, update)
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
			return
		}
		h.respondUserError(w, err, "failed to update user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, messageResponse{Message: "user updated", AffectedRows: affected})
}

// ChangePassword handles password changes
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req ChangePasswordRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	affected, err := h.userService.ChangePassword(r.Context(), id, req.NewPassword)
	if err != nil {
		h.respondUserError(w, err, "failed to change password")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, messageResponse{Message: "password changed", AffectedRows: affected})
}

// Delete handles user deletion
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserReferenced) {
			middleware.RespondWithError(w, http.StatusConflict, "user has existing orders")
			return
		}
		h.respondUserError(w, err, "failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) respondUserError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, repository.ErrUserNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}
	h.logger.Error(message, zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, message)
}
