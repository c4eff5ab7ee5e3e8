package transport

import (
	"errors"
	"net/http"

	"shopline/internal/domain"
	"shopline/internal/middleware"
	"shopline/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Name        string  `json:"category_name" validate:"required,max=100"`
	ParentID    *int64  `json:"parent_id"`
	Description *string `json:"description"`
}

// UpdateCategoryRequest represents a partial category update payload
type UpdateCategoryRequest struct {
	Name        *string `json:"category_name" validate:"omitempty,max=100"`
	ParentID    *int64  `json:"parent_id"`
	Description *string `json:"description"`
}

// CreateCategoryResponse is returned on successful creation
type CreateCategoryResponse struct {
	Message    string `json:"message"`
	CategoryID int64  `json:"category_id"`
}

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryRepo repository.CategoryRepository, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/root", h.ListRoot)
		r.Get("/{id}", h.GetByID)
		r.Get("/{parentId}/children", h.ListChildren)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles category creation
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category := &domain.Category{
		Name:        req.Name,
		ParentID:    req.ParentID,
		Description: req.Description,
	}

	id, err := h.categoryRepo.Create(r.Context(), category)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryBadParent) {
			middleware.RespondWithError(w, http.StatusBadRequest, "parent category does not exist")
			return
		}
		h.logger.Error("Failed to create category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	h.logger.Info("Category created", zap.Int64("category_id", id))
	middleware.RespondWithJSON(w, http.StatusCreated, CreateCategoryResponse{Message: "category created", CategoryID: id})
}

// GetByID handles fetching one category
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := h.categoryRepo.FindByID(r.Context(), id)
	if err != nil {
		h.respondCategoryError(w, err, "failed to get category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// List handles fetching all categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// ListRoot handles fetching the top-level categories
func (h *CategoryHandler) ListRoot(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.ListRoot(r.Context())
	if err != nil {
		h.logger.Error("Failed to list root categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list root categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// ListChildren handles fetching the subcategories of a parent
func (h *CategoryHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	parentID, err := parseID(r, "parentId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid parent category id")
		return
	}

	categories, err := h.categoryRepo.ListChildren(r.Context(), parentID)
	if err != nil {
		h.logger.Error("Failed to list subcategories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list subcategories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// Update handles partial category updates
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req UpdateCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := domain.CategoryUpdate{
		Name:        req.Name,
		ParentID:    req.ParentID,
		Description: req.Description,
	}
	if update.IsEmpty() {
		middleware.RespondWithError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	affected, err := h.categoryRepo.Update(r.Context(), id, update)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryBadParent) {
			middleware.RespondWithError(w, http.StatusBadRequest, "parent category does not exist")
			return
		}
		h.respondCategoryError(w, err, "failed to update category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, messageResponse{Message: "category updated", AffectedRows: affected})
}

// Delete handles category deletion
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.categoryRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrCategoryReferenced) {
			middleware.RespondWithError(w, http.StatusConflict, "category is still referenced")
			return
		}
		h.respondCategoryError(w, err, "failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) respondCategoryError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, repository.ErrCategoryNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		return
	}
	h.logger.Error(message, zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, message)
}
