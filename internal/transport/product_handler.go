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

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Name          string  `json:"product_name" validate:"required,max=200"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	CategoryID    int64   `json:"category_id" validate:"required"`
	Description   *string `json:"description"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
}

// UpdateProductRequest represents a partial product update payload
type UpdateProductRequest struct {
	Name          *string  `json:"product_name" validate:"omitempty,max=200"`
	Price         *float64 `json:"price" validate:"omitempty,gt=0"`
	CategoryID    *int64   `json:"category_id"`
	Description   *string  `json:"description"`
	StockQuantity *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
}

// UpdateStockRequest represents the stock update payload
type UpdateStockRequest struct {
	StockQuantity *int `json:"stock_quantity" validate:"required,gte=0"`
}

// SearchRequest represents the product search payload
type SearchRequest struct {
	Keyword string `json:"keyword" validate:"required"`
}

// CreateProductResponse is returned on successful creation
type CreateProductResponse struct {
	Message   string `json:"message"`
	ProductID int64  `json:"product_id"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productRepo repository.ProductRepository, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productRepo: productRepo,
		logger:      logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Post("/search", h.Search)
		r.Get("/{id}", h.GetByID)
		r.Get("/category/{categoryId}", h.ListByCategory)
		r.Put("/{id}", h.Update)
		r.Put("/{id}/stock", h.UpdateStock)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := &domain.Product{
		Name:          req.Name,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		Description:   req.Description,
		StockQuantity: req.StockQuantity,
	}

	id, err := h.productRepo.Create(r.Context(), product)
	if err != nil {
		if errors.Is(err, repository.ErrProductBadCategory) {
			middleware.RespondWithError(w, http.StatusBadRequest, "category does not exist")
			return
		}
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.Int64("product_id", id))
	middleware.RespondWithJSON(w, http.StatusCreated, CreateProductResponse{Message: "product created", ProductID: id})
}

// GetByID handles fetching one product
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.productRepo.FindByID(r.Context(), id)
	if err != nil {
		h.respondProductError(w, err, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// List handles fetching all products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ListByCategory handles fetching the products of one category
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseID(r, "categoryId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	products, err := h.productRepo.ListByCategory(r.Context(), categoryID)
	if err != nil {
		h.logger.Error("Failed to list products by category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Search handles keyword search over product names and descriptions
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	products, err := h.productRepo.Search(r.Context(), req.Keyword)
	if err != nil {
		h.logger.Error("Failed to search products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to search products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Update handles partial product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := domain.ProductUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
	}
	if update.IsEmpty() {
		middleware.RespondWithError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	affected, err := h.productRepo.Update(r.Context(), id, update)
	if err != nil {
		if errors.Is(err, repository.ErrProductBadCategory) {
			middleware.RespondWithError(w, http.StatusBadRequest, "category does not exist")
			return
		}
		h.respondProductError(w, err, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, messageResponse{Message: "product updated", AffectedRows: affected})
}

// UpdateStock handles absolute stock updates
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req UpdateStockRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	affected, err := h.productRepo.UpdateStock(r.Context(), id, *req.StockQuantity)
	if err != nil {
		h.respondProductError(w, err, "failed to update stock")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, messageResponse{Message: "stock updated", AffectedRows: affected})
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.productRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductReferenced) {
			middleware.RespondWithError(w, http.StatusConflict, "product is referenced by existing orders")
			return
		}
		h.respondProductError(w, err, "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) respondProductError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, repository.ErrProductNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}
	h.logger.Error(message, zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, message)
}
