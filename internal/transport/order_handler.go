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

// OrderItemRequest represents one line of the place-order payload
type OrderItemRequest struct {
	ProductID int64   `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"required,gt=0"`
}

// CreateOrderRequest represents the place-order payload
type CreateOrderRequest struct {
	UserID          int64              `json:"user_id" validate:"required"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string             `json:"shipping_address" validate:"required"`
}

// UpdateOrderStatusRequest represents the status update payload
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid shipped delivered cancelled"`
}

// CreateOrderResponse is returned on successful order placement
type CreateOrderResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
}

// OrderTotalResponse is returned by the order total endpoint
type OrderTotalResponse struct {
	OrderID     int64   `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
		r.Get("/user/{userId}", h.ListByUser)
		r.Get("/user/{userId}/history", h.History)
		r.Get("/{id}/items", h.GetItems)
		r.Get("/{id}/total", h.GetTotal)
		r.Put("/{id}/status", h.UpdateStatus)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles the place-order flow
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]domain.NewOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.NewOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	id, err := h.orderService.PlaceOrder(r.Context(), req.UserID, items, req.ShippingAddress)
	if err != nil {
		if errors.Is(err, service.ErrEmptyOrder) {
			middleware.RespondWithError(w, http.StatusBadRequest, "order must contain at least one item")
			return
		}
		if errors.Is(err, repository.ErrOrderBadReference) {
			middleware.RespondWithError(w, http.StatusBadRequest, "order references a missing user or product")
			return
		}
		h.logger.Error("Failed to place order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		return
	}

	h.logger.Info("Order placed", zap.Int64("order_id", id), zap.Int64("user_id", req.UserID))
	middleware.RespondWithJSON(w, http.StatusCreated, CreateOrderResponse{Message: "order created", OrderID: id})
}

// GetByID handles fetching one order
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		h.respondOrderError(w, err, "failed to get order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// List handles fetching all orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// ListByUser handles fetching one user's orders
func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "userId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	orders, err := h.orderService.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list orders by user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// History handles fetching one user's orders with their items attached
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "userId")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	orders, err := h.orderService.OrderHistory(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get order history", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order history")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// GetItems handles fetching the items of one order
func (h *OrderHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	items, err := h.orderService.GetItems(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get order items", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order items")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// GetTotal handles recomputing one order's total from its items
func (h *OrderHandler) GetTotal(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	total, err := h.orderService.GetTotal(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get order total", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order total")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrderTotalResponse{OrderID: id, TotalAmount: total})
}

// UpdateStatus handles order status updates
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	affected, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.respondOrderError(w, err, "failed to update order status")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, messageResponse{Message: "order status updated", AffectedRows: affected})
}

// Delete handles order deletion; items are removed by the cascade
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.orderService.Delete(r.Context(), id); err != nil {
		h.respondOrderError(w, err, "failed to delete order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) respondOrderError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, repository.ErrOrderNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		return
	}
	h.logger.Error(message, zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, message)
}
