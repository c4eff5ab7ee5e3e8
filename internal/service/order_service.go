package service

import (
	"context"
	"errors"

	"shopline/internal/domain"
	"shopline/internal/repository"
)

var ErrEmptyOrder = errors.New("order must contain at least one item")

// OrderService composes the order and order-item repositories into the
// place-order workflow and the order-history read composition.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID int64, items []domain.NewOrderItem, shippingAddress string) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	OrderHistory(ctx context.Context, userID int64) ([]*domain.Order, error)
	GetItems(ctx context.Context, orderID int64) ([]*domain.OrderItem, error)
	GetTotal(ctx context.Context, orderID int64) (float64, error)
	UpdateStatus(ctx context.Context, id int64, status string) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	itemRepo  repository.OrderItemRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, itemRepo repository.OrderItemRepository) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
	}
}

// PlaceOrder creates an order and its items atomically. The total is
// computed from the caller-supplied unit prices, a deliberate
// point-in-time price lock; current product prices are not re-read.
// Empty orders are rejected. Stock quantities are not decremented here.
func (s *orderService) PlaceOrder(ctx context.Context, userID int64, items []domain.NewOrderItem, shippingAddress string) (int64, error) {
	if len(items) == 0 {
		return 0, ErrEmptyOrder
	}

	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.UnitPrice
	}

	order := &domain.Order{
		UserID:          userID,
		TotalAmount:     total,
		Status:          domain.OrderStatusPending,
		ShippingAddress: shippingAddress,
	}

	return s.orderRepo.CreateWithItems(ctx, order, items)
}

// GetByID retrieves an order by id
func (s *orderService) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// List retrieves all orders, newest first
func (s *orderService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.List(ctx)
}

// ListByUser retrieves one user's orders, newest first
func (s *orderService) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// OrderHistory retrieves one user's orders with their items attached.
// One items query runs per order; acceptable at this system's scale.
func (s *orderService) OrderHistory(ctx context.Context, userID int64) ([]*domain.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		items, err := s.itemRepo.ListByOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

// GetItems retrieves the items of one order
func (s *orderService) GetItems(ctx context.Context, orderID int64) ([]*domain.OrderItem, error) {
	return s.itemRepo.ListByOrder(ctx, orderID)
}

// GetTotal recomputes an order's total from its item subtotals
func (s *orderService) GetTotal(ctx context.Context, orderID int64) (float64, error) {
	return s.itemRepo.TotalAmount(ctx, orderID)
}

// UpdateStatus overwrites the order status
func (s *orderService) UpdateStatus(ctx context.Context, id int64, status string) (int64, error) {
	return s.orderRepo.UpdateStatus(ctx, id, status)
}

// Delete removes an order and, via the cascade, its items
func (s *orderService) Delete(ctx context.Context, id int64) error {
	return s.orderRepo.Delete(ctx, id)
}
