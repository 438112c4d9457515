package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olimov/ecomshop/internal/domain/models"
	"github.com/olimov/ecomshop/internal/storage"
)

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, caller string, productID int64, quantity int) (*models.Order, error)
	ListOrders(ctx context.Context, caller string) ([]*models.Order, error)
	GetOrder(ctx context.Context, caller string, id int64) (*models.Order, error)
}

type OrderService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
	access    accessControl
}

func NewOrderService(log *slog.Logger, userRepo storage.UserStorage, orderRepo storage.OrderStorage) *OrderService {
	return &OrderService{
		log:       log,
		orderRepo: orderRepo,
		access:    accessControl{userRepo: userRepo},
	}
}

// CreateOrder inserts an order owned by the caller. A missing product
// surfaces as an invalid-reference error from the foreign key.
func (s *OrderService) CreateOrder(ctx context.Context, caller string, productID int64, quantity int) (*models.Order, error) {
	const op = "service.OrderService.CreateOrder"
	logger := s.log.With(slog.String("op", op), slog.String("caller", caller), slog.Int64("productID", productID))

	user, err := s.access.currentUser(ctx, caller)
	if err != nil {
		logger.Warn("failed to resolve caller", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.orderRepo.CreateOrder(ctx, &models.Order{
		UserID:    user.ID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		if storage.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidReference)
		}
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	logger.Info("order created", slog.Int64("orderID", order.ID))
	return order, nil
}

// ListOrders returns the caller's orders only.
func (s *OrderService) ListOrders(ctx context.Context, caller string) ([]*models.Order, error) {
	const op = "service.OrderService.ListOrders"

	user, err := s.access.currentUser(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, user.ID)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// GetOrder returns one of the caller's orders. An order owned by another
// user is indistinguishable from a missing one.
func (s *OrderService) GetOrder(ctx context.Context, caller string, id int64) (*models.Order, error) {
	const op = "service.OrderService.GetOrder"

	user, err := s.access.currentUser(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.orderRepo.GetOrderByID(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.log.Error("failed to get order", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}
