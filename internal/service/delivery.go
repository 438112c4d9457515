package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olimov/ecomshop/internal/domain/models"
	"github.com/olimov/ecomshop/internal/storage"
)

type DeliveryServiceInterface interface {
	CreateDelivery(ctx context.Context, caller string, orderID int64) (*models.Delivery, error)
	ListDeliveries(ctx context.Context, caller string) ([]*models.Delivery, error)
	GetDelivery(ctx context.Context, caller string, id int64) (*models.Delivery, error)
	CompleteDelivery(ctx context.Context, caller string, id int64) (*models.Delivery, error)
}

type DeliveryService struct {
	log          *slog.Logger
	db           *sql.DB
	deliveryRepo storage.DeliveryStorage
	orderRepo    storage.OrderStorage
	access       accessControl
}

func NewDeliveryService(log *slog.Logger, db *sql.DB, userRepo storage.UserStorage, deliveryRepo storage.DeliveryStorage, orderRepo storage.OrderStorage) *DeliveryService {
	return &DeliveryService{
		log:          log,
		db:           db,
		deliveryRepo: deliveryRepo,
		orderRepo:    orderRepo,
		access:       accessControl{userRepo: userRepo},
	}
}

// CreateDelivery inserts a pending delivery owned by the caller.
func (s *DeliveryService) CreateDelivery(ctx context.Context, caller string, orderID int64) (*models.Delivery, error) {
	const op = "service.DeliveryService.CreateDelivery"
	logger := s.log.With(slog.String("op", op), slog.String("caller", caller), slog.Int64("orderID", orderID))

	user, err := s.access.currentUser(ctx, caller)
	if err != nil {
		logger.Warn("failed to resolve caller", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	delivery, err := s.deliveryRepo.CreateDelivery(ctx, &models.Delivery{
		UserID:  user.ID,
		OrderID: orderID,
		Status:  models.DeliveryPending,
	})
	if err != nil {
		if storage.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidReference)
		}
		logger.Error("failed to create delivery", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create delivery: %w", op, err)
	}

	logger.Info("delivery created", slog.Int64("deliveryID", delivery.ID))
	return delivery, nil
}

// ListDeliveries returns the caller's deliveries only.
func (s *DeliveryService) ListDeliveries(ctx context.Context, caller string) ([]*models.Delivery, error) {
	const op = "service.DeliveryService.ListDeliveries"

	user, err := s.access.currentUser(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	deliveries, err := s.deliveryRepo.GetDeliveriesByUserID(ctx, user.ID)
	if err != nil {
		s.log.Error("failed to list deliveries", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return deliveries, nil
}

// GetDelivery returns one of the caller's deliveries; someone else's
// delivery id behaves as missing.
func (s *DeliveryService) GetDelivery(ctx context.Context, caller string, id int64) (*models.Delivery, error) {
	const op = "service.DeliveryService.GetDelivery"

	user, err := s.access.currentUser(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	delivery, err := s.deliveryRepo.GetDeliveryByID(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, storage.ErrDeliveryNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.log.Error("failed to get delivery", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return delivery, nil
}

// CompleteDelivery moves a pending delivery to delivered and marks the linked
// order fulfilled in the same transaction. Courier gate on the caller.
func (s *DeliveryService) CompleteDelivery(ctx context.Context, caller string, id int64) (*models.Delivery, error) {
	const op = "service.DeliveryService.CompleteDelivery"
	logger := s.log.With(slog.String("op", op), slog.String("caller", caller), slog.Int64("deliveryID", id))
	logger.Info("starting delivery completion transaction")

	if _, err := s.access.requireCourier(ctx, caller); err != nil {
		logger.Warn("courier gate rejected caller", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	delivery, err := s.deliveryRepo.LockDeliveryByIDTx(ctx, tx, id)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		if errors.Is(err, storage.ErrDeliveryNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		logger.Error("failed to get delivery", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get delivery: %w", op, err)
	}

	if delivery.Status == models.DeliveryDelivered {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Warn("delivery already delivered")
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	}

	if err := s.deliveryRepo.UpdateDeliveryStatusTx(ctx, tx, id, models.DeliveryDelivered); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to update delivery status", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update delivery status: %w", op, err)
	}

	if err := s.orderRepo.MarkOrderFulfilledTx(ctx, tx, delivery.OrderID); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to mark order fulfilled", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to mark order fulfilled: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	delivery.Status = models.DeliveryDelivered
	logger.Info("delivery completed")
	return delivery, nil
}
