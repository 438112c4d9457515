package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/olimov/ecomshop/internal/domain/models"
)

var ErrDeliveryNotFound = errors.New("delivery not found")

type DeliveryStorage interface {
	CreateDelivery(ctx context.Context, delivery *models.Delivery) (*models.Delivery, error)
	GetDeliveriesByUserID(ctx context.Context, userID int64) ([]*models.Delivery, error)
	GetDeliveryByID(ctx context.Context, id, userID int64) (*models.Delivery, error)
	LockDeliveryByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Delivery, error)
	UpdateDeliveryStatusTx(ctx context.Context, tx *sql.Tx, id int64, status models.DeliveryStatus) error
}

type deliveryRepository struct {
	db *sql.DB
}

func NewDeliveryRepository(db *sql.DB) DeliveryStorage {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) CreateDelivery(ctx context.Context, delivery *models.Delivery) (*models.Delivery, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO deliveries (user_id, order_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		delivery.UserID, delivery.OrderID, delivery.Status,
	).Scan(&delivery.ID)
	if err != nil {
		return nil, err
	}
	return delivery, nil
}

func (r *deliveryRepository) GetDeliveriesByUserID(ctx context.Context, userID int64) ([]*models.Delivery, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, order_id, status
		 FROM deliveries
		 WHERE user_id = $1
		 ORDER BY id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []*models.Delivery
	for rows.Next() {
		delivery := &models.Delivery{}
		if err := rows.Scan(&delivery.ID, &delivery.UserID, &delivery.OrderID, &delivery.Status); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, delivery)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return deliveries, nil
}

func (r *deliveryRepository) GetDeliveryByID(ctx context.Context, id, userID int64) (*models.Delivery, error) {
	delivery := &models.Delivery{}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, order_id, status
		 FROM deliveries
		 WHERE id = $1 AND user_id = $2`, id, userID)
	if err := row.Scan(&delivery.ID, &delivery.UserID, &delivery.OrderID, &delivery.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeliveryNotFound
		}
		return nil, err
	}
	return delivery, nil
}

// LockDeliveryByIDTx fetches a delivery without owner scoping (couriers act on
// deliveries they do not own) and locks the row for the status transition.
func (r *deliveryRepository) LockDeliveryByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Delivery, error) {
	delivery := &models.Delivery{}
	row := tx.QueryRowContext(ctx,
		`SELECT id, user_id, order_id, status
		 FROM deliveries
		 WHERE id = $1 FOR UPDATE NOWAIT`, id)
	if err := row.Scan(&delivery.ID, &delivery.UserID, &delivery.OrderID, &delivery.Status); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "55P03" { // lock
				return nil, fmt.Errorf("resource is locked, please try again: %w", err)
			}
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeliveryNotFound
		}
		return nil, err
	}
	return delivery, nil
}

func (r *deliveryRepository) UpdateDeliveryStatusTx(ctx context.Context, tx *sql.Tx, id int64, status models.DeliveryStatus) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE deliveries SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("failed to update delivery status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDeliveryNotFound
	}
	return nil
}
