package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olimov/ecomshop/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage describes persistence for orders. Reads are scoped to the
// owning user so a foreign order id behaves as if it does not exist.
type OrderStorage interface {
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error)
	GetOrderByID(ctx context.Context, id, userID int64) (*models.Order, error)
	MarkOrderFulfilledTx(ctx context.Context, tx *sql.Tx, id int64) error
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, product_id, quantity)
		 VALUES ($1, $2, $3)
		 RETURNING id, status, created_at`,
		order.UserID, order.ProductID, order.Quantity,
	).Scan(&order.ID, &order.Status, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, product_id, quantity, status, created_at
		 FROM orders
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.ProductID,
			&order.Quantity, &order.Status, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id, userID int64) (*models.Order, error) {
	order := &models.Order{}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, product_id, quantity, status, created_at
		 FROM orders
		 WHERE id = $1 AND user_id = $2`, id, userID)
	if err := row.Scan(&order.ID, &order.UserID, &order.ProductID,
		&order.Quantity, &order.Status, &order.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// MarkOrderFulfilledTx flips the fulfilled flag inside the delivery-completion
// transaction.
func (r *orderRepository) MarkOrderFulfilledTx(ctx context.Context, tx *sql.Tx, id int64) error {
	res, err := tx.ExecContext(ctx, "UPDATE orders SET status = TRUE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to mark order fulfilled: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
