package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/olimov/ecomshop/internal/domain/models"
	"github.com/olimov/ecomshop/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGetUserByUsername_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)
	now := time.Now()

	query := regexp.QuoteMeta("SELECT id, first_name, last_name, username, email, pass_hash, status, created_at, updated_at FROM users WHERE username = $1")
	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "username", "email", "pass_hash", "status", "created_at", "updated_at"}).
		AddRow(1, "Alice", "Smith", "alice", "alice@example.com", []byte("hash"), "user", now, now)
	mock.ExpectQuery(query).WithArgs("alice").WillReturnRows(rows)

	user, err := repo.GetUserByUsername(context.Background(), "alice")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.StatusUser, user.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	query := regexp.QuoteMeta("SELECT id, first_name, last_name, username, email, pass_hash, status, created_at, updated_at FROM users WHERE username = $1")
	mock.ExpectQuery(query).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err = repo.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByUsername_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	query := regexp.QuoteMeta("SELECT id, first_name, last_name, username, email, pass_hash, status, created_at, updated_at FROM users WHERE username = $1")
	mock.ExpectQuery(query).WithArgs("alice").WillReturnError(errors.New("connection refused"))

	_, err = repo.GetUserByUsername(context.Background(), "alice")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserTx_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	mock.ExpectBegin()
	query := regexp.QuoteMeta("INSERT INTO users (first_name, last_name, username, email, pass_hash, status) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at")
	mock.ExpectQuery(query).
		WithArgs("Alice", "Smith", "alice", "alice@example.com", []byte("hash"), models.StatusUser).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	assert.NoError(t, err)

	_, err = repo.CreateUserTx(context.Background(), tx, &models.User{
		FirstName: "Alice",
		LastName:  "Smith",
		Username:  "alice",
		Email:     "alice@example.com",
		PassHash:  []byte("hash"),
		Status:    models.StatusUser,
	})
	assert.Error(t, err)
	assert.True(t, storage.IsUniqueViolation(err))
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewUserRepository(db)

	query := regexp.QuoteMeta("UPDATE users SET first_name = $1, last_name = $2, username = $3, email = $4, pass_hash = $5, updated_at = NOW() WHERE id = $6")
	mock.ExpectExec(query).
		WithArgs("Alice", "Smith", "alice", "alice@example.com", []byte("hash"), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateUser(context.Background(), &models.User{
		ID:        42,
		FirstName: "Alice",
		LastName:  "Smith",
		Username:  "alice",
		Email:     "alice@example.com",
		PassHash:  []byte("hash"),
	})
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductBySlug_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	now := time.Now()

	query := regexp.QuoteMeta("SELECT id, name, description, material, price1, price2, status, featured, country_id, count, slug, created_at FROM products WHERE slug = $1")
	rows := sqlmock.NewRows([]string{"id", "name", "description", "material", "price1", "price2", "status", "featured", "country_id", "count", "slug", "created_at"}).
		AddRow(7, "Teapot", "ceramic teapot", "ceramic", "19.90", "24.90", true, false, 1, 10, "teapot", now)
	mock.ExpectQuery(query).WithArgs("teapot").WillReturnRows(rows)

	product, err := repo.GetProductBySlug(context.Background(), "teapot")
	assert.NoError(t, err)
	assert.Equal(t, int64(7), product.ID)
	assert.True(t, product.Price1.Equal(decimal.RequireFromString("19.90")))
	assert.True(t, product.Price2.Equal(decimal.RequireFromString("24.90")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductBySlug_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)

	query := regexp.QuoteMeta("SELECT id, name, description, material, price1, price2, status, featured, country_id, count, slug, created_at FROM products WHERE slug = $1")
	mock.ExpectQuery(query).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err = repo.GetProductBySlug(context.Background(), "ghost")
	assert.ErrorIs(t, err, storage.ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProduct_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)

	query := regexp.QuoteMeta("DELETE FROM products WHERE id = $1")
	mock.ExpectExec(query).WithArgs(int64(99)).WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.DeleteProduct(context.Background(), int64(99))
	assert.ErrorIs(t, err, storage.ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrder_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	now := time.Now()

	query := regexp.QuoteMeta("INSERT INTO orders (user_id, product_id, quantity) VALUES ($1, $2, $3) RETURNING id, status, created_at")
	rows := sqlmock.NewRows([]string{"id", "status", "created_at"}).AddRow(3, false, now)
	mock.ExpectQuery(query).WithArgs(int64(1), int64(7), 2).WillReturnRows(rows)

	order, err := repo.CreateOrder(context.Background(), &models.Order{UserID: 1, ProductID: 7, Quantity: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), order.ID)
	assert.False(t, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByID_ScopedToOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)

	// order exists but belongs to another user, the scoped query finds nothing
	query := regexp.QuoteMeta("SELECT id, user_id, product_id, quantity, status, created_at FROM orders WHERE id = $1 AND user_id = $2")
	mock.ExpectQuery(query).WithArgs(int64(3), int64(2)).WillReturnError(sql.ErrNoRows)

	_, err = repo.GetOrderByID(context.Background(), 3, 2)
	assert.ErrorIs(t, err, storage.ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockDeliveryByIDTx_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewDeliveryRepository(db)

	mock.ExpectBegin()
	query := regexp.QuoteMeta("SELECT id, user_id, order_id, status FROM deliveries WHERE id = $1 FOR UPDATE NOWAIT")
	rows := sqlmock.NewRows([]string{"id", "user_id", "order_id", "status"}).
		AddRow(5, 1, 3, "pending")
	mock.ExpectQuery(query).WithArgs(int64(5)).WillReturnRows(rows)
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	assert.NoError(t, err)

	delivery, err := repo.LockDeliveryByIDTx(context.Background(), tx, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), delivery.ID)
	assert.Equal(t, models.DeliveryPending, delivery.Status)
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockDeliveryByIDTx_Locked(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewDeliveryRepository(db)

	mock.ExpectBegin()
	query := regexp.QuoteMeta("SELECT id, user_id, order_id, status FROM deliveries WHERE id = $1 FOR UPDATE NOWAIT")
	mock.ExpectQuery(query).WithArgs(int64(5)).WillReturnError(&pq.Error{Code: "55P03"})
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	assert.NoError(t, err)

	_, err = repo.LockDeliveryByIDTx(context.Background(), tx, 5)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "resource is locked")
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDeliveryStatusTx_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewDeliveryRepository(db)

	mock.ExpectBegin()
	query := regexp.QuoteMeta("UPDATE deliveries SET status = $1 WHERE id = $2")
	mock.ExpectExec(query).WithArgs(models.DeliveryDelivered, int64(5)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	assert.NoError(t, err)

	err = repo.UpdateDeliveryStatusTx(context.Background(), tx, 5, models.DeliveryDelivered)
	assert.ErrorIs(t, err, storage.ErrDeliveryNotFound)
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCountryByNameTx_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := storage.NewCountryRepository(db)

	mock.ExpectBegin()
	query := regexp.QuoteMeta("SELECT id, name, created_at FROM countries WHERE name = $1")
	mock.ExpectQuery(query).WithArgs("Atlantis").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	assert.NoError(t, err)

	_, err = repo.GetCountryByNameTx(context.Background(), tx, "Atlantis")
	assert.ErrorIs(t, err, storage.ErrCountryNotFound)
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
