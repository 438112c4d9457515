package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olimov/ecomshop/internal/domain/models"
)

var ErrProductNotFound = errors.New("product not found")

const productColumns = "id, name, description, material, price1, price2, status, featured, country_id, count, slug, created_at"

type ProductStorage interface {
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO products (name, description, material, price1, price2, status, featured, country_id, count, slug)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		product.Name, product.Description, product.Material, product.Price1, product.Price2,
		product.Status, product.Featured, product.CountryID, product.Count, product.Slug,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct overwrites every field of the row, full-update semantics.
func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET name = $1, description = $2, material = $3, price1 = $4, price2 = $5,
		     status = $6, featured = $7, country_id = $8, count = $9, slug = $10
		 WHERE id = $11`,
		product.Name, product.Description, product.Material, product.Price1, product.Price2,
		product.Status, product.Featured, product.CountryID, product.Count, product.Slug, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) ListProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Material,
			&product.Price1, &product.Price2, &product.Status, &product.Featured,
			&product.CountryID, &product.Count, &product.Slug, &product.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return r.getProduct(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
}

func (r *productRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return r.getProduct(ctx, "SELECT "+productColumns+" FROM products WHERE slug = $1", slug)
}

func (r *productRepository) getProduct(ctx context.Context, query string, arg any) (*models.Product, error) {
	product := &models.Product{}
	row := r.db.QueryRowContext(ctx, query, arg)
	if err := row.Scan(&product.ID, &product.Name, &product.Description, &product.Material,
		&product.Price1, &product.Price2, &product.Status, &product.Featured,
		&product.CountryID, &product.Count, &product.Slug, &product.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}
