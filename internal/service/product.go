package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olimov/ecomshop/internal/domain/models"
	"github.com/olimov/ecomshop/internal/storage"
)

type ProductServiceInterface interface {
	CreateProduct(ctx context.Context, caller string, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, caller string, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, caller string, id int64) error
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
}

type ProductService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
	access      accessControl
}

func NewProductService(log *slog.Logger, userRepo storage.UserStorage, productRepo storage.ProductStorage) *ProductService {
	return &ProductService{
		log:         log,
		productRepo: productRepo,
		access:      accessControl{userRepo: userRepo},
	}
}

// CreateProduct inserts a catalog item. Admin gate on the caller.
func (s *ProductService) CreateProduct(ctx context.Context, caller string, product *models.Product) (*models.Product, error) {
	const op = "service.ProductService.CreateProduct"
	logger := s.log.With(slog.String("op", op), slog.String("caller", caller))

	if _, err := s.access.requireAdmin(ctx, caller); err != nil {
		logger.Warn("admin gate rejected caller", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		if storage.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidReference)
		}
		logger.Error("failed to create product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create product: %w", op, err)
	}

	logger.Info("product created", slog.Int64("productID", created.ID), slog.String("slug", created.Slug))
	return created, nil
}

// UpdateProduct overwrites every field of the product, full-update semantics
// (contrast with the partial user update).
func (s *ProductService) UpdateProduct(ctx context.Context, caller string, product *models.Product) (*models.Product, error) {
	const op = "service.ProductService.UpdateProduct"
	logger := s.log.With(slog.String("op", op), slog.String("caller", caller), slog.Int64("productID", product.ID))

	if _, err := s.access.requireAdmin(ctx, caller); err != nil {
		logger.Warn("admin gate rejected caller", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		if storage.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		if storage.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidReference)
		}
		logger.Error("failed to update product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update product: %w", op, err)
	}

	updated, err := s.productRepo.GetProductByID(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to reload product: %w", op, err)
	}
	return updated, nil
}

// DeleteProduct hard-deletes the row. Admin gate on the caller.
func (s *ProductService) DeleteProduct(ctx context.Context, caller string, id int64) error {
	const op = "service.ProductService.DeleteProduct"
	logger := s.log.With(slog.String("op", op), slog.String("caller", caller), slog.Int64("productID", id))

	if _, err := s.access.requireAdmin(ctx, caller); err != nil {
		logger.Warn("admin gate rejected caller", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		logger.Error("failed to delete product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete product: %w", op, err)
	}

	logger.Info("product deleted")
	return nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "service.ProductService.ListProducts"

	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	const op = "service.ProductService.GetProductBySlug"

	product, err := s.productRepo.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.log.Error("failed to get product", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return product, nil
}
