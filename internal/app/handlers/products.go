package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/olimov/ecomshop/internal/domain/models"
	"github.com/olimov/ecomshop/internal/security/jwtmiddleware"
	"github.com/olimov/ecomshop/internal/service"
	"github.com/shopspring/decimal"
)

// ProductRequest is the payload for both create and full update.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Material    string          `json:"material"`
	Price1      decimal.Decimal `json:"price1"`
	Price2      decimal.Decimal `json:"price2"`
	Status      bool            `json:"status"`
	Featured    bool            `json:"featured"`
	CountryID   int64           `json:"country_id" validate:"required"`
	Count       int             `json:"count"`
	Slug        string          `json:"slug" validate:"required"`
}

func (req ProductRequest) toModel() *models.Product {
	return &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Material:    req.Material,
		Price1:      req.Price1,
		Price2:      req.Price2,
		Status:      req.Status,
		Featured:    req.Featured,
		CountryID:   req.CountryID,
		Count:       req.Count,
		Slug:        req.Slug,
	}
}

// CreateProductHandler handles POST /products/create. Admin only.
func CreateProductHandler(log *slog.Logger, productService service.ProductServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateProductHandler"
		logger := log.With(slog.String("op", op))

		caller, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("username not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req ProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		product, err := productService.CreateProduct(r.Context(), caller, req.toModel())
		if err != nil {
			logger.Error("failed to create product", slog.Any("error", err))
			http.Error(w, "failed to create product", statusFromError(err))
			return
		}

		if err := writeJSON(w, http.StatusCreated, product); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// UpdateProductHandler handles PUT /products/update/{id}. Admin only; every
// field is overwritten from the payload.
func UpdateProductHandler(log *slog.Logger, productService service.ProductServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProductHandler"
		logger := log.With(slog.String("op", op))

		caller, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("username not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid product id", slog.Any("error", err))
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		var req ProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		product := req.toModel()
		product.ID = id
		updated, err := productService.UpdateProduct(r.Context(), caller, product)
		if err != nil {
			logger.Error("failed to update product", slog.Any("error", err))
			http.Error(w, "failed to update product", statusFromError(err))
			return
		}

		if err := writeJSON(w, http.StatusOK, updated); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// DeleteProductHandler handles DELETE /products/delete/{id}. Admin only.
func DeleteProductHandler(log *slog.Logger, productService service.ProductServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteProductHandler"
		logger := log.With(slog.String("op", op))

		caller, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("username not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid product id", slog.Any("error", err))
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		if err := productService.DeleteProduct(r.Context(), caller, id); err != nil {
			logger.Error("failed to delete product", slog.Any("error", err))
			http.Error(w, "failed to delete product", statusFromError(err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ListProductsHandler handles GET /products/. Any authenticated user.
func ListProductsHandler(log *slog.Logger, productService service.ProductServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		products, err := productService.ListProducts(r.Context())
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if products == nil {
			products = []*models.Product{}
		}

		if err := writeJSON(w, http.StatusOK, products); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// GetProductBySlugHandler handles GET /products/search/{slug}.
func GetProductBySlugHandler(log *slog.Logger, productService service.ProductServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductBySlugHandler"
		logger := log.With(slog.String("op", op))

		slug := chi.URLParam(r, "slug")
		if slug == "" {
			logger.Error("slug parameter is missing")
			http.Error(w, "slug parameter is required", http.StatusBadRequest)
			return
		}

		product, err := productService.GetProductBySlug(r.Context(), slug)
		if err != nil {
			logger.Error("failed to get product", slog.Any("error", err))
			http.Error(w, "product not found", statusFromError(err))
			return
		}

		if err := writeJSON(w, http.StatusOK, product); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
