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
)

// OrderCreateRequest is the order-creation payload.
type OrderCreateRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderHandler handles POST /orders/.
func CreateOrderHandler(log *slog.Logger, orderService service.OrderServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		caller, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("username not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req OrderCreateRequest
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

		order, err := orderService.CreateOrder(r.Context(), caller, req.ProductID, req.Quantity)
		if err != nil {
			logger.Error("failed to create order", slog.Any("error", err))
			http.Error(w, "failed to create order", statusFromError(err))
			return
		}

		if err := writeJSON(w, http.StatusCreated, order); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// ListOrdersHandler handles GET /orders/, scoped to the caller.
func ListOrdersHandler(log *slog.Logger, orderService service.OrderServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		caller, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("username not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := orderService.ListOrders(r.Context(), caller)
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			http.Error(w, "failed to list orders", statusFromError(err))
			return
		}
		if orders == nil {
			orders = []*models.Order{}
		}

		if err := writeJSON(w, http.StatusOK, orders); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// GetOrderHandler handles GET /orders/{id}, scoped to the caller.
func GetOrderHandler(log *slog.Logger, orderService service.OrderServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrderHandler"
		logger := log.With(slog.String("op", op))

		caller, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("username not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid order id", slog.Any("error", err))
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		order, err := orderService.GetOrder(r.Context(), caller, id)
		if err != nil {
			logger.Error("failed to get order", slog.Any("error", err))
			http.Error(w, "order not found", statusFromError(err))
			return
		}

		if err := writeJSON(w, http.StatusOK, order); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
