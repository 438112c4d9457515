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

// DeliveryCreateRequest is the delivery-creation payload.
type DeliveryCreateRequest struct {
	OrderID int64 `json:"order_id" validate:"required"`
}

// DeliveryStatusRequest carries the target state for a delivery.
type DeliveryStatusRequest struct {
	Status models.DeliveryStatus `json:"status" validate:"required"`
}

// CreateDeliveryHandler handles POST /deliveries/.
func CreateDeliveryHandler(log *slog.Logger, deliveryService service.DeliveryServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateDeliveryHandler"
		logger := log.With(slog.String("op", op))

		caller, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("username not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req DeliveryCreateRequest
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

		delivery, err := deliveryService.CreateDelivery(r.Context(), caller, req.OrderID)
		if err != nil {
			logger.Error("failed to create delivery", slog.Any("error", err))
			http.Error(w, "failed to create delivery", statusFromError(err))
			return
		}

		if err := writeJSON(w, http.StatusCreated, delivery); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// ListDeliveriesHandler handles GET /deliveries/, scoped to the caller.
func ListDeliveriesHandler(log *slog.Logger, deliveryService service.DeliveryServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListDeliveriesHandler"
		logger := log.With(slog.String("op", op))

		caller, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("username not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		deliveries, err := deliveryService.ListDeliveries(r.Context(), caller)
		if err != nil {
			logger.Error("failed to list deliveries", slog.Any("error", err))
			http.Error(w, "failed to list deliveries", statusFromError(err))
			return
		}
		if deliveries == nil {
			deliveries = []*models.Delivery{}
		}

		if err := writeJSON(w, http.StatusOK, deliveries); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// GetDeliveryHandler handles GET /deliveries/{id}, scoped to the caller.
func GetDeliveryHandler(log *slog.Logger, deliveryService service.DeliveryServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetDeliveryHandler"
		logger := log.With(slog.String("op", op))

		caller, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("username not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid delivery id", slog.Any("error", err))
			http.Error(w, "invalid delivery id", http.StatusBadRequest)
			return
		}

		delivery, err := deliveryService.GetDelivery(r.Context(), caller, id)
		if err != nil {
			logger.Error("failed to get delivery", slog.Any("error", err))
			http.Error(w, "delivery not found", statusFromError(err))
			return
		}

		if err := writeJSON(w, http.StatusOK, delivery); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// CompleteDeliveryHandler handles PATCH /deliveries/{id}/status. Courier or
// admin only; the only accepted transition is pending to delivered.
func CompleteDeliveryHandler(log *slog.Logger, deliveryService service.DeliveryServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CompleteDeliveryHandler"
		logger := log.With(slog.String("op", op))

		caller, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("username not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid delivery id", slog.Any("error", err))
			http.Error(w, "invalid delivery id", http.StatusBadRequest)
			return
		}

		var req DeliveryStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Status != models.DeliveryDelivered {
			logger.Error("invalid status transition", slog.String("status", string(req.Status)))
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}

		delivery, err := deliveryService.CompleteDelivery(r.Context(), caller, id)
		if err != nil {
			logger.Error("failed to complete delivery", slog.Any("error", err))
			http.Error(w, "failed to complete delivery", statusFromError(err))
			return
		}

		if err := writeJSON(w, http.StatusOK, delivery); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
