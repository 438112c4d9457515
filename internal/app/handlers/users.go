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

// UserUpdateRequest is the full-update payload; every field is required.
type UserUpdateRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password"`
}

// UserPartialUpdateRequest is the partial payload; empty fields are skipped.
type UserPartialUpdateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password"`
}

// ChangeStatusRequest carries the new role for a user.
type ChangeStatusRequest struct {
	Status models.UserStatus `json:"status" validate:"required"`
}

// ListUsersHandler handles GET /identify/users.
func ListUsersHandler(log *slog.Logger, userService service.UserServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListUsersHandler"
		logger := log.With(slog.String("op", op))

		users, err := userService.ListUsers(r.Context())
		if err != nil {
			logger.Error("failed to list users", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if users == nil {
			users = []*models.User{}
		}

		if err := writeJSON(w, http.StatusOK, users); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// UpdateUserHandler handles PUT /identify/users/{id}.
func UpdateUserHandler(log *slog.Logger, userService service.UserServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateUserHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid user id", slog.Any("error", err))
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}

		var req UserUpdateRequest
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

		user, err := userService.UpdateUser(r.Context(), id, service.UserUpdate{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Username:  req.Username,
			Email:     req.Email,
			Password:  req.Password,
		})
		if err != nil {
			logger.Error("failed to update user", slog.Any("error", err))
			http.Error(w, "failed to update user", statusFromError(err))
			return
		}

		if err := writeJSON(w, http.StatusOK, user); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// PartialUpdateUserHandler handles PATCH /identify/users/{id}.
func PartialUpdateUserHandler(log *slog.Logger, userService service.UserServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PartialUpdateUserHandler"
		logger := log.With(slog.String("op", op))

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid user id", slog.Any("error", err))
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}

		var req UserPartialUpdateRequest
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

		user, err := userService.PartialUpdateUser(r.Context(), id, service.UserUpdate{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Username:  req.Username,
			Email:     req.Email,
			Password:  req.Password,
		})
		if err != nil {
			logger.Error("failed to update user", slog.Any("error", err))
			http.Error(w, "failed to update user", statusFromError(err))
			return
		}

		if err := writeJSON(w, http.StatusOK, user); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// ChangeUserStatusHandler handles PUT /products/change-status/{user_id}.
// The route lives under /products, matching the published API contract.
func ChangeUserStatusHandler(log *slog.Logger, userService service.UserServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ChangeUserStatusHandler"
		logger := log.With(slog.String("op", op))

		caller, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("username not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		targetID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
		if err != nil {
			logger.Error("invalid user id", slog.Any("error", err))
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}

		var req ChangeStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if !req.Status.Valid() {
			logger.Error("invalid status value", slog.String("status", string(req.Status)))
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}

		target, err := userService.ChangeUserStatus(r.Context(), caller, targetID, req.Status)
		if err != nil {
			logger.Error("failed to change user status", slog.Any("error", err))
			http.Error(w, "failed to change user status", statusFromError(err))
			return
		}

		resp := AckResponse{Detail: "user " + target.Username + "'s status has been changed to " + string(target.Status)}
		if err := writeJSON(w, http.StatusOK, resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
