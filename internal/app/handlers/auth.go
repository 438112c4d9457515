package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/olimov/ecomshop/internal/security/jwtmiddleware"
	"github.com/olimov/ecomshop/internal/service"
)

var validate = validator.New()

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

// RefreshRequest carries the refresh token to spend.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AckResponse struct {
	Detail string `json:"detail"`
}

// LoginHandler handles POST /identify/login.
func LoginHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req LoginRequest
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

		tokens, err := authService.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			logger.Error("login failed", slog.Any("error", err))
			http.Error(w, "incorrect password or username", statusFromError(err))
			return
		}

		if err := writeJSON(w, http.StatusOK, tokens); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// RegisterHandler handles POST /identify/register.
func RegisterHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterHandler"
		logger := log.With(slog.String("op", op))

		var req RegisterRequest
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

		if _, err := authService.Register(r.Context(), req.FirstName, req.LastName, req.Username, req.Email, req.Password); err != nil {
			logger.Error("registration failed", slog.Any("error", err))
			http.Error(w, "user already exists", statusFromError(err))
			return
		}

		if err := writeJSON(w, http.StatusCreated, AckResponse{Detail: "register successful"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// VerifyTokenHandler handles GET /identify/token/verify. The JWT middleware
// has already rejected missing/expired/invalid tokens by the time this runs.
func VerifyTokenHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.VerifyTokenHandler"
		logger := log.With(slog.String("op", op))

		if _, ok := jwtmiddleware.FromContext(r.Context()); !ok {
			logger.Error("username not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := writeJSON(w, http.StatusOK, map[string]string{"status": "token is valid"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// RefreshTokenHandler handles POST /identify/token/refresh.
func RefreshTokenHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RefreshTokenHandler"
		logger := log.With(slog.String("op", op))

		var req RefreshRequest
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

		access, err := authService.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			logger.Error("refresh failed", slog.Any("error", err))
			http.Error(w, "invalid refresh token", http.StatusUnauthorized)
			return
		}

		if err := writeJSON(w, http.StatusOK, map[string]string{"access_token": access}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
