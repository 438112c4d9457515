package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/olimov/ecomshop/internal/domain/models"
	"github.com/olimov/ecomshop/internal/service"
)

// ContactRequest is the public contact-form payload.
type ContactRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"required,email"`
	Message   string `json:"message" validate:"required"`
}

// SubmitContactHandler handles POST /contact/. No authentication.
func SubmitContactHandler(log *slog.Logger, contactService service.ContactServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SubmitContactHandler"
		logger := log.With(slog.String("op", op))

		var req ContactRequest
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

		contact, err := contactService.SubmitContact(r.Context(), &models.Contact{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Message:   req.Message,
		})
		if err != nil {
			logger.Error("failed to submit contact message", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if err := writeJSON(w, http.StatusCreated, contact); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
