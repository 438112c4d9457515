package handlers

import (
	"log/slog"
	"net/http"
)

// HealthHandler handles GET /, the root healthcheck.
func HealthHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := writeJSON(w, http.StatusOK, map[string]string{"message": "welcome to the shop API"}); err != nil {
			log.Error("failed to encode response", slog.String("op", "handlers.HealthHandler"), slog.Any("error", err))
		}
	}
}
