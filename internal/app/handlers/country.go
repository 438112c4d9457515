package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/olimov/ecomshop/internal/service"
)

// CountryRegisterRequest is the country-creation payload.
type CountryRegisterRequest struct {
	Name string `json:"name" validate:"required"`
}

// CityRegisterRequest is the city-creation payload.
type CityRegisterRequest struct {
	Name string `json:"name" validate:"required"`
}

// AddressRegisterRequest is the address-creation payload.
type AddressRegisterRequest struct {
	Text      string `json:"text" validate:"required"`
	CityID    int64  `json:"city_id" validate:"required"`
	CountryID int64  `json:"country_id" validate:"required"`
}

// RegisterCountryHandler handles POST /country/register. A duplicate name is
// a 400 in this API, not a 409.
func RegisterCountryHandler(log *slog.Logger, countryService service.CountryServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterCountryHandler"
		logger := log.With(slog.String("op", op))

		var req CountryRegisterRequest
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

		if _, err := countryService.RegisterCountry(r.Context(), req.Name); err != nil {
			logger.Error("failed to register country", slog.Any("error", err))
			if errors.Is(err, service.ErrAlreadyExists) {
				http.Error(w, "country with this name already exists", http.StatusBadRequest)
				return
			}
			http.Error(w, "database error", http.StatusInternalServerError)
			return
		}

		if err := writeJSON(w, http.StatusCreated, AckResponse{Detail: "country registered successfully"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// RegisterCityHandler handles POST /country/{id}/cities.
func RegisterCityHandler(log *slog.Logger, countryService service.CountryServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterCityHandler"
		logger := log.With(slog.String("op", op))

		countryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			logger.Error("invalid country id", slog.Any("error", err))
			http.Error(w, "invalid country id", http.StatusBadRequest)
			return
		}

		var req CityRegisterRequest
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

		city, err := countryService.RegisterCity(r.Context(), countryID, req.Name)
		if err != nil {
			logger.Error("failed to register city", slog.Any("error", err))
			http.Error(w, "failed to register city", statusFromError(err))
			return
		}

		if err := writeJSON(w, http.StatusCreated, city); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// RegisterAddressHandler handles POST /country/addresses.
func RegisterAddressHandler(log *slog.Logger, countryService service.CountryServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RegisterAddressHandler"
		logger := log.With(slog.String("op", op))

		var req AddressRegisterRequest
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

		address, err := countryService.RegisterAddress(r.Context(), req.Text, req.CityID, req.CountryID)
		if err != nil {
			logger.Error("failed to register address", slog.Any("error", err))
			http.Error(w, "failed to register address", statusFromError(err))
			return
		}

		if err := writeJSON(w, http.StatusCreated, address); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
