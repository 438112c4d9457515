package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olimov/ecomshop/internal/domain/models"
	"github.com/olimov/ecomshop/internal/storage"
)

type CountryServiceInterface interface {
	RegisterCountry(ctx context.Context, name string) (*models.Country, error)
	RegisterCity(ctx context.Context, countryID int64, name string) (*models.City, error)
	RegisterAddress(ctx context.Context, text string, cityID, countryID int64) (*models.Address, error)
}

type CountryService struct {
	log         *slog.Logger
	db          *sql.DB
	countryRepo storage.CountryStorage
}

func NewCountryService(log *slog.Logger, db *sql.DB, countryRepo storage.CountryStorage) *CountryService {
	return &CountryService{
		log:         log,
		db:          db,
		countryRepo: countryRepo,
	}
}

// RegisterCountry creates a country if no country with that name exists.
// Probe and insert run in one transaction.
func (s *CountryService) RegisterCountry(ctx context.Context, name string) (*models.Country, error) {
	const op = "service.CountryService.RegisterCountry"
	logger := s.log.With(slog.String("op", op), slog.String("name", name))
	logger.Info("registering country")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	_, err = s.countryRepo.GetCountryByNameTx(ctx, tx, name)
	if err == nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Warn("country already exists")
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	}
	if !errors.Is(err, storage.ErrCountryNotFound) {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to check existing country", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to check existing country: %w", op, err)
	}

	country, err := s.countryRepo.CreateCountryTx(ctx, tx, name)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		if storage.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		logger.Error("failed to create country", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create country: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("country registered", slog.Int64("countryID", country.ID))
	return country, nil
}

// RegisterCity creates a city under an existing country.
func (s *CountryService) RegisterCity(ctx context.Context, countryID int64, name string) (*models.City, error) {
	const op = "service.CountryService.RegisterCity"
	logger := s.log.With(slog.String("op", op), slog.Int64("countryID", countryID))

	if _, err := s.countryRepo.GetCountryByID(ctx, countryID); err != nil {
		if errors.Is(err, storage.ErrCountryNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		logger.Error("failed to get country", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get country: %w", op, err)
	}

	city, err := s.countryRepo.CreateCity(ctx, &models.City{Name: name, CountryID: countryID})
	if err != nil {
		if storage.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidReference)
		}
		logger.Error("failed to create city", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create city: %w", op, err)
	}
	return city, nil
}

// RegisterAddress creates an address; missing parents surface as an
// invalid-reference error from the foreign keys.
func (s *CountryService) RegisterAddress(ctx context.Context, text string, cityID, countryID int64) (*models.Address, error) {
	const op = "service.CountryService.RegisterAddress"
	logger := s.log.With(slog.String("op", op), slog.Int64("cityID", cityID), slog.Int64("countryID", countryID))

	address, err := s.countryRepo.CreateAddress(ctx, &models.Address{Text: text, CityID: cityID, CountryID: countryID})
	if err != nil {
		if storage.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidReference)
		}
		logger.Error("failed to create address", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create address: %w", op, err)
	}
	return address, nil
}
