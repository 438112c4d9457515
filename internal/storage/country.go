package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/olimov/ecomshop/internal/domain/models"
)

var (
	ErrCountryNotFound = errors.New("country not found")
	ErrCityNotFound    = errors.New("city not found")
)

// CountryStorage covers the reference-data tree: countries, cities, addresses.
type CountryStorage interface {
	GetCountryByID(ctx context.Context, id int64) (*models.Country, error)
	GetCountryByNameTx(ctx context.Context, tx *sql.Tx, name string) (*models.Country, error)
	CreateCountryTx(ctx context.Context, tx *sql.Tx, name string) (*models.Country, error)
	CreateCity(ctx context.Context, city *models.City) (*models.City, error)
	CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error)
}

type countryRepository struct {
	db *sql.DB
}

func NewCountryRepository(db *sql.DB) CountryStorage {
	return &countryRepository{db: db}
}

func (r *countryRepository) GetCountryByID(ctx context.Context, id int64) (*models.Country, error) {
	country := &models.Country{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM countries WHERE id = $1", id)
	if err := row.Scan(&country.ID, &country.Name, &country.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCountryNotFound
		}
		return nil, err
	}
	return country, nil
}

// GetCountryByNameTx is the duplicate probe used during country registration.
func (r *countryRepository) GetCountryByNameTx(ctx context.Context, tx *sql.Tx, name string) (*models.Country, error) {
	country := &models.Country{}
	row := tx.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM countries WHERE name = $1", name)
	if err := row.Scan(&country.ID, &country.Name, &country.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCountryNotFound
		}
		return nil, err
	}
	return country, nil
}

func (r *countryRepository) CreateCountryTx(ctx context.Context, tx *sql.Tx, name string) (*models.Country, error) {
	country := &models.Country{Name: name}
	err := tx.QueryRowContext(ctx,
		"INSERT INTO countries (name) VALUES ($1) RETURNING id, created_at",
		name,
	).Scan(&country.ID, &country.CreatedAt)
	if err != nil {
		return nil, err
	}
	return country, nil
}

func (r *countryRepository) CreateCity(ctx context.Context, city *models.City) (*models.City, error) {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO cities (name, country_id) VALUES ($1, $2) RETURNING id, created_at",
		city.Name, city.CountryID,
	).Scan(&city.ID, &city.CreatedAt)
	if err != nil {
		return nil, err
	}
	return city, nil
}

func (r *countryRepository) CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error) {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO addresses (text, city_id, country_id) VALUES ($1, $2, $3) RETURNING id, created_at",
		address.Text, address.CityID, address.CountryID,
	).Scan(&address.ID, &address.CreatedAt)
	if err != nil {
		return nil, err
	}
	return address, nil
}
