package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/olimov/ecomshop/internal/domain/models"
)

type ContactStorage interface {
	CreateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error)
}

type contactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) ContactStorage {
	return &contactRepository{db: db}
}

func (r *contactRepository) CreateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO contacts (first_name, last_name, email, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		contact.FirstName, contact.LastName, contact.Email, contact.Message,
	).Scan(&contact.ID, &contact.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}
