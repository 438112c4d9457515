package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olimov/ecomshop/internal/domain/models"
	"github.com/olimov/ecomshop/internal/storage"
)

type ContactServiceInterface interface {
	SubmitContact(ctx context.Context, contact *models.Contact) (*models.Contact, error)
}

type ContactService struct {
	log         *slog.Logger
	contactRepo storage.ContactStorage
}

func NewContactService(log *slog.Logger, contactRepo storage.ContactStorage) *ContactService {
	return &ContactService{log: log, contactRepo: contactRepo}
}

// SubmitContact stores a contact-form message.
func (s *ContactService) SubmitContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	const op = "service.ContactService.SubmitContact"

	created, err := s.contactRepo.CreateContact(ctx, contact)
	if err != nil {
		s.log.Error("failed to store contact message", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("contact message stored", slog.String("op", op), slog.Int64("contactID", created.ID))
	return created, nil
}
