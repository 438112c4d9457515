package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/olimov/ecomshop/internal/domain/models"
	"github.com/olimov/ecomshop/internal/storage"
)

// accessControl is the single capability check shared by every gated service:
// resolve the token subject to a user row, then check its role.
type accessControl struct {
	userRepo storage.UserStorage
}

// currentUser resolves the token subject to a user row. A vanished row is a
// NotFound, matching the contract for authenticated-but-deleted callers.
func (a accessControl) currentUser(ctx context.Context, username string) (*models.User, error) {
	user, err := a.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve caller: %w", err)
	}
	return user, nil
}

// requireAdmin resolves the caller and enforces the admin gate.
func (a accessControl) requireAdmin(ctx context.Context, username string) (*models.User, error) {
	user, err := a.currentUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.Status != models.StatusAdmin {
		return nil, ErrForbidden
	}
	return user, nil
}

// requireCourier enforces the delivery gate: couriers and admins only.
func (a accessControl) requireCourier(ctx context.Context, username string) (*models.User, error) {
	user, err := a.currentUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.Status != models.StatusDeliver && user.Status != models.StatusAdmin {
		return nil, ErrForbidden
	}
	return user, nil
}
