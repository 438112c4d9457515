package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olimov/ecomshop/internal/domain/models"
	"github.com/olimov/ecomshop/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// UserUpdate carries the fields of a full or partial user update. For the
// partial variant only non-empty fields are applied.
type UserUpdate struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

type UserServiceInterface interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*models.User, error)
	PartialUpdateUser(ctx context.Context, id int64, upd UserUpdate) (*models.User, error)
	ChangeUserStatus(ctx context.Context, caller string, targetID int64, status models.UserStatus) (*models.User, error)
}

type UserService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
	access   accessControl
}

func NewUserService(log *slog.Logger, userRepo storage.UserStorage) *UserService {
	return &UserService{
		log:      log,
		userRepo: userRepo,
		access:   accessControl{userRepo: userRepo},
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "service.UserService.ListUsers"

	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		s.log.Error("failed to list users", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// UpdateUser overwrites every field of the target user. The password, when
// present, is re-hashed; an empty password keeps the stored hash.
func (s *UserService) UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*models.User, error) {
	const op = "service.UserService.UpdateUser"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", id))

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	user.FirstName = upd.FirstName
	user.LastName = upd.LastName
	user.Username = upd.Username
	user.Email = upd.Email
	if upd.Password != "" {
		passHash, err := bcrypt.GenerateFromPassword([]byte(upd.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("failed to hash password", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
		}
		user.PassHash = passHash
	}

	return s.saveUser(ctx, op, user)
}

// PartialUpdateUser applies only the non-empty fields of the update.
func (s *UserService) PartialUpdateUser(ctx context.Context, id int64, upd UserUpdate) (*models.User, error) {
	const op = "service.UserService.PartialUpdateUser"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", id))

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if upd.FirstName != "" {
		user.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		user.LastName = upd.LastName
	}
	if upd.Username != "" {
		user.Username = upd.Username
	}
	if upd.Email != "" {
		user.Email = upd.Email
	}
	if upd.Password != "" {
		passHash, err := bcrypt.GenerateFromPassword([]byte(upd.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("failed to hash password", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
		}
		user.PassHash = passHash
	}

	return s.saveUser(ctx, op, user)
}

func (s *UserService) saveUser(ctx context.Context, op string, user *models.User) (*models.User, error) {
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		if storage.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		s.log.Error("failed to update user", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update user: %w", op, err)
	}
	updated, err := s.userRepo.GetUserByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to reload user: %w", op, err)
	}
	return updated, nil
}

// ChangeUserStatus overwrites the target's role. Admin gate on the caller.
func (s *UserService) ChangeUserStatus(ctx context.Context, caller string, targetID int64, status models.UserStatus) (*models.User, error) {
	const op = "service.UserService.ChangeUserStatus"
	logger := s.log.With(slog.String("op", op), slog.String("caller", caller), slog.Int64("targetID", targetID))

	if _, err := s.access.requireAdmin(ctx, caller); err != nil {
		logger.Warn("admin gate rejected caller", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.userRepo.UpdateUserStatus(ctx, targetID, status); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		logger.Error("failed to update status", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update status: %w", op, err)
	}

	target, err := s.userRepo.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to reload user: %w", op, err)
	}
	logger.Info("user status changed", slog.String("status", string(status)))
	return target, nil
}
