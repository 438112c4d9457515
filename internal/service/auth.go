package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olimov/ecomshop/internal/domain/models"
	"github.com/olimov/ecomshop/internal/security"
	"github.com/olimov/ecomshop/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair is the credential pair issued by a successful login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Register(ctx context.Context, firstName, lastName, username, email, password string) (*models.User, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type AuthService struct {
	log        *slog.Logger
	db         *sql.DB
	userRepo   storage.UserStorage
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(log *slog.Logger, db *sql.DB, userRepo storage.UserStorage, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		log:        log,
		db:         db,
		userRepo:   userRepo,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Login fetches the user by username and compares the password against the
// stored bcrypt hash. A missing user and a wrong password are reported the
// same way so the response does not leak which usernames exist.
func (a *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	const op = "service.AuthService.Login"
	logger := a.log.With(slog.String("op", op), slog.String("username", username))
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	access, refresh, err := security.NewTokenPair(user, a.accessTTL, a.refreshTTL)
	if err != nil {
		logger.Error("failed to generate tokens", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to generate tokens: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Register creates a new user after checking username/email uniqueness.
// Probe and insert run in one transaction; the UNIQUE constraints are the
// backstop for concurrent registrations.
func (a *AuthService) Register(ctx context.Context, firstName, lastName, username, email, password string) (*models.User, error) {
	const op = "service.AuthService.Register"
	logger := a.log.With(slog.String("op", op), slog.String("username", username))
	logger.Info("registering user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	_, err = a.userRepo.GetUserByUsernameOrEmailTx(ctx, tx, username, email)
	if err == nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Warn("user already exists")
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to check existing user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to check existing user: %w", op, err)
	}

	newUser := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		Email:     email,
		PassHash:  passHash,
		Status:    models.StatusUser,
	}
	user, err := a.userRepo.CreateUserTx(ctx, tx, newUser)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		if storage.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		logger.Error("failed to create user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("user registered successfully", slog.Int64("userID", user.ID))
	return user, nil
}

// Refresh spends a refresh token and issues a fresh access token.
func (a *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	const op = "service.AuthService.Refresh"
	logger := a.log.With(slog.String("op", op))

	username, err := security.ParseToken(refreshToken, security.TokenTypeRefresh)
	if err != nil {
		logger.Warn("invalid refresh token", slog.Any("error", err))
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := a.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	access, err := security.NewToken(user, security.TokenTypeAccess, a.accessTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}
	return access, nil
}
