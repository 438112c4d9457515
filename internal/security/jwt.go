package security

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/olimov/ecomshop/internal/domain/models"
)

// Token types carried in the "typ" claim. The middleware only accepts access
// tokens; refresh tokens are spent at the refresh endpoint.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

func secret() ([]byte, error) {
	secretStr := os.Getenv("JWT_SECRET")
	if secretStr == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}
	return []byte(secretStr), nil
}

// NewToken issues a signed token of the given type for the user, with the
// username as subject.
func NewToken(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": user.Username,
		"typ": tokenType,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	key, err := secret()
	if err != nil {
		return "", err
	}
	return token.SignedString(key)
}

// NewTokenPair issues the access+refresh pair returned by login.
func NewTokenPair(user *models.User, accessTTL, refreshTTL time.Duration) (access string, refresh string, err error) {
	access, err = NewToken(user, TokenTypeAccess, accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err = NewToken(user, TokenTypeRefresh, refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return access, refresh, nil
}

// ParseToken validates signature, expiry and token type and returns the
// subject username.
func ParseToken(tokenStr, wantType string) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != wantType {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
