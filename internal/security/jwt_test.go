package security_test

import (
	"testing"
	"time"

	"github.com/olimov/ecomshop/internal/domain/models"
	"github.com/olimov/ecomshop/internal/security"
	"github.com/stretchr/testify/assert"
)

func TestNewTokenPair_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	user := &models.User{ID: 1, Username: "alice"}
	access, refresh, err := security.NewTokenPair(user, 50*time.Minute, 24*time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	sub, err := security.ParseToken(access, security.TokenTypeAccess)
	assert.NoError(t, err)
	assert.Equal(t, "alice", sub)

	sub, err = security.ParseToken(refresh, security.TokenTypeRefresh)
	assert.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestParseToken_WrongType(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	user := &models.User{ID: 1, Username: "alice"}
	refresh, err := security.NewToken(user, security.TokenTypeRefresh, 24*time.Hour)
	assert.NoError(t, err)

	// refresh token must not pass as an access token
	_, err = security.ParseToken(refresh, security.TokenTypeAccess)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestParseToken_Tampered(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	user := &models.User{ID: 1, Username: "alice"}
	access, err := security.NewToken(user, security.TokenTypeAccess, 50*time.Minute)
	assert.NoError(t, err)

	tampered := access[:len(access)-2] + "xx"
	_, err = security.ParseToken(tampered, security.TokenTypeAccess)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	user := &models.User{ID: 1, Username: "alice"}
	access, err := security.NewToken(user, security.TokenTypeAccess, -time.Minute)
	assert.NoError(t, err)

	_, err = security.ParseToken(access, security.TokenTypeAccess)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "testsecret")

	user := &models.User{ID: 1, Username: "alice"}
	access, err := security.NewToken(user, security.TokenTypeAccess, 50*time.Minute)
	assert.NoError(t, err)

	t.Setenv("JWT_SECRET", "othersecret")
	_, err = security.ParseToken(access, security.TokenTypeAccess)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}
