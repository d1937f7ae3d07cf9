package auth

import (
	"testing"
	"time"

	"github.com/kawojue/phrednetwork/config"
	"github.com/kawojue/phrednetwork/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "phrednetwork"}

	token, err := GenerateToken(cfg, 42, "ada", domain.RoleUser, domain.StatusActive)
	require.NoError(t, err)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, domain.StatusActive, claims.Status)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "right", Expiry: time.Hour}
	token, err := GenerateToken(cfg, 1, "u", domain.RoleAdmin, domain.StatusActive)
	require.NoError(t, err)

	_, err = ParseToken(&config.JWTConfig{Secret: "wrong"}, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "s", Expiry: -time.Minute}
	token, err := GenerateToken(cfg, 1, "u", domain.RoleUser, domain.StatusActive)
	require.NoError(t, err)

	_, err = ParseToken(cfg, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
