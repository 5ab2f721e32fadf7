package jwt

import (
	"testing"

	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCfg() *models.Config {
	return &models.Config{
		JWT: models.JWTConfig{
			Secret:     "test-secret",
			Expiration: 60,
			Issuer:     "drivemate-test",
		},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testCfg()
	userID := uuid.New()

	tokenString, expiresAt, err := GenerateToken(userID, "provider", cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.Greater(t, expiresAt, int64(0))

	claims, err := ValidateToken(tokenString, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), (*claims)["user_id"])
	assert.Equal(t, "provider", (*claims)["role"])
	assert.Equal(t, cfg.JWT.Issuer, (*claims)["iss"])
}

func TestValidateTokenWrongSecret(t *testing.T) {
	cfg := testCfg()

	tokenString, _, err := GenerateToken(uuid.New(), "user", cfg)
	require.NoError(t, err)

	_, err = ValidateToken(tokenString, "someone-elses-secret")
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", "test-secret")
	assert.Error(t, err)
}
