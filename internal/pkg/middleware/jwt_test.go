package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	jwtpkg "github.com/drivemate/drivemate/internal/pkg/jwt"
	"github.com/drivemate/drivemate/internal/pkg/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() models.JWTConfig {
	return models.JWTConfig{
		Secret:     "test-secret",
		Expiration: 60,
		Issuer:     "drivemate-test",
	}
}

func invokeWithHeader(t *testing.T, cfg models.JWTConfig, authHeader string) (*httptest.ResponseRecorder, uuid.UUID, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID uuid.UUID
	var gotOK bool
	handler := JWTAuthMiddleware(cfg)(func(c echo.Context) error {
		gotID, gotOK = UserIDFromContext(c)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	return rec, gotID, gotOK
}

func TestJWTAuthMiddlewareAcceptsMintedToken(t *testing.T) {
	cfg := &models.Config{JWT: testJWTConfig()}
	userID := uuid.New()

	token, _, err := jwtpkg.GenerateToken(userID, "provider", cfg)
	require.NoError(t, err)

	rec, gotID, gotOK := invokeWithHeader(t, cfg.JWT, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, gotOK, "handler should see the authenticated account")
	assert.Equal(t, userID, gotID)
}

func TestJWTAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	mintCfg := &models.Config{JWT: models.JWTConfig{Secret: "other-secret", Expiration: 60, Issuer: "drivemate-test"}}
	token, _, err := jwtpkg.GenerateToken(uuid.New(), "provider", mintCfg)
	require.NoError(t, err)

	rec, _, gotOK := invokeWithHeader(t, testJWTConfig(), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, gotOK)
}

func TestJWTAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	rec, _, gotOK := invokeWithHeader(t, testJWTConfig(), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, gotOK)
}

func TestJWTAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	rec, _, gotOK := invokeWithHeader(t, testJWTConfig(), "Token abc.def.ghi")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, gotOK)
}
