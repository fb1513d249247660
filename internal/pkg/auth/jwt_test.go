package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/your-org/commerce-analytics/internal/config"
	"github.com/your-org/commerce-analytics/internal/domain/user"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Commerce Analytics"},
		JWT: config.JWTConfig{
			Secret:            "test-secret-that-is-at-least-32-characters",
			AccessTokenExpiry: time.Hour,
		},
	}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateAccessToken("u-1", "admin@example.com", user.RoleAdmin)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "admin@example.com", claims.Email)
	require.Equal(t, user.RoleAdmin, claims.Role)
	require.True(t, claims.HasRole(user.RoleManager, user.RoleAdmin))
	require.False(t, claims.HasRole(user.RoleCustomer))
}

func TestValidateRejectsBadTokens(t *testing.T) {
	cfg := testConfig()
	m := NewJWTManager(cfg)

	other := testConfig()
	other.JWT.Secret = "another-secret-that-is-at-least-32-chars"
	forged, err := NewJWTManager(other).GenerateAccessToken("u-1", "a@example.com", user.RoleAdmin)
	require.NoError(t, err)

	expiredCfg := testConfig()
	expiredCfg.JWT.AccessTokenExpiry = -time.Minute
	expired, err := NewJWTManager(expiredCfg).GenerateAccessToken("u-1", "a@example.com", user.RoleAdmin)
	require.NoError(t, err)

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:    "u-1",
		Role:      user.RoleAdmin,
		TokenType: "refresh",
	}).SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)

	untyped, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "u-1"}).
		SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", forged},
		{"expired", expired},
		{"refresh token", refresh},
		{"missing type", untyped},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.ValidateAccessToken(tc.token)
			require.Error(t, err)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	require.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	require.Equal(t, "abc", ExtractTokenFromHeader("bearer abc"))
	require.Empty(t, ExtractTokenFromHeader("Basic abc"))
	require.Empty(t, ExtractTokenFromHeader("Bearer "))
}
