package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/your-org/commerce-analytics/internal/config"
	"github.com/your-org/commerce-analytics/internal/domain/analytics"
	"github.com/your-org/commerce-analytics/internal/domain/user"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/memory"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/redis"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/sample"
	"github.com/your-org/commerce-analytics/internal/pkg/auth"
	"github.com/your-org/commerce-analytics/internal/pkg/export"
)

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Name: "Commerce Analytics", Version: "test", Environment: "test", StoreDriver: config.StoreDriverMemory},
		Server: config.ServerConfig{Port: "0", RequestTimeout: 5 * time.Second},
		JWT:    config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", AccessTokenExpiry: time.Hour},
		Security: config.SecurityConfig{
			RateLimitPerMinute: 2,
			CORSAllowedOrigins: []string{"http://localhost:3000"},
			CORSAllowedMethods: []string{"GET", "OPTIONS"},
			CORSAllowedHeaders: []string{"Authorization"},
		},
		Export: config.ExportConfig{CompanyName: "Test Store"},
	}
}

func newTestServer(t *testing.T, deps Dependencies) (*config.Config, http.Handler) {
	t.Helper()
	cfg := testConfig()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	deps.Logger = logger

	if deps.Analytics == nil {
		store := memory.NewStore()
		store.Load(sample.Build(time.Now()))
		deps.Analytics = analytics.NewService(store, analytics.DefaultOptions(), logger)
		export.Register(deps.Analytics, cfg.Export)
	}

	return cfg, NewServer(cfg, deps).Handler()
}

func bearer(t *testing.T, cfg *config.Config, role user.Role) string {
	t.Helper()
	token, err := auth.NewJWTManager(cfg).GenerateAccessToken("user-1", "ops@example.com", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(handler http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestAnalyticsRoutesRequireManagerOrAdmin(t *testing.T) {
	cfg, handler := newTestServer(t, Dependencies{})

	tests := []struct {
		name          string
		authorization string
		wantStatus    int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"customer", bearer(t, cfg, user.RoleCustomer), http.StatusForbidden},
		{"manager", bearer(t, cfg, user.RoleManager), http.StatusOK},
		{"admin", bearer(t, cfg, user.RoleAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := do(handler, "/api/v1/analytics/report", tt.authorization)
			require.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

func TestExportThroughRouter(t *testing.T) {
	cfg, handler := newTestServer(t, Dependencies{})

	recorder := do(handler, "/api/v1/analytics/export?format=csv", bearer(t, cfg, user.RoleAdmin))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "text/csv", recorder.Header().Get("Content-Type"))
	require.Contains(t, recorder.Header().Get("Content-Disposition"), ".csv")
	require.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}

func TestHealthReportsFailingDependencies(t *testing.T) {
	_, handler := newTestServer(t, Dependencies{
		HealthChecks: map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("dial tcp: connection refused") },
		},
	})

	recorder := do(handler, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, "unhealthy", body.Status)
	require.Equal(t, map[string]string{"database": "healthy", "redis": "unhealthy"}, body.Checks)
}

func TestProbes(t *testing.T) {
	_, handler := newTestServer(t, Dependencies{})

	require.Equal(t, http.StatusOK, do(handler, "/health", "").Code)
	require.Equal(t, http.StatusOK, do(handler, "/ready", "").Code)

	metrics := do(handler, "/metrics", "")
	require.Equal(t, http.StatusOK, metrics.Code)
	require.Contains(t, metrics.Body.String(), "http_requests_in_flight")
}

func TestRateLimitedAPI(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	limiter := redis.NewRateLimiter(client, 2, time.Minute)

	cfg, handler := newTestServer(t, Dependencies{RateLimiter: limiter})
	token := bearer(t, cfg, user.RoleAdmin)

	require.Equal(t, http.StatusOK, do(handler, "/api/v1/analytics/sales", token).Code)
	require.Equal(t, http.StatusOK, do(handler, "/api/v1/analytics/sales", token).Code)
	require.Equal(t, http.StatusTooManyRequests, do(handler, "/api/v1/analytics/sales", token).Code)

	// probes sit outside the limited group
	require.Equal(t, http.StatusOK, do(handler, "/ready", "").Code)
}
