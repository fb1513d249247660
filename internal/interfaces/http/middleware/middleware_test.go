package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/your-org/commerce-analytics/internal/config"
	"github.com/your-org/commerce-analytics/internal/domain/user"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/redis"
	"github.com/your-org/commerce-analytics/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager(&config.Config{
		App: config.AppConfig{Name: "test"},
		JWT: config.JWTConfig{Secret: "test-secret-that-is-at-least-32-characters", AccessTokenExpiry: time.Hour},
	})
}

func TestAuthAndRoleMiddleware(t *testing.T) {
	jwtManager := testJWTManager()

	router := gin.New()
	router.GET("/reports", AuthMiddleware(jwtManager), RoleMiddleware(user.RoleAdmin, user.RoleManager), func(c *gin.Context) {
		id, _ := GetUserIDFromContext(c)
		c.String(http.StatusOK, id)
	})

	token := func(role user.Role) string {
		tok, err := jwtManager.GenerateAccessToken("u-"+string(role), string(role)+"@example.com", role)
		require.NoError(t, err)
		return "Bearer " + tok
	}

	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", header: "Token abc", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer abc", wantStatus: http.StatusUnauthorized},
		{name: "customer forbidden", header: token(user.RoleCustomer), wantStatus: http.StatusForbidden},
		{name: "manager allowed", header: token(user.RoleManager), wantStatus: http.StatusOK, wantBody: "u-manager"},
		{name: "admin allowed", header: token(user.RoleAdmin), wantStatus: http.StatusOK, wantBody: "u-admin"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/reports", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatus, recorder.Code)
			if tc.wantBody != "" {
				require.Equal(t, tc.wantBody, recorder.Body.String())
			}
		})
	}
}

func TestRoleMiddlewareWithoutAuth(t *testing.T) {
	router := gin.New()
	router.GET("/", RoleMiddleware(user.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := recorder.Header().Get(requestIDHeader)
	require.Len(t, generated, 36)
	require.Equal(t, generated, recorder.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, "abc-123", recorder.Header().Get(requestIDHeader))
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	limiter := redis.NewRateLimiter(redis.NewClient(rdb), 2, time.Minute)

	router := gin.New()
	router.Use(RateLimit(limiter, quietLogger()))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, recorder.Code)
		if i == 2 {
			require.Equal(t, "0", recorder.Header().Get("X-RateLimit-Remaining"))
			require.NotEmpty(t, recorder.Header().Get("Retry-After"))
		}
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// fail open when redis is gone
	mr.Close()
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestTimeout(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(20 * time.Millisecond))
	router.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	router.GET("/fast", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/slow", nil))
	require.Equal(t, http.StatusGatewayTimeout, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/fast", nil))
	require.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS(config.SecurityConfig{CORSAllowedOrigins: []string{"http://dashboard.local"}}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.Equal(t, "http://dashboard.local", recorder.Header().Get("Access-Control-Allow-Origin"))
}
