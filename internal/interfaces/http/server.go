// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/commerce-analytics/internal/config"
	"github.com/your-org/commerce-analytics/internal/domain/analytics"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/redis"
	"github.com/your-org/commerce-analytics/internal/interfaces/http/handlers"
	"github.com/your-org/commerce-analytics/internal/interfaces/http/middleware"
	"github.com/your-org/commerce-analytics/internal/interfaces/http/routes"
	"github.com/your-org/commerce-analytics/internal/pkg/auth"
)

// HealthCheck probes one backing service
type HealthCheck func(ctx context.Context) error

// Dependencies are the collaborators the server routes to
type Dependencies struct {
	Analytics    *analytics.Service
	Logger       *logrus.Logger
	RateLimiter  *redis.RateLimiter // nil disables rate limiting
	HealthChecks map[string]HealthCheck
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	deps       Dependencies
	gin        *gin.Engine
	httpServer *http.Server
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Server{
		config:    cfg,
		deps:      deps,
		startedAt: time.Now(),
	}
}

// Handler builds the gin engine with middleware and routes
func (s *Server) Handler() http.Handler {
	if s.gin != nil {
		return s.gin
	}

	// Set Gin mode based on environment
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.gin = gin.New()
	if len(s.config.Security.TrustedProxies) > 0 {
		if err := s.gin.SetTrustedProxies(s.config.Security.TrustedProxies); err != nil {
			s.deps.Logger.WithError(err).Warn("Ignoring invalid trusted proxies")
		}
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s.gin
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	log.Printf("🚀 HTTP Server starting on port %s", s.config.Server.Port)
	log.Printf("🌐 API Base URL: http://localhost:%s/api/v1/analytics", s.config.Server.Port)
	log.Printf("📊 Health Check: http://localhost:%s/health", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	log.Println("🛑 Shutting down HTTP server...")

	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	log.Println("✅ HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	// Recovery middleware - recover from panics
	s.gin.Use(gin.Recovery())

	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.deps.Logger))
	s.gin.Use(middleware.Metrics())
	s.gin.Use(middleware.CORS(s.config.Security))
	s.gin.Use(middleware.SecurityHeaders())
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	// Probes and metrics (no auth required)
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)
	s.gin.GET("/metrics", middleware.MetricsHandler())

	apiV1 := s.gin.Group("/api/v1")
	if s.deps.RateLimiter != nil {
		apiV1.Use(middleware.RateLimit(s.deps.RateLimiter, s.deps.Logger))
	}
	apiV1.Use(middleware.Timeout(s.config.Server.RequestTimeout))

	analyticsHandler := handlers.NewAnalyticsHandler(s.deps.Analytics, s.deps.Logger)
	routes.SetupAnalyticsRoutes(apiV1, analyticsHandler, auth.NewJWTManager(s.config))
}

// healthCheck probes every backing service
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true
	for name, check := range s.deps.HealthChecks {
		if err := check(ctx); err != nil {
			s.deps.Logger.WithError(err).WithField("dependency", name).Warn("Health check failed")
			checks[name] = "unhealthy"
			healthy = false
			continue
		}
		checks[name] = "healthy"
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":      status,
		"checks":      checks,
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}
