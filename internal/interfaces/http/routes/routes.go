// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/commerce-analytics/internal/domain/user"
	"github.com/your-org/commerce-analytics/internal/interfaces/http/handlers"
	"github.com/your-org/commerce-analytics/internal/interfaces/http/middleware"
	"github.com/your-org/commerce-analytics/internal/pkg/auth"
)

// SetupAnalyticsRoutes sets up the dashboard analytics routes. Only admins and managers
// may read reports.
func SetupAnalyticsRoutes(rg *gin.RouterGroup, analyticsHandler *handlers.AnalyticsHandler, jwtManager *auth.JWTManager) {
	analytics := rg.Group("/analytics")
	analytics.Use(middleware.AuthMiddleware(jwtManager))
	analytics.Use(middleware.RoleMiddleware(user.RoleAdmin, user.RoleManager))
	{
		analytics.GET("/report", analyticsHandler.GetReport)
		analytics.GET("/sales", analyticsHandler.GetSales)
		analytics.GET("/inventory", analyticsHandler.GetInventory)
		analytics.GET("/customers", analyticsHandler.GetCustomers)
		analytics.GET("/operations", analyticsHandler.GetOperations)
		analytics.GET("/financial", analyticsHandler.GetFinancial)
		analytics.GET("/export", analyticsHandler.ExportReport)
	}
}
