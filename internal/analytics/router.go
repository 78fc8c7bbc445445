package analytics

import (
	"time"

	"charterly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupAnalyticsRoutes configures the admin analytics routes
func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller *Controller, db *gorm.DB, adminCheckTimeout time.Duration) {
	admin := rg.Group("/admin/analytics")
	admin.Use(middleware.JWTAuth(), middleware.RequireVerifiedAdmin(db, adminCheckTimeout))
	{
		admin.GET("/dashboard", controller.GetDashboard)
		admin.GET("/tours/:id", controller.GetTourAnalytics)
	}
}
