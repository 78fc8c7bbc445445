package discounts

import (
	"time"

	"charterly/internal/shared/middleware"
	"charterly/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupDiscountRoutes configures the public validation endpoint and admin CRUD
func SetupDiscountRoutes(rg *gin.RouterGroup, controller *Controller, db *gorm.DB, adminCheckTimeout time.Duration, limiter *ratelimit.RateLimiter) {
	public := rg.Group("/discounts")
	if limiter != nil {
		public.Use(ratelimit.Middleware(limiter, ratelimit.RateLimitTypePublic))
	}
	{
		public.POST("/validate", controller.Validate)
	}

	admin := rg.Group("/admin/discounts")
	admin.Use(middleware.JWTAuth(), middleware.RequireVerifiedAdmin(db, adminCheckTimeout))
	{
		admin.POST("", controller.Create)
		admin.GET("", controller.List)
		admin.GET("/:id", controller.Get)
		admin.PUT("/:id", controller.Update)
		admin.DELETE("/:id", controller.Delete)
	}
}
