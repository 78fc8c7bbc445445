package bookings

import (
	"time"

	"charterly/internal/shared/middleware"
	"charterly/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupBookingRoutes configures the customer workflow routes and the admin
// lifecycle routes. Workflow routes allow guest checkout, so authentication
// is optional there.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, db *gorm.DB, adminCheckTimeout time.Duration, limiter *ratelimit.RateLimiter) {
	sessions := rg.Group("/bookings/sessions")
	sessions.Use(middleware.OptionalJWTAuth())
	if limiter != nil {
		sessions.Use(ratelimit.Middleware(limiter, ratelimit.RateLimitTypeBooking))
	}
	{
		sessions.POST("", controller.StartSession)
		sessions.GET("/:id", controller.GetSession)
		sessions.PATCH("/:id/selections", controller.UpdateSelections)
		sessions.PATCH("/:id/details", controller.UpdateDetails)
		sessions.POST("/:id/advance", controller.Advance)
		sessions.POST("/:id/back", controller.Back)
		sessions.POST("/:id/submit", controller.Submit)
		sessions.DELETE("/:id", controller.AbandonSession)
	}

	authed := rg.Group("/bookings")
	authed.Use(middleware.JWTAuth())
	{
		authed.GET("/me", controller.ListMyBookings)
	}

	admin := rg.Group("/admin/bookings")
	admin.Use(middleware.JWTAuth(), middleware.RequireVerifiedAdmin(db, adminCheckTimeout))
	{
		admin.GET("", controller.ListBookings)
		admin.GET("/:id", controller.GetBooking)
		admin.PATCH("/:id/status", controller.UpdateStatus)
	}
}
