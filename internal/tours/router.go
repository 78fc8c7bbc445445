package tours

import (
	"time"

	"charterly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupTourRoutes configures public tour routes and the admin editor routes
func SetupTourRoutes(rg *gin.RouterGroup, controller *Controller, db *gorm.DB, adminCheckTimeout time.Duration) {
	// Public catalogue routes
	public := rg.Group("/tours")
	{
		public.GET("", controller.ListTours)
		public.GET("/:id", controller.GetTour)
		public.GET("/:id/linked", controller.GetLinkedTours)
	}

	// Admin tour management and feature editor
	admin := rg.Group("/admin/tours")
	admin.Use(middleware.JWTAuth(), middleware.RequireVerifiedAdmin(db, adminCheckTimeout))
	{
		admin.POST("", controller.CreateTour)
		admin.PUT("/:id", controller.UpdateTour)
		admin.DELETE("/:id", controller.DeleteTour)

		admin.PUT("/:id/features", controller.ReplaceFeatures)
		admin.POST("/:id/features/reset", controller.ResetFeatures)

		admin.POST("/:id/features/categories", controller.AddGuestCategory)
		admin.PUT("/:id/features/categories", controller.UpdateGuestCategory)
		admin.DELETE("/:id/features/categories", controller.RemoveGuestCategory)

		admin.POST("/:id/features/addons", controller.AddAddon)
		admin.PUT("/:id/features/addons", controller.UpdateAddon)
		admin.DELETE("/:id/features/addons", controller.RemoveAddon)

		admin.POST("/:id/features/vehicles", controller.AddVehicle)
		admin.PUT("/:id/features/vehicles", controller.UpdateVehicle)
		admin.DELETE("/:id/features/vehicles", controller.RemoveVehicle)

		admin.POST("/:id/features/info", controller.AddInfoItem)
		admin.PUT("/:id/features/info", controller.UpdateInfoItem)
		admin.DELETE("/:id/features/info", controller.RemoveInfoItem)
	}
}
