package auth

import (
	"charterly/internal/shared/config"
	"charterly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router wires the account endpoints. Tokens are stateless, so there is no
// logout route; clients just drop the pair.
type Router struct {
	controller *Controller
	config     *config.Config
}

func NewRouter(controller *Controller) *Router {
	return &Router{
		controller: controller,
		config:     config.Load(),
	}
}

func (authRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authRouter.controller.Register)
		auth.POST("/login", authRouter.controller.Login)
		auth.POST("/refresh", authRouter.controller.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.JWTAuthWithConfig(authRouter.config))
		{
			protected.PUT("/change-password", authRouter.controller.ChangePassword)
			protected.GET("/me", authRouter.controller.GetMe)
		}
	}
}
