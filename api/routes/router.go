package routes

import (
	"net/http"
	"time"

	"charterly/internal/analytics"
	"charterly/internal/auth"
	"charterly/internal/bookings"
	"charterly/internal/discounts"
	"charterly/internal/notifications"
	"charterly/internal/shared/config"
	"charterly/internal/shared/database"
	"charterly/internal/tours"
	"charterly/pkg/cache"
	"charterly/pkg/logger"
	"charterly/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config      *config.Config
	db          *database.DB
	rateLimiter *ratelimit.RateLimiter
	producer    notifications.Producer
	log         *logger.Logger

	cacheService    cache.Service
	tourService     tours.Service
	discountService discounts.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, rateLimiter *ratelimit.RateLimiter, producer notifications.Producer, log *logger.Logger) *Router {
	return &Router{
		config:      cfg,
		db:          db,
		rateLimiter: rateLimiter,
		producer:    producer,
		log:         log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	if client := r.db.GetRedisClient(); client != nil {
		r.cacheService = cache.NewService(client)
	}

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupTourRoutes(api)
		r.setupDiscountRoutes(api)
		r.setupBookingRoutes(api)
		r.setupAnalyticsRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "charterly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "charterly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController)
	authRouter.SetupRoutes(rg)
}

func (r *Router) setupTourRoutes(rg *gin.RouterGroup) {
	tourRepo := tours.NewRepository(r.db.GetPostgreSQL())
	tourService := tours.NewService(tourRepo)
	if r.cacheService != nil {
		tourService.SetCacheService(r.cacheService)
	}
	r.tourService = tourService

	tourController := tours.NewController(tourService)
	tours.SetupTourRoutes(rg, tourController, r.db.GetPostgreSQL(), r.config.Booking.AdminCheckTimeout)
}

func (r *Router) setupDiscountRoutes(rg *gin.RouterGroup) {
	discountRepo := discounts.NewRepository(r.db.GetPostgreSQL())
	discountService := discounts.NewService(discountRepo)
	if r.cacheService != nil {
		discountService.SetCacheService(r.cacheService)
	}
	r.discountService = discountService

	discountController := discounts.NewController(discountService)
	discounts.SetupDiscountRoutes(rg, discountController, r.db.GetPostgreSQL(), r.config.Booking.AdminCheckTimeout, r.rateLimiter)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	sessionStore := bookings.NewSessionStore(r.cacheService, r.config.Booking.SessionTTL)
	notifier := notifications.NewService(r.producer, r.log)

	bookingService := bookings.NewService(
		bookingRepo,
		sessionStore,
		r.tourService,
		r.discountService,
		notifier,
		bookings.TravelDiscountPolicy(r.config.Booking.TravelDiscountPolicy),
		r.log,
	)

	bookingController := bookings.NewController(bookingService)
	bookings.SetupBookingRoutes(rg, bookingController, r.db.GetPostgreSQL(), r.config.Booking.AdminCheckTimeout, r.rateLimiter)
}

func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	analyticsRepo := analytics.NewRepository(r.db.GetPostgreSQL())
	analyticsService := analytics.NewService(analyticsRepo)
	if r.cacheService != nil {
		analyticsService.SetCacheService(r.cacheService)
	}

	analyticsController := analytics.NewController(analyticsService)
	analytics.SetupAnalyticsRoutes(rg, analyticsController, r.db.GetPostgreSQL(), r.config.Booking.AdminCheckTimeout)
}
