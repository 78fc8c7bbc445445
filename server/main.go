package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"charterly/api/routes"
	"charterly/internal/notifications"
	"charterly/internal/shared/config"
	"charterly/internal/shared/database"
	"charterly/pkg/logger"
	"charterly/pkg/ratelimit"

	"github.com/IBM/sarama"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db.GetPostgreSQL()); err != nil {
		appLogger.Error("Failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Rate limiter
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), &ratelimit.Config{
			Enabled:         cfg.RateLimit.Enabled,
			WindowDuration:  cfg.RateLimit.WindowDuration,
			DefaultRequests: cfg.RateLimit.DefaultRequests,
			PublicRequests:  cfg.RateLimit.PublicRequests,
			AuthRequests:    cfg.RateLimit.AuthRequests,
			BookingRequests: cfg.RateLimit.BookingRequests,
			AdminRequests:   cfg.RateLimit.AdminRequests,
			WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// Notification pipeline. A broker failure is not fatal: bookings still
	// work, notifications degrade to log-only.
	var producer notifications.Producer
	var consumer notifications.Consumer
	if cfg.Kafka.Enabled {
		producerConfig := notifications.DefaultProducerConfig()
		producerConfig.Brokers = cfg.Kafka.Brokers
		producerConfig.Topic = cfg.Kafka.NotificationTopic
		producerConfig.RequiredAcks = sarama.WaitForAll

		producer, err = notifications.NewKafkaProducer(producerConfig, appLogger)
		if err != nil {
			appLogger.Error("Failed to initialize Kafka producer, notifications will be log-only", slog.Any("error", err))
			producer = nil
		}

		if emailService := buildEmailService(cfg, appLogger); emailService != nil {
			consumerConfig := notifications.DefaultConsumerConfig()
			consumerConfig.Brokers = cfg.Kafka.Brokers
			consumerConfig.Topics = []string{cfg.Kafka.NotificationTopic}
			consumerConfig.GroupID = cfg.Kafka.ConsumerGroupID

			consumer, err = notifications.NewKafkaConsumer(consumerConfig, emailService, appLogger)
			if err != nil {
				appLogger.Error("Failed to initialize notification consumer", slog.Any("error", err))
				consumer = nil
			}
		} else {
			appLogger.Info("SMTP not configured, notification consumer disabled")
		}
	} else {
		appLogger.Info("Kafka disabled, notifications will be log-only")
	}

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()
	if consumer != nil {
		if err := consumer.Start(consumerCtx, cfg.Kafka.ConsumerWorkers); err != nil {
			appLogger.Error("Failed to start notification consumer", slog.Any("error", err))
		}
		defer func() {
			if err := consumer.Stop(); err != nil {
				appLogger.Error("Error stopping notification consumer", slog.Any("error", err))
			}
		}()
	}
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				appLogger.Error("Error closing notification producer", slog.Any("error", err))
			}
		}()
	}

	router := setupRouter(cfg, db, rateLimiter, producer, appLogger)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("api_base", cfg.GetAPIBasePath()),
			slog.Bool("redis_cache", db.GetRedisClient() != nil),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
			slog.Bool("notifications", producer != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func buildEmailService(cfg *config.Config, appLogger *logger.Logger) notifications.EmailService {
	if cfg.Email.SMTPHost == "" {
		return nil
	}
	emailService, err := notifications.NewSMTPEmailService(notifications.SMTPConfigFrom(cfg.Email), appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize email service", slog.Any("error", err))
		return nil
	}
	return emailService
}

func setupRouter(cfg *config.Config, db *database.DB, rateLimiter *ratelimit.RateLimiter, producer notifications.Producer, appLogger *logger.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(requestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	appRouter := routes.NewRouter(cfg, db, rateLimiter, producer, appLogger)
	appRouter.SetupRoutes(engine)

	return engine
}

func requestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogRequest(c, time.Since(start), c.Writer.Status())
	}
}
