package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/transitpadi/transit-backend/internal/admin"
	"github.com/transitpadi/transit-backend/internal/auth"
	"github.com/transitpadi/transit-backend/internal/bookings"
	"github.com/transitpadi/transit-backend/internal/drivers"
	"github.com/transitpadi/transit-backend/internal/notifications"
	"github.com/transitpadi/transit-backend/internal/promos"
	"github.com/transitpadi/transit-backend/internal/settings"
	"github.com/transitpadi/transit-backend/internal/trips"
	"github.com/transitpadi/transit-backend/internal/wallet"
	"github.com/transitpadi/transit-backend/pkg/cache"
	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/config"
	"github.com/transitpadi/transit-backend/pkg/database"
	apperrors "github.com/transitpadi/transit-backend/pkg/errors"
	"github.com/transitpadi/transit-backend/pkg/logger"
	"github.com/transitpadi/transit-backend/pkg/middleware"
	redisclient "github.com/transitpadi/transit-backend/pkg/redis"
	"go.uber.org/zap"
)

const (
	serviceName = "transit-api"
	version     = "1.0.0"
)

func main() {
	// Load configuration
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting transit API", zap.String("version", version))

	// Initialize Sentry (no-op without SENTRY_DSN)
	if enabled, err := apperrors.InitSentry(apperrors.DefaultSentryConfig()); err != nil {
		log.Warn("Failed to initialize Sentry", zap.Error(err))
	} else if enabled {
		defer apperrors.Flush(2 * time.Second)
	}

	// Initialize database
	db, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	log.Info("Connected to database")

	if err := database.RunMigrations(&cfg.Database); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize Redis. The API degrades without it: no response caching and
	// no transport-level idempotency, but the database keeps funding and
	// booking writes safe.
	var redisConn *redisclient.Client
	var cacheManager *cache.Manager
	if redisConn, err = redisclient.NewRedisClient(&cfg.Redis); err != nil {
		log.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
		redisConn = nil
	} else {
		defer redisConn.Close()
		cacheManager = cache.NewManager(redisConn)
		log.Info("Connected to Redis")
	}

	// Notification channels are optional per deployment
	var push notifications.PushSender
	if cfg.Firebase.Enabled {
		fcm, err := notifications.NewFirebaseClient(context.Background(), cfg.Firebase.CredentialsPath)
		if err != nil {
			log.Warn("Failed to initialize Firebase messaging", zap.Error(err))
		} else {
			push = fcm
			log.Info("Firebase messaging enabled")
		}
	}

	var sms notifications.SMSSender
	if cfg.Twilio.Enabled {
		sms = notifications.NewTwilioClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
		log.Info("Twilio SMS enabled")
	}

	if cfg.Paystack.SecretKey == "" {
		log.Warn("PAYSTACK_SECRET_KEY not set, wallet funding will be rejected")
	}

	// Wire repositories, services and handlers
	settingsRepo := settings.NewRepository(db)
	settingsService := settings.NewService(settingsRepo, cacheManager)
	settingsHandler := settings.NewHandler(settingsService)

	authRepo := auth.NewRepository(db)
	authService := auth.NewService(authRepo, cfg.JWT, cfg.Referral, settingsService)
	authHandler := auth.NewHandler(authService)

	tripRepo := trips.NewRepository(db)
	tripService := trips.NewService(tripRepo)
	tripHandler := trips.NewHandler(tripService)

	promoRepo := promos.NewRepository(db)
	promoService := promos.NewService(promoRepo)
	promoHandler := promos.NewHandler(promoService)

	notificationRepo := notifications.NewRepository(db)
	notificationService := notifications.NewService(notificationRepo, push, sms, cfg.Firebase.AdminTopic)
	notificationHandler := notifications.NewHandler(notificationService)

	bookingRepo := bookings.NewRepository(db)
	bookingService := bookings.NewService(bookingRepo, tripService, settingsService, promoService, notificationService)
	bookingHandler := bookings.NewHandler(bookingService)

	var verifier wallet.PaymentVerifier
	if cfg.Paystack.SecretKey != "" {
		verifier = wallet.NewResilientPaystackClient(cfg.Paystack.BaseURL, cfg.Paystack.SecretKey, nil)
	}
	walletRepo := wallet.NewRepository(db)
	walletService := wallet.NewService(walletRepo, verifier)
	walletHandler := wallet.NewHandler(walletService)

	driverRepo := drivers.NewRepository(db)
	driverService := drivers.NewService(driverRepo)
	driverHandler := drivers.NewHandler(driverService)

	adminRepo := admin.NewRepository(db)
	adminService := admin.NewService(adminRepo, cacheManager)
	adminHandler := admin.NewHandler(adminService)

	// Setup Gin router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger(serviceName))
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.SentryMiddleware())
	router.Use(middleware.RequestTimeout(cfg.Server.RequestTimeoutDuration()))
	if redisConn != nil {
		router.Use(middleware.Idempotency(redisConn))
	}

	// Health checks
	router.GET("/healthz", common.HealthCheck(serviceName, version))
	router.GET("/readyz", common.ReadinessProbe(serviceName, version, map[string]func() error{
		"database": func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return db.Ping(ctx)
		},
		"redis": func() error {
			if redisConn == nil {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisConn.Ping(ctx)
		},
	}))

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register routes
	authHandler.RegisterRoutes(router, cfg.JWT.Secret)
	tripHandler.RegisterRoutes(router, cfg.JWT.Secret)
	settingsHandler.RegisterRoutes(router, cfg.JWT.Secret)
	promoHandler.RegisterRoutes(router, cfg.JWT.Secret)
	bookingHandler.RegisterRoutes(router, cfg.JWT.Secret)
	walletHandler.RegisterRoutes(router, cfg.JWT.Secret)
	driverHandler.RegisterRoutes(router, cfg.JWT.Secret)
	notificationHandler.RegisterRoutes(router, cfg.JWT.Secret)
	adminHandler.RegisterRoutes(router, cfg.JWT.Secret)

	// Setup HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Server.Port), zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with 30 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
