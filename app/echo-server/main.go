package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appmetrics "segmentReco/app/echo-server/metrics"
	"segmentReco/app/echo-server/router"
	"segmentReco/business/product"
	"segmentReco/business/segment"
	userService "segmentReco/business/user"
	"segmentReco/internal/middleware"
	"segmentReco/internal/repository/artifact"
	"segmentReco/internal/repository/catalog"
	psqlRepo "segmentReco/internal/repository/postgres"
	redisRepo "segmentReco/internal/repository/redis"
	"segmentReco/internal/rest"
	"segmentReco/pkg/config"
	"segmentReco/pkg/database"
	redisdb "segmentReco/pkg/database/redis"
	"segmentReco/pkg/logger"
	"segmentReco/pkg/metrics"
	"segmentReco/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting segment recommender", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey, cfg.JWT.TTL)
	metrics.Init()

	scoring := segment.DefaultConfig()
	if err := config.LoadScoring(cfg.Model.ScoringConfigPath, &scoring); err != nil {
		logger.Fatal("Failed to load scoring config", "error", err)
	}
	if err := scoring.Validate(); err != nil {
		logger.Fatal("Invalid scoring config", "error", err)
	}

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := psqlRepo.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis is optional; without it tokens are checked by signature only.
	var redisClient *redis.Client
	var sessions userService.SessionStore
	if cfg.Redis.Enabled() {
		redisClient, err = redisdb.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		sessions = redisRepo.NewTokenRepository(redisClient)
		logger.Info("Redis connected successfully")
	}

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	segmentRepo := psqlRepo.NewUserSegmentRepository(db)
	predictionLogRepo := psqlRepo.NewPredictionLogRepository(db)

	catalogRepo := catalog.NewBreakerRepository(productRepo, catalog.BreakerConfig{
		Name:     "product-catalog",
		Failures: cfg.Catalog.BreakerFailures,
		Timeout:  cfg.Catalog.BreakerTimeout,
	})

	// Model artifacts; a failed warm-up leaves the service answering 503
	// until an admin reload succeeds.
	models := segment.NewModelCache(artifact.NewFileLoader(cfg.Model.Dir))
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := models.Warm(warmCtx); err != nil {
		logger.Error("Model artifacts not loaded", "dir", cfg.Model.Dir, "error", err)
	}
	warmCancel()

	auditor := segment.NewAuditEmitter(predictionLogRepo, segmentRepo, segment.AuditConfig{
		BufferSize:   cfg.Audit.BufferSize,
		WriteTimeout: cfg.Audit.WriteTimeout,
	})

	// Init service
	userService := userService.NewUserService(userRepo, segmentRepo, predictionLogRepo, sessions, validate)
	productService := product.NewProductService(productRepo)

	if cfg.Admin.Email != "" {
		seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := userService.EnsureAdmin(seedCtx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			logger.Fatal("Failed to seed admin account", "email", cfg.Admin.Email, "error", err)
		}
		seedCancel()
	}

	segmentService := segment.NewSegmentService(models, catalogRepo, auditor, scoring)

	// Init handler
	userHandler := rest.NewUserHandler(userService)
	productHandler := rest.NewProductHandler(productService)
	segmentHandler := rest.NewSegmentHandler(segmentService)
	modelHandler := rest.NewModelAdminHandler(segmentService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = rest.JSONSerializer{}

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Trace())
	e.Use(appmetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	if cfg.Redis.Enabled() {
		authRequired = middleware.AuthMiddlewareWithRedis(userService)
	}
	adminOnly := middleware.AdminOnly()

	// Setup routes
	router.SetupHealthRoutes(e, cfg.App.Name, cfg.App.Version)
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired)
	router.SetupProductRoutes(api, productHandler)
	router.SetupSegmentRoutes(api, segmentHandler, authRequired)
	router.SetupModelRoutes(api, modelHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	// Flush pending audit records after the last request has finished.
	if err := auditor.Close(); err != nil {
		logger.Error("Audit emitter close error", "error", err)
	}

	if redisClient != nil {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Redis close error", "error", err)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("Server stopped")
}
