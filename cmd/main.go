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
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"rental-service/internal/cache"
	"rental-service/internal/config"
	"rental-service/internal/events"
	"rental-service/internal/handlers"
	"rental-service/internal/health"
	"rental-service/internal/middleware"
	"rental-service/internal/models"
	"rental-service/internal/repository"
	"rental-service/internal/services"
	"rental-service/internal/workers"
)

func main() {
	// Support health check for Docker
	if len(os.Args) > 1 && os.Args[1] == "health" {
		os.Exit(healthCheck())
	}

	// Load .env if present (local development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := setupLogger(cfg)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := initializeDatabase(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}

	if err := runMigrations(db); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}
	logger.Info("Database migrations completed")

	// Event publishing is best-effort; the service runs without a broker
	go func() {
		if err := events.InitPublisher(logger); err != nil {
			logger.WithError(err).Warn("Event publisher unavailable, continuing without events")
		}
	}()

	var redisClient *redis.Client
	vacancyCache := cache.NewVacancyCacheWithoutRedis()
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.WithError(err).Warn("Redis unavailable, vacancy cache will be in-process only")
			redisClient = nil
		} else {
			vacancyCache = cache.NewVacancyCache(redisClient)
			logger.Info("Connected to Redis")
		}
		cancel()
	}

	// Wire repositories, services and handlers
	tenantRepo := repository.NewTenantRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	contractRepo := repository.NewContractRepository(db)

	tenantService := services.NewTenantService(tenantRepo)
	roomService := services.NewRoomService(roomRepo, vacancyCache)
	contractService := services.NewContractService(contractRepo, vacancyCache)

	tenantHandler := handlers.NewTenantHandler(tenantService)
	roomHandler := handlers.NewRoomHandler(roomService)
	contractHandler := handlers.NewContractHandler(contractService)

	healthChecker := health.NewHealthChecker(db, cfg.App.Version)

	refresher := workers.NewVacancyRefresher(roomService, logger, 5*time.Minute)
	refresher.Start()

	// Keep the rooms-by-status gauge fresh
	occupancyDone := make(chan struct{})
	go reportOccupancy(roomRepo, logger, occupancyDone)

	router := setupRouter(cfg, logger, healthChecker, tenantHandler, roomHandler, contractHandler)

	healthChecker.SetReady(true)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"environment": cfg.App.Environment,
		}).Info("Starting rental service")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	healthChecker.SetReady(false)

	close(occupancyDone)
	refresher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	if publisher := events.GetPublisher(); publisher != nil {
		publisher.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("Server exited")
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	logrus.SetLevel(level)

	return logger
}

func initializeDatabase(cfg *config.Config, logger *logrus.Logger) (*gorm.DB, error) {
	gormLogLevel := gormlogger.Warn
	if cfg.App.Environment == "development" {
		gormLogLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"host": cfg.Database.Host,
		"db":   cfg.Database.DBName,
	}).Info("Connected to database")

	return db, nil
}

func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Tenant{},
		&models.Room{},
		&models.Contract{},
	)
}

// reportOccupancy polls room counts per status into the metrics gauge
func reportOccupancy(roomRepo repository.RoomRepository, logger *logrus.Logger, done <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	report := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		counts, err := roomRepo.CountByStatus(ctx)
		if err != nil {
			logger.WithError(err).Debug("Failed to count rooms by status")
			return
		}
		for _, status := range []models.RoomStatus{
			models.RoomVacant, models.RoomOccupied, models.RoomReserved, models.RoomMaintaining,
		} {
			health.SetRoomsByStatus(string(status), counts[status])
		}
	}

	report()
	for {
		select {
		case <-ticker.C:
			report()
		case <-done:
			return
		}
	}
}

func setupRouter(
	cfg *config.Config,
	logger *logrus.Logger,
	healthChecker *health.HealthChecker,
	tenantHandler *handlers.TenantHandler,
	roomHandler *handlers.RoomHandler,
	contractHandler *handlers.ContractHandler,
) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.SetupCORS())
	router.Use(health.MetricsMiddleware())

	// Health and metrics endpoints
	router.GET("/health", healthChecker.HealthHandler)
	router.GET("/livez", healthChecker.LivezHandler)
	router.GET("/readyz", healthChecker.ReadyzHandler)
	router.GET("/metrics", health.MetricsHandler())

	v1 := router.Group("/api/v1")
	{
		tenants := v1.Group("/tenants")
		{
			tenants.GET("", tenantHandler.ListTenants)
			tenants.GET("/:id", tenantHandler.GetTenant)
			tenants.POST("", tenantHandler.CreateTenant)
		}

		rooms := v1.Group("/rooms")
		{
			rooms.GET("", roomHandler.ListRooms)
			rooms.GET("/:id", roomHandler.GetRoom)
			rooms.POST("", roomHandler.CreateRoom)
		}

		contracts := v1.Group("/contracts")
		{
			contracts.GET("", contractHandler.ListContracts)
			contracts.GET("/:id", contractHandler.GetContract)
			contracts.POST("", contractHandler.CreateContract)
			contracts.POST("/:id/terminate", contractHandler.TerminateContract)
		}
	}

	return router
}

// healthCheck performs a simple HTTP health check (used by Docker HEALTHCHECK)
func healthCheck() int {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%s/livez", port))
	if err != nil {
		fmt.Fprintf(os.Stderr, "health check failed: %v\n", err)
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "health check failed: status %d\n", resp.StatusCode)
		return 1
	}
	return 0
}
