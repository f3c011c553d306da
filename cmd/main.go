package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/Sankalvax/opt/internal/caching"
	"github.com/Sankalvax/opt/internal/config"
	"github.com/Sankalvax/opt/internal/forecast"
	"github.com/Sankalvax/opt/internal/handlers"
	"github.com/Sankalvax/opt/internal/jobs"
	"github.com/Sankalvax/opt/internal/repositories"
	"github.com/Sankalvax/opt/internal/services"
	"github.com/Sankalvax/opt/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Domain assumptions: warehouse capacities, products, business rules,
	// distance factors. Missing or invalid configuration is fatal — the
	// simulator cannot establish its invariants without it.
	assumptionsPath := os.Getenv("ASSUMPTIONS_PATH")
	if assumptionsPath == "" {
		assumptionsPath = "configs/assumptions.json"
	}
	assumptions, err := config.LoadAssumptions(assumptionsPath)
	if err != nil {
		log.Fatalf("Failed to load assumptions: %v", err)
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Optional MinIO run archive
	var archiveSvc services.ArchiveService
	if os.Getenv("ARCHIVE_ENABLED") == "true" {
		minioEndpoint := os.Getenv("MINIO_ENDPOINT")
		if minioEndpoint == "" {
			minioEndpoint = "localhost:9000"
		}
		minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
		if minioAccessKey == "" {
			minioAccessKey = "minioadmin"
		}
		minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
		if minioSecretKey == "" {
			minioSecretKey = "minioadmin"
		}
		useSSL := os.Getenv("MINIO_USE_SSL") == "true"
		bucket := os.Getenv("ARCHIVE_BUCKET")
		if bucket == "" {
			bucket = "forecast-runs"
		}

		archiveSvc, err = services.NewMinioArchiveService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL, bucket)
		if err != nil {
			log.Fatalf("Failed to initialize archive service: %v", err)
		}
	}

	// Create repositories
	flowRepo := repositories.NewFlowRepo(pool)
	snapshotRepo := repositories.NewSnapshotRepo(pool)

	// Forecast oracle: a static lookup when a pre-computed forecast file is
	// provided, otherwise no models at all. Either way the historical-mean
	// fallback covers series without a model.
	history, err := flowRepo.History(context.Background())
	if err != nil {
		log.Fatalf("Failed to load flow history: %v", err)
	}
	var primary forecast.Oracle = forecast.NoModel{}
	if forecastsPath := os.Getenv("FORECASTS_PATH"); forecastsPath != "" {
		primary, err = forecast.LoadStaticOracle(forecastsPath)
		if err != nil {
			log.Fatalf("Failed to load forecast file: %v", err)
		}
	}
	oracle := forecast.NewFallbackOracle(primary, history)

	// Create services
	simulationSvc := services.NewSimulationService(oracle, snapshotRepo, assumptions, cacheSvc)
	capacitySvc := services.NewCapacityService()
	transferSvc := services.NewTransferService(assumptions)
	scenarioSvc := services.NewScenarioService(capacitySvc, transferSvc)

	// Create handlers
	healthHandlers := handlers.NewHealthHandlers(pool)
	forecastHandlers := handlers.NewForecastHandlers(simulationSvc, archiveSvc)
	capacityHandlers := handlers.NewCapacityHandlers(simulationSvc, capacitySvc, transferSvc)
	scenarioHandlers := handlers.NewScenarioHandlers(simulationSvc, capacitySvc, scenarioSvc, archiveSvc)

	// Background refresh
	refreshJob, err := jobs.NewForecastRefreshJob(simulationSvc, cacheSvc, archiveSvc)
	if err != nil {
		log.Fatalf("Failed to create forecast refresh job: %v", err)
	}
	refreshJob.Start()
	defer refreshJob.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// API routes
	v1 := e.Group("/v1")
	v1.POST("/forecast/run", forecastHandlers.RunForecast)
	v1.GET("/capacity", capacityHandlers.AnalyzeCapacity)
	v1.POST("/scenarios", scenarioHandlers.RunScenario)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Warehouse forecast service v%s starting on port %d", version, port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
