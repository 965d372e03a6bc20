package main

import (
	"fmt"
	"net/http"
	"os"

	"networth/internal/config"
	"networth/internal/database"
	"networth/internal/handlers"
	"networth/internal/logger"
	"networth/internal/middleware"
	"networth/internal/rates"
	"networth/internal/services"
	"networth/internal/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "networth/internal/docs" // Import swagger docs
)

// @title           Net Worth Tracker API
// @version         1.0
// @description     Personal net worth tracking service: dated snapshots of on-chain, exchange, and bank holdings with yield projections and multi-currency display.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	recordService := services.NewRecordService(db)
	rateProvider := rates.NewProvider(nil, db, appConfig.RatesURL, appConfig.RatesRefreshTTL)

	// Initialize handlers
	recordHandler := handlers.NewRecordHandler(recordService, rateProvider)
	ratesHandler := handlers.NewRatesHandler(rateProvider)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Net worth record routes
	records := v1.Group("/networth")
	records.GET("", recordHandler.ListRecords)
	records.POST("", recordHandler.CreateRecord)
	records.GET("/trend", recordHandler.GetTrend)
	records.GET("/:id", recordHandler.GetRecord)
	records.PUT("/:id", recordHandler.UpdateRecord)
	records.DELETE("/:id", recordHandler.DeleteRecord)
	records.GET("/:id/breakdown", recordHandler.GetBreakdown)
	records.GET("/:id/yield", recordHandler.GetYield)
	records.GET("/:id/exchanges", recordHandler.GetExchanges)
	records.GET("/:id/positions", recordHandler.GetPositions)

	// Exchange rate routes
	v1.GET("/rates", ratesHandler.GetRates)

	log.Infof("Starting net worth tracker server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
