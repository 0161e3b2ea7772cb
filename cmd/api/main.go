package main

import (
	"fmt"
	"net/http"
	"os"

	"stockfolio/internal/config"
	"stockfolio/internal/database"
	"stockfolio/internal/handlers"
	"stockfolio/internal/logger"
	"stockfolio/internal/marketdata"
	"stockfolio/internal/middleware"
	"stockfolio/internal/services"
	"stockfolio/internal/validator"
	"stockfolio/internal/valuation"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "stockfolio/internal/docs" // Import swagger docs
)

// @title           Stockfolio API
// @version         1.0
// @description     Stockfolio tracks investment portfolios: assets, their transaction ledgers, and live valuation derived from cached market quotes.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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

	// Market data: Yahoo source behind the TTL quote cache
	yahoo := marketdata.NewYahooClient(appConfig.QuoteBaseURL, appConfig.QuoteFetchTimeout)
	quoteCache := marketdata.NewCache(yahoo, appConfig.QuoteTTL)

	aggOpts := valuation.Options{PurchaseFeesOnly: appConfig.PurchaseFeesOnly}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	assetService := services.NewAssetService(db, quoteCache)
	transactionService := services.NewTransactionService(db, assetService)
	portfolioService := services.NewPortfolioService(db, assetService, quoteCache, aggOpts)

	// Background quote refresher (disabled when QUOTE_REFRESH_SPEC is empty)
	refresher := marketdata.NewRefresher(quoteCache, assetService)
	if err := refresher.Start(appConfig.QuoteRefreshSpec); err != nil {
		return fmt.Errorf("failed to start quote refresher: %w", err)
	}
	defer refresher.Stop()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	assetHandler := handlers.NewAssetHandler(assetService, quoteCache)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Asset routes
	assets := protected.Group("/assets")
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("", assetHandler.ListAssets)
	assets.GET("/:id", assetHandler.GetAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)
	assets.GET("/:id/overview", portfolioHandler.GetAssetOverview)
	assets.POST("/:id/transactions", transactionHandler.RecordTransaction)
	assets.GET("/:id/transactions", transactionHandler.ListTransactions)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Portfolio routes
	protected.GET("/portfolio", portfolioHandler.GetDashboard)

	// Symbol lookup
	protected.GET("/symbols/:symbol", assetHandler.LookupSymbol)

	log.Infof("Starting Stockfolio backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
