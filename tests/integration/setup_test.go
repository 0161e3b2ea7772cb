package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stockfolio/internal/handlers"
	"stockfolio/internal/logger"
	"stockfolio/internal/marketdata"
	"stockfolio/internal/middleware"
	"stockfolio/internal/models"
	"stockfolio/internal/services"
	"stockfolio/internal/validator"
	"stockfolio/internal/valuation"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Quotes *scriptedQuotes
	Router *gin.Engine
}

// scriptedQuotes replaces the live market-data cache with fixed quotes.
// Symbols without a script behave like a failed upstream fetch.
type scriptedQuotes struct {
	quotes map[string]marketdata.Quote
}

func (s *scriptedQuotes) set(symbol string, quote marketdata.Quote) {
	quote.Symbol = symbol
	s.quotes[marketdata.NormalizeSymbol(symbol)] = quote
}

func (s *scriptedQuotes) Get(ctx context.Context, symbol string) marketdata.Quote {
	symbol = marketdata.NormalizeSymbol(symbol)
	if q, ok := s.quotes[symbol]; ok {
		return q
	}
	return marketdata.ZeroQuote(symbol, nil)
}

func (s *scriptedQuotes) Resolve(ctx context.Context, symbol string) (marketdata.Resolution, bool) {
	q := s.Get(ctx, symbol)
	if !q.Success || q.CurrentPrice <= 0 {
		return marketdata.Resolution{}, false
	}
	return marketdata.Resolution{Name: q.Name, Exchange: q.Exchange}, true
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Asset{},
		&models.Transaction{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	quotes := &scriptedQuotes{quotes: make(map[string]marketdata.Quote)}

	// Services
	userService := services.NewUserService(db)
	assetService := services.NewAssetService(db, quotes)
	transactionService := services.NewTransactionService(db, assetService)
	portfolioService := services.NewPortfolioService(db, assetService, quotes, valuation.Options{})

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	assetHandler := handlers.NewAssetHandler(assetService, quotes)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	assets := protected.Group("/assets")
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("", assetHandler.ListAssets)
	assets.GET("/:id", assetHandler.GetAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)
	assets.GET("/:id/overview", portfolioHandler.GetAssetOverview)
	assets.POST("/:id/transactions", transactionHandler.RecordTransaction)
	assets.GET("/:id/transactions", transactionHandler.ListTransactions)

	transactions := protected.Group("/transactions")
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	protected.GET("/portfolio", portfolioHandler.GetDashboard)
	protected.GET("/symbols/:symbol", assetHandler.LookupSymbol)

	return &testApp{DB: db, Quotes: quotes, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"display_name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// createAsset creates an asset over the API and returns its ID.
func (app *testApp) createAsset(t *testing.T, token, symbol string) string {
	t.Helper()
	body := fmt.Sprintf(`{"symbol":%q}`, symbol)
	rec := app.request("POST", "/api/v1/assets", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create asset failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["id"].(string)
}
