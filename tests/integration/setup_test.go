package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"networth/internal/handlers"
	"networth/internal/logger"
	"networth/internal/middleware"
	"networth/internal/models"
	"networth/internal/rates"
	"networth/internal/services"
	"networth/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
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
		&models.NetWorthRecord{},
		&models.ExchangeRate{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// mockRatesUpstream serves a static exchangerate.host-style payload.
func mockRatesUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"base":"USD","rates":{"HKD":7.8,"CNY":7.3,"THB":35.0,"JPY":155.0}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database and a mocked rates upstream.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	upstream := mockRatesUpstream(t)

	// Services
	recordService := services.NewRecordService(db)
	rateProvider := rates.NewProvider(nil, db, upstream.URL, time.Minute)

	// Handlers
	recordHandler := handlers.NewRecordHandler(recordService, rateProvider)
	ratesHandler := handlers.NewRatesHandler(rateProvider)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

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

	v1.GET("/rates", ratesHandler.GetRates)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
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
