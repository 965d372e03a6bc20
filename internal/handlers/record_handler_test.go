package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/networth"
	"networth/internal/pagination"
	"networth/internal/rates"
	"networth/internal/services"
	"networth/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

const testRecordID = "0190a8a0-0000-7000-8000-000000000001"

// --- mock record service ---

type mockRecordService struct {
	listRecordsFn   func(page pagination.PageRequest) (*pagination.PageResponse[models.NetWorthRecord], error)
	getRecordByIDFn func(id string) (*models.NetWorthRecord, error)
	createRecordFn  func(input services.RecordInput) (*models.NetWorthRecord, error)
	updateRecordFn  func(id string, input services.RecordInput) (*models.NetWorthRecord, error)
	deleteRecordFn  func(id string) error
	trendFn         func() ([]services.TrendPoint, error)
}

func (m *mockRecordService) ListRecords(page pagination.PageRequest) (*pagination.PageResponse[models.NetWorthRecord], error) {
	if m.listRecordsFn != nil {
		return m.listRecordsFn(page)
	}
	resp := pagination.NewPageResponse([]models.NetWorthRecord{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockRecordService) GetRecordByID(id string) (*models.NetWorthRecord, error) {
	if m.getRecordByIDFn != nil {
		return m.getRecordByIDFn(id)
	}
	return &models.NetWorthRecord{ID: id}, nil
}

func (m *mockRecordService) CreateRecord(input services.RecordInput) (*models.NetWorthRecord, error) {
	if m.createRecordFn != nil {
		return m.createRecordFn(input)
	}
	return &models.NetWorthRecord{ID: testRecordID, Date: input.Date}, nil
}

func (m *mockRecordService) UpdateRecord(id string, input services.RecordInput) (*models.NetWorthRecord, error) {
	if m.updateRecordFn != nil {
		return m.updateRecordFn(id, input)
	}
	return &models.NetWorthRecord{ID: id, Date: input.Date}, nil
}

func (m *mockRecordService) DeleteRecord(id string) error {
	if m.deleteRecordFn != nil {
		return m.deleteRecordFn(id)
	}
	return nil
}

func (m *mockRecordService) Trend() ([]services.TrendPoint, error) {
	if m.trendFn != nil {
		return m.trendFn()
	}
	return []services.TrendPoint{}, nil
}

// verify interface compliance
var _ services.RecordServicer = (*mockRecordService)(nil)

// --- static rate source ---

type staticRateSource struct {
	table rates.Table
}

func (s staticRateSource) GetRates(context.Context) rates.Table {
	return s.table
}

func defaultRateSource() staticRateSource {
	return staticRateSource{table: rates.Table{
		Rates:     networth.DefaultRates(),
		FetchedAt: time.Now(),
	}}
}

// testRecord returns a snapshot with one asset per category and consistent
// derived fields: 1000 on-chain + 2000 exchange + 3000 bank = 6000 total.
func testRecord(id string) *models.NetWorthRecord {
	return &models.NetWorthRecord{
		ID:         id,
		Date:       "2024-07-17",
		TotalValue: 6000,
		OnChainAssets: []models.OnChainAsset{{
			ID:            "w1",
			WalletAddress: "0xabc",
			Remark:        "Main",
			TotalValueUSD: 1000,
			Positions: []models.OnChainPosition{
				{ID: "p1", Token: "USDC", ValueUSD: 800, APR: 5},
			},
			YieldValueUSD: 800,
			TotalAPR:      5,
			DailyIncome:   800 * 5 / 365.0 / 100,
			MonthlyIncome: 800 * 5 / 365.0 / 100 * 30,
			YearlyIncome:  40,
		}},
		CEXAssets: []models.CEXAsset{{
			ID:            "c1",
			Exchange:      models.ExchangeBinance,
			TotalValueUSD: 2000,
		}},
		BankAssets: []models.BankAsset{{
			ID:           "b1",
			Institution:  models.InstitutionZaBank,
			DepositType:  models.DepositTypeCurrent,
			Currency:     models.CurrencyUSD,
			Amount:       3000,
			ExchangeRate: 1,
			ValueUSD:     3000,
		}},
	}
}

func setupRecordRouter(handler *RecordHandler) *gin.Engine {
	r := gin.New()
	r.GET("/networth", handler.ListRecords)
	r.POST("/networth", handler.CreateRecord)
	r.GET("/networth/trend", handler.GetTrend)
	r.GET("/networth/:id", handler.GetRecord)
	r.PUT("/networth/:id", handler.UpdateRecord)
	r.DELETE("/networth/:id", handler.DeleteRecord)
	r.GET("/networth/:id/breakdown", handler.GetBreakdown)
	r.GET("/networth/:id/yield", handler.GetYield)
	r.GET("/networth/:id/exchanges", handler.GetExchanges)
	r.GET("/networth/:id/positions", handler.GetPositions)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestRecordHandler_CreateRecord(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockRecordService{
			createRecordFn: func(input services.RecordInput) (*models.NetWorthRecord, error) {
				return &models.NetWorthRecord{ID: testRecordID, Date: input.Date, TotalValue: 2000}, nil
			},
		}
		handler := NewRecordHandler(svc, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "POST", "/networth",
			`{"date":"2024-07-17","cex_assets":[{"exchange":"binance","total_value_usd":2000}]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		record := result["record"].(map[string]interface{})
		if record["date"] != "2024-07-17" {
			t.Errorf("expected date 2024-07-17, got %v", record["date"])
		}
	})

	t.Run("returns 400 on missing date", func(t *testing.T) {
		handler := NewRecordHandler(&mockRecordService{}, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "POST", "/networth", `{"cex_assets":[]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on unsupported exchange", func(t *testing.T) {
		handler := NewRecordHandler(&mockRecordService{}, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "POST", "/networth",
			`{"date":"2024-07-17","cex_assets":[{"exchange":"kraken","total_value_usd":100}]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on unsupported bank currency", func(t *testing.T) {
		handler := NewRecordHandler(&mockRecordService{}, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "POST", "/networth",
			`{"date":"2024-07-17","bank_assets":[{"institution":"za bank","deposit_type":"活期","currency":"EUR","amount":100,"exchange_rate":1}]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on negative position value", func(t *testing.T) {
		handler := NewRecordHandler(&mockRecordService{}, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "POST", "/networth",
			`{"date":"2024-07-17","on_chain_assets":[{"total_value_usd":100,"positions":[{"token":"USDC","value_usd":-5,"apr":1}]}]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestRecordHandler_GetRecord(t *testing.T) {
	t.Run("returns 200 with record", func(t *testing.T) {
		svc := &mockRecordService{
			getRecordByIDFn: func(id string) (*models.NetWorthRecord, error) {
				return testRecord(id), nil
			},
		}
		handler := NewRecordHandler(svc, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "GET", "/networth/"+testRecordID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		record := result["record"].(map[string]interface{})
		if record["id"] != testRecordID {
			t.Errorf("expected record %s, got %v", testRecordID, record["id"])
		}
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		handler := NewRecordHandler(&mockRecordService{}, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "GET", "/networth/not-a-uuid", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 404 when record missing", func(t *testing.T) {
		svc := &mockRecordService{
			getRecordByIDFn: func(id string) (*models.NetWorthRecord, error) {
				return nil, apperrors.ErrRecordNotFound
			},
		}
		handler := NewRecordHandler(svc, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "GET", "/networth/"+testRecordID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "RECORD_NOT_FOUND")
	})
}

func TestRecordHandler_ListRecords(t *testing.T) {
	t.Run("returns 200 with page", func(t *testing.T) {
		svc := &mockRecordService{
			listRecordsFn: func(page pagination.PageRequest) (*pagination.PageResponse[models.NetWorthRecord], error) {
				resp := pagination.NewPageResponse([]models.NetWorthRecord{*testRecord(testRecordID)}, 1, 20, 1)
				return &resp, nil
			},
		}
		handler := NewRecordHandler(svc, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "GET", "/networth", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_items"].(float64) != 1 {
			t.Errorf("expected 1 item, got %v", result["total_items"])
		}
	})

	t.Run("returns 400 on invalid page", func(t *testing.T) {
		handler := NewRecordHandler(&mockRecordService{}, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "GET", "/networth?page=-1", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestRecordHandler_UpdateRecord(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewRecordHandler(&mockRecordService{}, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "PUT", "/networth/"+testRecordID, `{"date":"2024-07-18"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		record := result["record"].(map[string]interface{})
		if record["date"] != "2024-07-18" {
			t.Errorf("expected updated date, got %v", record["date"])
		}
	})

	t.Run("returns 404 when record missing", func(t *testing.T) {
		svc := &mockRecordService{
			updateRecordFn: func(id string, input services.RecordInput) (*models.NetWorthRecord, error) {
				return nil, apperrors.ErrRecordNotFound
			},
		}
		handler := NewRecordHandler(svc, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "PUT", "/networth/"+testRecordID, `{"date":"2024-07-18"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestRecordHandler_DeleteRecord(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		handler := NewRecordHandler(&mockRecordService{}, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "DELETE", "/networth/"+testRecordID, "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when record missing", func(t *testing.T) {
		svc := &mockRecordService{
			deleteRecordFn: func(id string) error {
				return apperrors.ErrRecordNotFound
			},
		}
		handler := NewRecordHandler(svc, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "DELETE", "/networth/"+testRecordID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestRecordHandler_GetBreakdown(t *testing.T) {
	svc := &mockRecordService{
		getRecordByIDFn: func(id string) (*models.NetWorthRecord, error) {
			return testRecord(id), nil
		},
	}

	t.Run("defaults to USD", func(t *testing.T) {
		handler := NewRecordHandler(svc, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "GET", "/networth/"+testRecordID+"/breakdown", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["currency"] != "USD" {
			t.Errorf("expected USD, got %v", result["currency"])
		}
		if result["total_value"].(float64) != 6000 {
			t.Errorf("expected total 6000, got %v", result["total_value"])
		}
		breakdown := result["breakdown"].([]interface{})
		if len(breakdown) != 3 {
			t.Fatalf("expected 3 categories, got %d", len(breakdown))
		}
	})

	t.Run("converts to display currency", func(t *testing.T) {
		handler := NewRecordHandler(svc, staticRateSource{table: rates.Table{
			Rates: networth.RateTable{
				models.CurrencyUSD: 1,
				models.CurrencyCNY: 7.3,
			},
		}})
		r := setupRecordRouter(handler)

		rec := doRequest(r, "GET", "/networth/"+testRecordID+"/breakdown?currency=CNY", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["currency"] != "CNY" {
			t.Errorf("expected CNY, got %v", result["currency"])
		}
		if got := result["total_value"].(float64); math.Abs(got-6000*7.3) > 1e-6 {
			t.Errorf("expected converted total %f, got %f", 6000*7.3, got)
		}
		// Percentages stay in USD space regardless of display currency.
		breakdown := result["breakdown"].([]interface{})
		var pctSum float64
		for _, entry := range breakdown {
			pctSum += entry.(map[string]interface{})["percentage"].(float64)
		}
		if math.Abs(pctSum-100) > 1e-6 {
			t.Errorf("expected percentages summing to 100, got %f", pctSum)
		}
	})

	t.Run("returns 400 on unsupported currency", func(t *testing.T) {
		handler := NewRecordHandler(svc, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "GET", "/networth/"+testRecordID+"/breakdown?currency=EUR", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestRecordHandler_GetYield(t *testing.T) {
	t.Run("returns yield summary", func(t *testing.T) {
		svc := &mockRecordService{
			getRecordByIDFn: func(id string) (*models.NetWorthRecord, error) {
				return testRecord(id), nil
			},
		}
		handler := NewRecordHandler(svc, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "GET", "/networth/"+testRecordID+"/yield", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		yield := result["yield"].(map[string]interface{})
		if got := yield["annual_yield"].(float64); math.Abs(got-40) > 1e-6 {
			t.Errorf("expected annual yield 40, got %f", got)
		}
		// Two APR scopes: record-wide and yield-pool-only.
		netWorthAPR := yield["net_worth_apr"].(float64)
		poolAPR := yield["yield_pool_apr"].(float64)
		if netWorthAPR >= poolAPR {
			t.Errorf("expected net worth APR (%f) below pool APR (%f)", netWorthAPR, poolAPR)
		}
	})
}

func TestRecordHandler_GetExchanges(t *testing.T) {
	t.Run("returns exchange distribution", func(t *testing.T) {
		svc := &mockRecordService{
			getRecordByIDFn: func(id string) (*models.NetWorthRecord, error) {
				return testRecord(id), nil
			},
		}
		handler := NewRecordHandler(svc, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "GET", "/networth/"+testRecordID+"/exchanges", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		exchanges := result["exchanges"].([]interface{})
		if len(exchanges) != 1 {
			t.Fatalf("expected 1 exchange, got %d", len(exchanges))
		}
		entry := exchanges[0].(map[string]interface{})
		if entry["name"] != "BINANCE" {
			t.Errorf("expected BINANCE, got %v", entry["name"])
		}
	})
}

func TestRecordHandler_GetPositions(t *testing.T) {
	t.Run("returns positions with weighted APR", func(t *testing.T) {
		svc := &mockRecordService{
			getRecordByIDFn: func(id string) (*models.NetWorthRecord, error) {
				return testRecord(id), nil
			},
		}
		handler := NewRecordHandler(svc, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "GET", "/networth/"+testRecordID+"/positions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		positions := result["positions"].([]interface{})
		if len(positions) != 1 {
			t.Fatalf("expected 1 yielding position, got %d", len(positions))
		}
		if got := result["weighted_apr"].(float64); math.Abs(got-5) > 1e-6 {
			t.Errorf("expected weighted APR 5, got %f", got)
		}
	})
}

func TestRecordHandler_GetTrend(t *testing.T) {
	t.Run("returns trend points", func(t *testing.T) {
		svc := &mockRecordService{
			trendFn: func() ([]services.TrendPoint, error) {
				return []services.TrendPoint{
					{Date: "2024-01-01", TotalValue: 5000},
					{Date: "2024-02-01", TotalValue: 6000},
				}, nil
			},
		}
		handler := NewRecordHandler(svc, defaultRateSource())
		r := setupRecordRouter(handler)

		rec := doRequest(r, "GET", "/networth/trend", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		trend := result["trend"].([]interface{})
		if len(trend) != 2 {
			t.Fatalf("expected 2 points, got %d", len(trend))
		}
		first := trend[0].(map[string]interface{})
		if first["date"] != "2024-01-01" {
			t.Errorf("expected oldest point first, got %v", first["date"])
		}
	})
}
