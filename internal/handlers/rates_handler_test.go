package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"networth/internal/models"
	"networth/internal/networth"
	"networth/internal/rates"
)

func TestRatesHandler_GetRates(t *testing.T) {
	t.Run("returns current rate table", func(t *testing.T) {
		fetchedAt := time.Date(2024, 7, 17, 12, 0, 0, 0, time.UTC)
		handler := NewRatesHandler(staticRateSource{table: rates.Table{
			Rates: networth.RateTable{
				models.CurrencyUSD: 1,
				models.CurrencyHKD: 7.82,
				models.CurrencyCNY: 7.25,
			},
			FetchedAt: fetchedAt,
		}})
		r := gin.New()
		r.GET("/rates", handler.GetRates)

		rec := doRequest(r, "GET", "/rates", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		table := result["rates"].(map[string]interface{})
		if table["CNY"].(float64) != 7.25 {
			t.Errorf("expected CNY rate 7.25, got %v", table["CNY"])
		}
		if result["fetched_at"] == nil {
			t.Error("expected fetched_at timestamp in response")
		}
	})
}
