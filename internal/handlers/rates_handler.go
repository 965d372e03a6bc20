package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"networth/internal/rates"
)

// RateSource supplies the current exchange rate table. Satisfied by
// *rates.Provider; handler tests substitute a static implementation.
type RateSource interface {
	GetRates(ctx context.Context) rates.Table
}

// RatesHandler exposes the exchange rate table.
type RatesHandler struct {
	rateSource RateSource
}

// NewRatesHandler creates a new RatesHandler.
func NewRatesHandler(rateSource RateSource) *RatesHandler {
	return &RatesHandler{rateSource: rateSource}
}

// GetRates returns the current rate table.
// @Summary     Exchange rates
// @Description Get the current USD-based exchange rate table used for display conversion
// @Tags        rates
// @Accept      json
// @Produce     json
// @Success     200 {object} rates.Table "Rate table"
// @Router      /rates [get]
func (h *RatesHandler) GetRates(c *gin.Context) {
	table := h.rateSource.GetRates(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"rates": table.Rates, "fetched_at": table.FetchedAt})
}
