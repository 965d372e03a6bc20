package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/networth"
	"networth/internal/pagination"
	"networth/internal/services"
)

// RecordHandler handles net-worth record requests.
type RecordHandler struct {
	recordService services.RecordServicer
	rateSource    RateSource
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(recordService services.RecordServicer, rateSource RateSource) *RecordHandler {
	return &RecordHandler{recordService: recordService, rateSource: rateSource}
}

// PositionRequest is one token allocation inside a wallet payload.
type PositionRequest struct {
	Token    string  `json:"token" binding:"required,max=30"`
	ValueUSD float64 `json:"value_usd" binding:"gte=0"`
	APR      float64 `json:"apr" binding:"gte=0,lte=1000"`
}

// OnChainAssetRequest is one wallet in a record payload.
type OnChainAssetRequest struct {
	WalletAddress string            `json:"wallet_address" binding:"max=200"`
	Remark        string            `json:"remark" binding:"max=100"`
	TotalValueUSD float64           `json:"total_value_usd" binding:"gte=0"`
	Positions     []PositionRequest `json:"positions" binding:"omitempty,dive"`
}

// CEXAssetRequest is one exchange account in a record payload.
type CEXAssetRequest struct {
	Exchange      string  `json:"exchange" binding:"required,cex_exchange"`
	TotalValueUSD float64 `json:"total_value_usd" binding:"gte=0"`
	APR           float64 `json:"apr" binding:"omitempty,gte=0,lte=1000"`
}

// BankAssetRequest is one bank or brokerage holding in a record payload.
type BankAssetRequest struct {
	Institution  string  `json:"institution" binding:"required,institution"`
	DepositType  string  `json:"deposit_type" binding:"required,deposit_type"`
	Currency     string  `json:"currency" binding:"required,display_currency"`
	Amount       float64 `json:"amount" binding:"gte=0"`
	ExchangeRate float64 `json:"exchange_rate" binding:"gt=0"`
}

// SaveRecordRequest is the payload for creating or fully replacing a record.
// Derived values (wallet yields, bank USD values, the total) are computed
// server-side and cannot be supplied.
type SaveRecordRequest struct {
	Date          string                `json:"date" binding:"required,len=10"`
	OnChainAssets []OnChainAssetRequest `json:"on_chain_assets" binding:"omitempty,dive"`
	CEXAssets     []CEXAssetRequest     `json:"cex_assets" binding:"omitempty,dive"`
	BankAssets    []BankAssetRequest    `json:"bank_assets" binding:"omitempty,dive"`
}

// toInput converts the request payload into the service input shape.
func (r SaveRecordRequest) toInput() services.RecordInput {
	input := services.RecordInput{Date: r.Date}

	for _, asset := range r.OnChainAssets {
		positions := make([]models.OnChainPosition, len(asset.Positions))
		for i, pos := range asset.Positions {
			positions[i] = models.OnChainPosition{Token: pos.Token, ValueUSD: pos.ValueUSD, APR: pos.APR}
		}
		input.OnChainAssets = append(input.OnChainAssets, models.OnChainAsset{
			WalletAddress: asset.WalletAddress,
			Remark:        asset.Remark,
			TotalValueUSD: asset.TotalValueUSD,
			Positions:     positions,
		})
	}
	for _, asset := range r.CEXAssets {
		input.CEXAssets = append(input.CEXAssets, models.CEXAsset{
			Exchange:      models.Exchange(asset.Exchange),
			TotalValueUSD: asset.TotalValueUSD,
			APR:           asset.APR,
		})
	}
	for _, asset := range r.BankAssets {
		input.BankAssets = append(input.BankAssets, models.BankAsset{
			Institution:  models.Institution(asset.Institution),
			DepositType:  models.DepositType(asset.DepositType),
			Currency:     models.Currency(asset.Currency),
			Amount:       asset.Amount,
			ExchangeRate: asset.ExchangeRate,
		})
	}
	return input
}

// ListRecords returns a paginated list of snapshots, newest first.
// @Summary     List net worth records
// @Description Get a paginated list of net worth snapshots ordered by date descending
// @Tags        networth
// @Accept      json
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.NetWorthRecord] "Paginated records"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /networth [get]
func (h *RecordHandler) ListRecords(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.recordService.ListRecords(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateRecord stores a new snapshot.
// @Summary     Create a net worth record
// @Description Store a new dated snapshot; derived fields and the total are computed server-side
// @Tags        networth
// @Accept      json
// @Produce     json
// @Param       request body SaveRecordRequest true "Snapshot contents"
// @Success     201 {object} models.NetWorthRecord "Record created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /networth [post]
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req SaveRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	record, err := h.recordService.CreateRecord(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"record": record})
}

// GetRecord returns a single snapshot by id.
// @Summary     Get record by ID
// @Description Get a single net worth snapshot with derived fields recomputed
// @Tags        networth
// @Accept      json
// @Produce     json
// @Param       id path string true "Record ID"
// @Success     200 {object} models.NetWorthRecord "Record"
// @Failure     400 {object} ErrorResponse "Invalid record id"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /networth/{id} [get]
func (h *RecordHandler) GetRecord(c *gin.Context) {
	id, err := parseRecordID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.GetRecordByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

// UpdateRecord fully replaces a snapshot.
// @Summary     Update record
// @Description Replace a snapshot's contents; there is no field-level patching
// @Tags        networth
// @Accept      json
// @Produce     json
// @Param       id path string true "Record ID"
// @Param       request body SaveRecordRequest true "New snapshot contents"
// @Success     200 {object} models.NetWorthRecord "Updated record"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /networth/{id} [put]
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	id, err := parseRecordID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SaveRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	record, err := h.recordService.UpdateRecord(id, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

// DeleteRecord removes a snapshot.
// @Summary     Delete record
// @Description Delete a net worth snapshot by id
// @Tags        networth
// @Accept      json
// @Produce     json
// @Param       id path string true "Record ID"
// @Success     204 "Record deleted"
// @Failure     400 {object} ErrorResponse "Invalid record id"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /networth/{id} [delete]
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	id, err := parseRecordID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recordService.DeleteRecord(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetBreakdown returns the category breakdown, optionally converted to a
// display currency.
// @Summary     Category breakdown
// @Description Get per-category totals and percentages, converted to the display currency
// @Tags        networth
// @Accept      json
// @Produce     json
// @Param       id       path  string true  "Record ID"
// @Param       currency query string false "Display currency (USD, HKD, CNY, THB)"
// @Success     200 {object} map[string]interface{} "Breakdown"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /networth/{id}/breakdown [get]
func (h *RecordHandler) GetBreakdown(c *gin.Context) {
	id, err := parseRecordID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	currency, err := parseDisplayCurrency(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.GetRecordByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	breakdown := networth.CategoryBreakdown(*record)
	grand := networth.CategoryTotals(*record).Grand()
	table := h.rateSource.GetRates(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"total_value_usd": grand,
		"currency":        currency,
		"total_value":     networth.ToDisplay(grand, currency, table.Rates),
		"breakdown":       networth.ConvertBreakdown(breakdown, currency, table.Rates),
	})
}

// GetYield returns the record-level yield summary.
// @Summary     Yield summary
// @Description Get daily/monthly/annual income projections and both APR scopes for a record
// @Tags        networth
// @Accept      json
// @Produce     json
// @Param       id path string true "Record ID"
// @Success     200 {object} networth.YieldSummary "Yield summary"
// @Failure     400 {object} ErrorResponse "Invalid record id"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /networth/{id}/yield [get]
func (h *RecordHandler) GetYield(c *gin.Context) {
	id, err := parseRecordID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.GetRecordByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"yield": networth.RecordYield(*record)})
}

// GetExchanges returns the per-exchange value distribution.
// @Summary     Exchange breakdown
// @Description Get CEX balances grouped by exchange, sorted by value descending
// @Tags        networth
// @Accept      json
// @Produce     json
// @Param       id path string true "Record ID"
// @Success     200 {object} map[string]interface{} "Exchange breakdown"
// @Failure     400 {object} ErrorResponse "Invalid record id"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /networth/{id}/exchanges [get]
func (h *RecordHandler) GetExchanges(c *gin.Context) {
	id, err := parseRecordID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.GetRecordByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exchanges": networth.ExchangeBreakdown(*record)})
}

// GetPositions returns the unified yield-bearing position report.
// @Summary     Yielding positions
// @Description List every yield-bearing holding with its value-weighted average APR
// @Tags        networth
// @Accept      json
// @Produce     json
// @Param       id path string true "Record ID"
// @Success     200 {object} map[string]interface{} "Yielding positions"
// @Failure     400 {object} ErrorResponse "Invalid record id"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /networth/{id}/positions [get]
func (h *RecordHandler) GetPositions(c *gin.Context) {
	id, err := parseRecordID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.GetRecordByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	positions := networth.YieldingPositions(*record)
	c.JSON(http.StatusOK, gin.H{
		"positions":    positions,
		"weighted_apr": networth.WeightedAverageAPR(positions),
	})
}

// GetTrend returns the net-worth history series.
// @Summary     Net worth trend
// @Description Get the date-ordered series of recomputed totals across all records
// @Tags        networth
// @Accept      json
// @Produce     json
// @Success     200 {object} map[string]interface{} "Trend points"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /networth/trend [get]
func (h *RecordHandler) GetTrend(c *gin.Context) {
	points, err := h.recordService.Trend()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": points})
}
