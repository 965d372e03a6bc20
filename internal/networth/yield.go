package networth

import "networth/internal/models"

// daysPerYear is used for daily-income projection; monthly income uses a flat
// 30-day approximation, not calendar months.
const (
	daysPerYear  = 365
	daysPerMonth = 30
)

// WalletYield returns a copy of the wallet with its derived yield fields
// recomputed from its positions. Only positions with APR > 0 participate:
// YieldValueUSD is the sum of their values, daily and yearly income are
// summed per position, and TotalAPR is the blended rate of that
// yield-bearing sub-pool. A wallet's hand-entered TotalValueUSD is passed
// through untouched and never dilutes the APR.
func WalletYield(asset models.OnChainAsset) models.OnChainAsset {
	var yieldValue, dailyIncome, yearlyIncome float64

	for _, pos := range asset.Positions {
		if pos.APR <= 0 {
			continue
		}
		yieldValue += pos.ValueUSD
		dailyIncome += pos.ValueUSD * pos.APR / daysPerYear / 100
		yearlyIncome += pos.ValueUSD * pos.APR / 100
	}

	asset.YieldValueUSD = yieldValue
	asset.DailyIncome = dailyIncome
	asset.MonthlyIncome = dailyIncome * daysPerMonth
	asset.YearlyIncome = yearlyIncome
	if yieldValue > 0 {
		asset.TotalAPR = yearlyIncome / yieldValue * 100
	} else {
		asset.TotalAPR = 0
	}
	return asset
}

// YieldSummary aggregates income projections across a whole record.
//
// AnnualYield is the sum of exact per-position yearly incomes, while
// ProjectedAnnualYield extrapolates the daily total over 365 days. The two
// are close but not guaranteed identical, and consumers use either, so both
// are exposed.
//
// The summary carries two APR figures because they answer different
// questions: NetWorthAPR spreads the annual yield over the entire net worth
// (bank deposits included), whereas YieldPoolAPR is scoped to the
// yield-bearing capital only, the same scoping wallet-level TotalAPR uses.
type YieldSummary struct {
	TotalValueUSD        float64 `json:"total_value_usd"`
	YieldValueUSD        float64 `json:"yield_value_usd"`
	DailyYield           float64 `json:"daily_yield"`
	MonthlyYield         float64 `json:"monthly_yield"`
	AnnualYield          float64 `json:"annual_yield"`
	ProjectedAnnualYield float64 `json:"projected_annual_yield"`
	NetWorthAPR          float64 `json:"net_worth_apr"`
	YieldPoolAPR         float64 `json:"yield_pool_apr"`
}

// RecordYield computes the record-level yield summary. Every on-chain wallet
// counts its full hand-entered value toward the total but only its computed
// position income toward yield; CEX balances count fully toward the total
// and, when they carry an APR, yield on their full balance; bank holdings
// contribute value only.
func RecordYield(rec models.NetWorthRecord) YieldSummary {
	var s YieldSummary

	for _, asset := range rec.OnChainAssets {
		computed := WalletYield(asset)
		s.TotalValueUSD += computed.TotalValueUSD
		s.YieldValueUSD += computed.YieldValueUSD
		s.DailyYield += computed.DailyIncome
		s.AnnualYield += computed.YearlyIncome
	}

	for _, asset := range rec.CEXAssets {
		s.TotalValueUSD += asset.TotalValueUSD
		if asset.APR > 0 {
			s.YieldValueUSD += asset.TotalValueUSD
			s.DailyYield += asset.TotalValueUSD * asset.APR / daysPerYear / 100
			s.AnnualYield += asset.TotalValueUSD * asset.APR / 100
		}
	}

	for _, asset := range rec.BankAssets {
		s.TotalValueUSD += BankAssetValueUSD(asset)
	}

	s.MonthlyYield = s.DailyYield * daysPerMonth
	s.ProjectedAnnualYield = s.DailyYield * daysPerYear
	if s.TotalValueUSD > 0 {
		s.NetWorthAPR = s.AnnualYield / s.TotalValueUSD * 100
	}
	if s.YieldValueUSD > 0 {
		s.YieldPoolAPR = s.AnnualYield / s.YieldValueUSD * 100
	}
	return s
}
