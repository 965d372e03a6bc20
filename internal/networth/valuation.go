// Package networth implements the valuation, yield, and currency-conversion
// logic over net-worth snapshots. Every function here is a deterministic
// computation over its inputs: no I/O, no globals, and no mutation of the
// record passed in. Amounts are USD internally; conversion to a display
// currency happens only at the presentation boundary via ToDisplay.
package networth

import "networth/internal/models"

// Category names one of the three asset groupings summed into net worth.
type Category string

// Asset categories.
const (
	CategoryOnChain  Category = "on-chain"
	CategoryExchange Category = "exchange"
	CategoryBank     Category = "bank"
)

// BreakdownEntry is one row of a value distribution.
type BreakdownEntry struct {
	Name       string  `json:"name"`
	ValueUSD   float64 `json:"value_usd"`
	Percentage float64 `json:"percentage"`
}

// Totals holds the per-category USD sums of a record.
type Totals struct {
	OnChain  float64 `json:"on_chain"`
	Exchange float64 `json:"exchange"`
	Bank     float64 `json:"bank"`
}

// Grand returns the authoritative record total: the sum of the three
// category totals. It supersedes the TotalValue scalar stored on the record,
// which may have drifted since the record was saved.
func (t Totals) Grand() float64 {
	return t.OnChain + t.Exchange + t.Bank
}

// BankAssetValueUSD returns the USD value of a bank holding. The stored
// ValueUSD can go stale when only one of Amount or ExchangeRate was edited,
// so it is recomputed from them whenever a rate is present.
func BankAssetValueUSD(asset models.BankAsset) float64 {
	if asset.ExchangeRate > 0 {
		return asset.Amount * asset.ExchangeRate
	}
	return asset.ValueUSD
}

// CategoryTotals sums each asset category of the record in USD. On-chain
// wallets contribute their hand-entered totals rather than the sum of their
// positions, which itemize only yield-bearing sub-allocations and may
// undercount. Missing collections count as zero.
func CategoryTotals(rec models.NetWorthRecord) Totals {
	var t Totals
	for _, asset := range rec.OnChainAssets {
		t.OnChain += asset.TotalValueUSD
	}
	for _, asset := range rec.CEXAssets {
		t.Exchange += asset.TotalValueUSD
	}
	for _, asset := range rec.BankAssets {
		t.Bank += BankAssetValueUSD(asset)
	}
	return t
}

// CategoryBreakdown returns one entry per category with a positive value,
// with each entry's share of the recomputed grand total. Empty or
// non-positive categories are omitted rather than shown as zero-width
// slices. An empty record yields an empty breakdown.
func CategoryBreakdown(rec models.NetWorthRecord) []BreakdownEntry {
	totals := CategoryTotals(rec)
	grand := totals.Grand()

	entries := []BreakdownEntry{
		{Name: string(CategoryOnChain), ValueUSD: totals.OnChain},
		{Name: string(CategoryExchange), ValueUSD: totals.Exchange},
		{Name: string(CategoryBank), ValueUSD: totals.Bank},
	}

	breakdown := make([]BreakdownEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.ValueUSD <= 0 {
			continue
		}
		if grand > 0 {
			entry.Percentage = entry.ValueUSD / grand * 100
		}
		breakdown = append(breakdown, entry)
	}
	return breakdown
}
