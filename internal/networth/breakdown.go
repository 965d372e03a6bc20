package networth

import (
	"sort"
	"strings"

	"networth/internal/models"
)

// ExchangeBreakdown groups the record's CEX balances by exchange and returns
// them sorted by value, largest first. Percentages are shares of the
// recomputed grand total across all categories, so the slices line up with
// the category breakdown.
func ExchangeBreakdown(rec models.NetWorthRecord) []BreakdownEntry {
	grand := CategoryTotals(rec).Grand()

	byExchange := make(map[models.Exchange]float64)
	for _, asset := range rec.CEXAssets {
		byExchange[asset.Exchange] += asset.TotalValueUSD
	}

	entries := make([]BreakdownEntry, 0, len(byExchange))
	for exchange, value := range byExchange {
		entry := BreakdownEntry{Name: strings.ToUpper(string(exchange)), ValueUSD: value}
		if grand > 0 {
			entry.Percentage = value / grand * 100
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ValueUSD != entries[j].ValueUSD {
			return entries[i].ValueUSD > entries[j].ValueUSD
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// YieldingPosition is one yield-bearing holding, either an on-chain position
// tagged with its parent wallet's remark or a CEX balance with an APR.
type YieldingPosition struct {
	Source      string  `json:"source"`
	Label       string  `json:"label"`
	ValueUSD    float64 `json:"value_usd"`
	APR         float64 `json:"apr"`
	DailyIncome float64 `json:"daily_income"`
}

// YieldingPositions collects every holding with APR > 0 across the record
// into one unified list, preserving input order: on-chain positions first,
// then CEX balances.
func YieldingPositions(rec models.NetWorthRecord) []YieldingPosition {
	var positions []YieldingPosition

	for _, asset := range rec.OnChainAssets {
		for _, pos := range asset.Positions {
			if pos.APR <= 0 {
				continue
			}
			label := pos.Token
			if asset.Remark != "" {
				label = pos.Token + " (" + asset.Remark + ")"
			}
			positions = append(positions, YieldingPosition{
				Source:      string(CategoryOnChain),
				Label:       label,
				ValueUSD:    pos.ValueUSD,
				APR:         pos.APR,
				DailyIncome: pos.ValueUSD * pos.APR / daysPerYear / 100,
			})
		}
	}

	for _, asset := range rec.CEXAssets {
		if asset.APR <= 0 {
			continue
		}
		positions = append(positions, YieldingPosition{
			Source:      string(CategoryExchange),
			Label:       strings.ToUpper(string(asset.Exchange)),
			ValueUSD:    asset.TotalValueUSD,
			APR:         asset.APR,
			DailyIncome: asset.TotalValueUSD * asset.APR / daysPerYear / 100,
		})
	}

	return positions
}

// WeightedAverageAPR returns the value-weighted mean APR of the given
// positions, or 0 when they hold no value.
func WeightedAverageAPR(positions []YieldingPosition) float64 {
	var totalValue, weighted float64
	for _, pos := range positions {
		totalValue += pos.ValueUSD
		weighted += pos.ValueUSD * pos.APR
	}
	if totalValue <= 0 {
		return 0
	}
	return weighted / totalValue
}

// DisplayEntry is a breakdown row with its value converted to a display
// currency.
type DisplayEntry struct {
	Name       string          `json:"name"`
	Value      float64         `json:"value"`
	Currency   models.Currency `json:"currency"`
	Percentage float64         `json:"percentage"`
}

// ConvertBreakdown converts breakdown values to the display currency.
// Percentages are computed in USD space before conversion and carried over
// unchanged: conversion is a uniform scalar and must not alter relative
// proportions.
func ConvertBreakdown(entries []BreakdownEntry, currency models.Currency, rates RateTable) []DisplayEntry {
	converted := make([]DisplayEntry, len(entries))
	for i, entry := range entries {
		converted[i] = DisplayEntry{
			Name:       entry.Name,
			Value:      ToDisplay(entry.ValueUSD, currency, rates),
			Currency:   currency,
			Percentage: entry.Percentage,
		}
	}
	return converted
}
