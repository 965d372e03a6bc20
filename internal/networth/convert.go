package networth

import "networth/internal/models"

// RateTable maps a currency code to units of that currency per 1 USD
// (CNY: 7.3 means 1 USD = 7.3 CNY). The inverse orientation must never be
// substituted; all call sites convert through ToDisplay so the orientation
// is enforced in exactly one place.
type RateTable map[models.Currency]float64

// DefaultRates returns the static fallback table used when no live rates
// are available.
func DefaultRates() RateTable {
	return RateTable{
		models.CurrencyUSD: 1,
		models.CurrencyHKD: 7.8,
		models.CurrencyCNY: 7.3,
		models.CurrencyTHB: 35.0,
	}
}

// ToDisplay converts a USD amount into the display currency using the given
// rate table. USD amounts pass through unchanged. A currency missing from
// the table falls back to the static default rate rather than failing; the
// raw result is returned unrounded so the presentation layer can format it.
func ToDisplay(valueUSD float64, currency models.Currency, rates RateTable) float64 {
	switch currency {
	case models.CurrencyUSD:
		return valueUSD
	case models.CurrencyHKD, models.CurrencyCNY, models.CurrencyTHB:
		rate, ok := rates[currency]
		if !ok || rate <= 0 {
			rate = DefaultRates()[currency]
		}
		return valueUSD * rate
	default:
		// Unknown currency: treat as USD rather than guessing a rate.
		return valueUSD
	}
}
