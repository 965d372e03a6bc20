// Package rates fetches USD-based exchange rates from an external provider,
// caches them with a TTL, and persists each successful fetch so the last
// known table survives restarts. The converter in internal/networth stays a
// pure function; everything stateful about rates lives here.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"networth/internal/logger"
	"networth/internal/models"
	"networth/internal/networth"
)

const cacheKey = "rates"

// supportedCurrencies are the codes kept from provider responses. Providers
// return dozens of codes; only the closed set the tracker handles is stored.
var supportedCurrencies = []models.Currency{
	models.CurrencyUSD,
	models.CurrencyHKD,
	models.CurrencyCNY,
	models.CurrencyTHB,
}

// Table is a rate snapshot with its fetch time, for consumers that surface
// freshness alongside the rates.
type Table struct {
	Rates     networth.RateTable `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Provider serves the current rate table: live from the upstream API when
// the TTL cache has expired, otherwise cached; falling back to the last
// persisted table and finally to the static default table when the upstream
// is unreachable. Safe for concurrent use.
type Provider struct {
	httpClient *http.Client
	db         *gorm.DB
	baseURL    string // overridable for tests
	cache      *cache.Cache
	ttl        time.Duration
}

// NewProvider creates a Provider fetching from baseURL with the given cache TTL.
func NewProvider(httpClient *http.Client, db *gorm.DB, baseURL string, ttl time.Duration) *Provider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Provider{
		httpClient: httpClient,
		db:         db,
		baseURL:    baseURL,
		cache:      cache.New(ttl, 2*ttl),
		ttl:        ttl,
	}
}

// GetRates returns the current rate table. It never fails: on upstream
// errors it degrades to the last persisted table, then to the static
// defaults.
func (p *Provider) GetRates(ctx context.Context) Table {
	if cached, ok := p.cache.Get(cacheKey); ok {
		return cached.(Table)
	}

	table, err := p.fetch(ctx)
	if err != nil {
		logger.Get().Warnw("rate fetch failed, using fallback", "error", err)
		table = p.fallback()
	} else {
		p.persist(table)
	}

	p.cache.Set(cacheKey, table, cache.DefaultExpiration)
	return table
}

// Refresh drops the cached table so the next GetRates hits the upstream.
func (p *Provider) Refresh() {
	p.cache.Delete(cacheKey)
}

// ratesResponse matches the exchangerate.host-style payload:
// {"base":"USD","rates":{"CNY":7.3,...}}.
type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func (p *Provider) fetch(ctx context.Context) (Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		return Table{}, fmt.Errorf("building rates request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Table{}, fmt.Errorf("rates http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Table{}, fmt.Errorf("rates request: unexpected status %d", resp.StatusCode)
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Table{}, fmt.Errorf("decoding rates response: %w", err)
	}

	table := Table{Rates: networth.RateTable{models.CurrencyUSD: 1}, FetchedAt: time.Now()}
	for _, currency := range supportedCurrencies {
		if rate, ok := payload.Rates[string(currency)]; ok && rate > 0 {
			table.Rates[currency] = rate
		}
	}
	if len(table.Rates) < 2 {
		return Table{}, fmt.Errorf("rates response contained no supported currencies")
	}
	return table, nil
}

// persist stores one row per currency so the latest fetched table can be
// reconstructed after a restart.
func (p *Provider) persist(table Table) {
	if p.db == nil {
		return
	}
	for currency, rate := range table.Rates {
		row := models.ExchangeRate{Currency: string(currency), Rate: rate, FetchedAt: table.FetchedAt}
		if err := p.db.Create(&row).Error; err != nil {
			logger.Get().Warnw("failed to persist exchange rate", "currency", currency, "error", err)
		}
	}
}

// fallback loads the most recent persisted rate per currency, filling any
// gaps from the static default table.
func (p *Provider) fallback() Table {
	table := Table{Rates: networth.DefaultRates(), FetchedAt: time.Time{}}
	if p.db == nil {
		return table
	}

	for _, currency := range supportedCurrencies {
		var row models.ExchangeRate
		err := p.db.Where("currency = ?", string(currency)).
			Order("fetched_at DESC").
			First(&row).Error
		if err != nil {
			continue
		}
		if row.Rate > 0 {
			table.Rates[currency] = row.Rate
			if row.FetchedAt.After(table.FetchedAt) {
				table.FetchedAt = row.FetchedAt
			}
		}
	}
	return table
}
