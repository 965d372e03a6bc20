package models

// Exchange identifies a supported centralized exchange.
type Exchange string

// Supported exchanges.
const (
	ExchangeBinance Exchange = "binance"
	ExchangeOkx     Exchange = "okx"
	ExchangeBybit   Exchange = "bybit"
	ExchangeBitget  Exchange = "bitget"
)

// Valid reports whether the exchange is one of the supported values.
func (e Exchange) Valid() bool {
	switch e {
	case ExchangeBinance, ExchangeOkx, ExchangeBybit, ExchangeBitget:
		return true
	}
	return false
}

// Currency identifies a supported fiat currency.
type Currency string

// Supported currencies.
const (
	CurrencyUSD Currency = "USD"
	CurrencyHKD Currency = "HKD"
	CurrencyCNY Currency = "CNY"
	CurrencyTHB Currency = "THB"
)

// Valid reports whether the currency is one of the supported values.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyUSD, CurrencyHKD, CurrencyCNY, CurrencyTHB:
		return true
	}
	return false
}

// Institution identifies a bank or brokerage.
type Institution string

// Supported institutions.
const (
	InstitutionZaBank       Institution = "za bank"
	InstitutionHsbcHk       Institution = "hsbc hk"
	InstitutionBkkBank      Institution = "bkk bank"
	InstitutionAgBank       Institution = "农业银行"
	InstitutionMinshengBank Institution = "民生银行"
	InstitutionBroker       Institution = "券商"
)

// Valid reports whether the institution is one of the supported values.
func (i Institution) Valid() bool {
	switch i {
	case InstitutionZaBank, InstitutionHsbcHk, InstitutionBkkBank,
		InstitutionAgBank, InstitutionMinshengBank, InstitutionBroker:
		return true
	}
	return false
}

// DepositType identifies how a bank holding is held.
type DepositType string

// Supported deposit types: current deposit, time deposit, equity.
const (
	DepositTypeCurrent DepositType = "活期"
	DepositTypeTime    DepositType = "定期"
	DepositTypeEquity  DepositType = "股票"
)

// Valid reports whether the deposit type is one of the supported values.
func (d DepositType) Valid() bool {
	switch d {
	case DepositTypeCurrent, DepositTypeTime, DepositTypeEquity:
		return true
	}
	return false
}

// OnChainPosition is one token allocation inside a wallet. An APR of 0
// marks the position as non-yield-bearing.
type OnChainPosition struct {
	ID       string  `json:"id"`
	Token    string  `json:"token"`
	ValueUSD float64 `json:"value_usd"`
	APR      float64 `json:"apr"`
}

// OnChainAsset is one wallet. TotalValueUSD is entered by hand and may exceed
// the sum of position values: positions itemize only the yield-bearing
// sub-allocations, while the wallet total can include balances that are not
// broken out. The remaining fields are derived and recomputed on every read
// and write, never hand-edited.
type OnChainAsset struct {
	ID            string            `json:"id"`
	WalletAddress string            `json:"wallet_address"`
	Remark        string            `json:"remark"`
	Positions     []OnChainPosition `json:"positions"`
	TotalValueUSD float64           `json:"total_value_usd"`

	// Derived fields.
	YieldValueUSD float64 `json:"yield_value_usd"`
	TotalAPR      float64 `json:"total_apr"`
	DailyIncome   float64 `json:"daily_income"`
	MonthlyIncome float64 `json:"monthly_income"`
	YearlyIncome  float64 `json:"yearly_income"`
}

// CEXAsset is one centralized-exchange account. A zero APR means the balance
// earns nothing.
type CEXAsset struct {
	ID            string   `json:"id"`
	Exchange      Exchange `json:"exchange"`
	TotalValueUSD float64  `json:"total_value_usd"`
	APR           float64  `json:"apr,omitempty"`
}

// BankAsset is one bank or brokerage holding in its native currency.
// ValueUSD must equal Amount * ExchangeRate; writers keep it consistent and
// readers recompute it defensively.
type BankAsset struct {
	ID           string      `json:"id"`
	Institution  Institution `json:"institution"`
	DepositType  DepositType `json:"deposit_type"`
	Currency     Currency    `json:"currency"`
	Amount       float64     `json:"amount"`
	ExchangeRate float64     `json:"exchange_rate"`
	ValueUSD     float64     `json:"value_usd"`
}
