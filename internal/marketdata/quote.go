// Package marketdata fetches live quotes from an external market-data
// source and serves them through a TTL-bounded in-memory cache.
package marketdata

import (
	"context"
	"strings"
	"time"
)

// Quote is a point-in-time snapshot of market data for one symbol.
// A quote with Success=false is a zero-quote: the defined fallback used
// when the external fetch fails, so valuation code never needs a failure
// branch.
type Quote struct {
	Symbol          string    `json:"symbol"`
	Name            string    `json:"name"`
	Exchange        string    `json:"exchange"`
	Currency        string    `json:"currency"`
	CurrentPrice    float64   `json:"current_price"`
	PreviousClose   float64   `json:"previous_close"`
	ChangeAmount    float64   `json:"change_amount"`
	ChangePercent   float64   `json:"change_percent"`
	DayHigh         float64   `json:"day_high"`
	DayLow          float64   `json:"day_low"`
	MarketCap       int64     `json:"market_cap"`
	Sector          string    `json:"sector"`
	Recommendation  string    `json:"recommendation,omitempty"`
	TargetMeanPrice float64   `json:"target_mean_price,omitempty"`
	AnalystOpinions int       `json:"analyst_opinions,omitempty"`
	Success         bool      `json:"success"`
	Error           string    `json:"error,omitempty"`
	FetchedAt       time.Time `json:"fetched_at,omitempty"`
}

// Source fetches a quote for a single symbol from an external provider.
// The symbol is already normalized by the caller.
type Source interface {
	Fetch(ctx context.Context, symbol string) (Quote, error)
}

// NormalizeSymbol uppercases and trims a ticker symbol. All cache keys
// and lookups go through this first.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ZeroQuote returns the fallback quote for a failed fetch: all numeric
// fields zero, the symbol standing in for the name, and sentinel
// exchange/currency values.
func ZeroQuote(symbol string, err error) Quote {
	q := Quote{
		Symbol:   symbol,
		Name:     symbol,
		Exchange: "N/A",
		Currency: "USD",
		Sector:   "N/A",
		Success:  false,
	}
	if err != nil {
		q.Error = err.Error()
	}
	return q
}

// exchangeNames maps upstream exchange codes to display names.
// Unknown codes pass through unchanged.
var exchangeNames = map[string]string{
	"NMS": "NASDAQ",
	"NGM": "NASDAQ",
	"NCM": "NASDAQ",
	"NYQ": "NYSE",
	"NYS": "NYSE",
	"PCX": "NYSE ARCA",
	"BTS": "BATS",
	"ASE": "NYSE American",
	"LSE": "London",
	"TYO": "Tokyo",
}

// MapExchange translates an upstream exchange code into its display name.
func MapExchange(code string) string {
	if name, ok := exchangeNames[code]; ok {
		return name
	}
	return code
}

// DisplaySymbol builds the "{EXCHANGE}:{SYMBOL}" identifier used by
// charting widgets. Raw exchange codes are mapped to their display
// names first, and the exchange defaults to NASDAQ when it is missing
// or the "N/A" sentinel.
func DisplaySymbol(exchange, symbol string) string {
	ex := MapExchange(strings.ToUpper(strings.TrimSpace(exchange)))
	if ex == "" || ex == "N/A" {
		ex = "NASDAQ"
	}
	return ex + ":" + NormalizeSymbol(symbol)
}
