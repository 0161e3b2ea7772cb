package marketdata

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	quoteSummaryPath    = "/v10/finance/quoteSummary/{symbol}"
	quoteSummaryModules = "price,summaryProfile,financialData"
	yahooUA             = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// yahooValue is Yahoo's raw/fmt wrapper around numeric fields.
type yahooValue struct {
	Raw float64 `json:"raw"`
}

// yahooQuoteSummary is the top-level quoteSummary API response.
type yahooQuoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				Symbol                     string     `json:"symbol"`
				ShortName                  string     `json:"shortName"`
				LongName                   string     `json:"longName"`
				Currency                   string     `json:"currency"`
				Exchange                   string     `json:"exchange"`
				RegularMarketPrice         yahooValue `json:"regularMarketPrice"`
				RegularMarketPreviousClose yahooValue `json:"regularMarketPreviousClose"`
				RegularMarketDayHigh       yahooValue `json:"regularMarketDayHigh"`
				RegularMarketDayLow        yahooValue `json:"regularMarketDayLow"`
				MarketCap                  yahooValue `json:"marketCap"`
			} `json:"price"`
			SummaryProfile struct {
				Sector string `json:"sector"`
			} `json:"summaryProfile"`
			FinancialData struct {
				RecommendationKey       string     `json:"recommendationKey"`
				TargetMeanPrice         yahooValue `json:"targetMeanPrice"`
				NumberOfAnalystOpinions yahooValue `json:"numberOfAnalystOpinions"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// YahooClient fetches quotes from the Yahoo Finance quoteSummary endpoint.
type YahooClient struct {
	client *resty.Client
}

// NewYahooClient creates a Yahoo Finance quote source. The timeout bounds
// each fetch; expiry surfaces as a fetch error.
func NewYahooClient(baseURL string, timeout time.Duration) *YahooClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", yahooUA)
	return &YahooClient{client: client}
}

// Fetch retrieves a quote for the given (already normalized) symbol.
func (y *YahooClient) Fetch(ctx context.Context, symbol string) (Quote, error) {
	var payload yahooQuoteSummary
	resp, err := y.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParam("modules", quoteSummaryModules).
		SetResult(&payload).
		Get(quoteSummaryPath)
	if err != nil {
		return Quote{}, fmt.Errorf("quote request for %s: %w", symbol, err)
	}
	if resp.IsError() {
		return Quote{}, fmt.Errorf("quote request for %s: unexpected status %d", symbol, resp.StatusCode())
	}
	if apiErr := payload.QuoteSummary.Error; apiErr != nil {
		return Quote{}, fmt.Errorf("quote request for %s: %s (%s)", symbol, apiErr.Description, apiErr.Code)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return Quote{}, fmt.Errorf("quote request for %s: empty result", symbol)
	}

	result := payload.QuoteSummary.Result[0]
	price := result.Price

	name := price.ShortName
	if name == "" {
		name = price.LongName
	}
	if name == "" {
		name = symbol
	}

	exchange := "N/A"
	if price.Exchange != "" {
		exchange = MapExchange(price.Exchange)
	}

	currency := price.Currency
	if currency == "" {
		currency = "USD"
	}

	sector := result.SummaryProfile.Sector
	if sector == "" {
		sector = "N/A"
	}

	current := price.RegularMarketPrice.Raw
	previous := price.RegularMarketPreviousClose.Raw

	var changeAmount, changePercent float64
	if current != 0 && previous != 0 {
		changeAmount = current - previous
		changePercent = changeAmount / previous * 100
	}

	return Quote{
		Symbol:          symbol,
		Name:            name,
		Exchange:        exchange,
		Currency:        currency,
		CurrentPrice:    round2(current),
		PreviousClose:   round2(previous),
		ChangeAmount:    round2(changeAmount),
		ChangePercent:   round2(changePercent),
		DayHigh:         round2(price.RegularMarketDayHigh.Raw),
		DayLow:          round2(price.RegularMarketDayLow.Raw),
		MarketCap:       int64(price.MarketCap.Raw),
		Sector:          sector,
		Recommendation:  result.FinancialData.RecommendationKey,
		TargetMeanPrice: round2(result.FinancialData.TargetMeanPrice.Raw),
		AnalystOpinions: int(result.FinancialData.NumberOfAnalystOpinions.Raw),
		Success:         true,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
