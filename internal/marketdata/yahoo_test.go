package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const appleSummary = `{
  "quoteSummary": {
    "result": [{
      "price": {
        "symbol": "AAPL",
        "shortName": "Apple Inc.",
        "longName": "Apple Inc.",
        "currency": "USD",
        "exchange": "NMS",
        "regularMarketPrice": {"raw": 150.456},
        "regularMarketPreviousClose": {"raw": 148.0},
        "regularMarketDayHigh": {"raw": 151.2},
        "regularMarketDayLow": {"raw": 147.9},
        "marketCap": {"raw": 2400000000000}
      },
      "summaryProfile": {"sector": "Technology"},
      "financialData": {
        "recommendationKey": "buy",
        "targetMeanPrice": {"raw": 175.5},
        "numberOfAnalystOpinions": {"raw": 38}
      }
    }],
    "error": null
  }
}`

func TestYahooClientFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("parses_full_summary", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v10/finance/quoteSummary/AAPL" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			if got := r.URL.Query().Get("modules"); got != "price,summaryProfile,financialData" {
				t.Errorf("unexpected modules %q", got)
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, appleSummary)
		}))
		defer server.Close()

		client := NewYahooClient(server.URL, 5*time.Second)
		quote, err := client.Fetch(ctx, "AAPL")
		if err != nil {
			t.Fatalf("unexpected fetch error: %v", err)
		}

		if !quote.Success {
			t.Error("expected a successful quote")
		}
		if quote.Name != "Apple Inc." {
			t.Errorf("expected name Apple Inc., got %q", quote.Name)
		}
		if quote.Exchange != "NASDAQ" {
			t.Errorf("expected exchange code NMS to map to NASDAQ, got %q", quote.Exchange)
		}
		if quote.CurrentPrice != 150.46 {
			t.Errorf("expected price rounded to 150.46, got %v", quote.CurrentPrice)
		}
		if quote.ChangeAmount != 2.46 {
			t.Errorf("expected change 2.46, got %v", quote.ChangeAmount)
		}
		if quote.ChangePercent != 1.66 {
			t.Errorf("expected change percent 1.66, got %v", quote.ChangePercent)
		}
		if quote.MarketCap != 2400000000000 {
			t.Errorf("unexpected market cap %d", quote.MarketCap)
		}
		if quote.Sector != "Technology" {
			t.Errorf("unexpected sector %q", quote.Sector)
		}
		if quote.Recommendation != "buy" || quote.AnalystOpinions != 38 {
			t.Errorf("unexpected analyst fields: %q %d", quote.Recommendation, quote.AnalystOpinions)
		}
		if quote.TargetMeanPrice != 175.5 {
			t.Errorf("unexpected target mean price %v", quote.TargetMeanPrice)
		}
	})

	t.Run("defaults_for_sparse_summary", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"quoteSummary": {"result": [{"price": {"symbol": "ZZZZ", "regularMarketPrice": {"raw": 12.0}}}], "error": null}}`)
		}))
		defer server.Close()

		client := NewYahooClient(server.URL, 5*time.Second)
		quote, err := client.Fetch(ctx, "ZZZZ")
		if err != nil {
			t.Fatalf("unexpected fetch error: %v", err)
		}

		if quote.Name != "ZZZZ" {
			t.Errorf("expected name to fall back to the symbol, got %q", quote.Name)
		}
		if quote.Exchange != "N/A" {
			t.Errorf("expected missing exchange to be N/A, got %q", quote.Exchange)
		}
		if quote.Currency != "USD" {
			t.Errorf("expected default currency USD, got %q", quote.Currency)
		}
		if quote.Sector != "N/A" {
			t.Errorf("expected missing sector to be N/A, got %q", quote.Sector)
		}
		if quote.ChangeAmount != 0 || quote.ChangePercent != 0 {
			t.Errorf("change should be zero without a previous close: %v %v", quote.ChangeAmount, quote.ChangePercent)
		}
	})

	t.Run("api_error_payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"quoteSummary": {"result": null, "error": {"code": "Not Found", "description": "Quote not found for ticker symbol: ZZZZ"}}}`)
		}))
		defer server.Close()

		client := NewYahooClient(server.URL, 5*time.Second)
		if _, err := client.Fetch(ctx, "ZZZZ"); err == nil {
			t.Fatal("expected an error for an API error payload")
		}
	})

	t.Run("empty_result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"quoteSummary": {"result": [], "error": null}}`)
		}))
		defer server.Close()

		client := NewYahooClient(server.URL, 5*time.Second)
		if _, err := client.Fetch(ctx, "ZZZZ"); err == nil {
			t.Fatal("expected an error for an empty result")
		}
	})

	t.Run("http_error_status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewYahooClient(server.URL, 5*time.Second)
		if _, err := client.Fetch(ctx, "AAPL"); err == nil {
			t.Fatal("expected an error for a non-2xx status")
		}
	})
}
