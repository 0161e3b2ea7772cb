package services

import (
	"context"

	"stockfolio/internal/marketdata"
)

// stubQuotes is an in-memory QuoteProvider for service tests. Symbols
// without a scripted quote behave like a failed upstream fetch.
type stubQuotes struct {
	quotes map[string]marketdata.Quote
}

func newStubQuotes() *stubQuotes {
	return &stubQuotes{quotes: make(map[string]marketdata.Quote)}
}

func (s *stubQuotes) set(symbol string, quote marketdata.Quote) {
	quote.Symbol = symbol
	s.quotes[marketdata.NormalizeSymbol(symbol)] = quote
}

func (s *stubQuotes) Get(ctx context.Context, symbol string) marketdata.Quote {
	symbol = marketdata.NormalizeSymbol(symbol)
	if q, ok := s.quotes[symbol]; ok {
		return q
	}
	return marketdata.ZeroQuote(symbol, nil)
}

func (s *stubQuotes) Resolve(ctx context.Context, symbol string) (marketdata.Resolution, bool) {
	q := s.Get(ctx, symbol)
	if !q.Success || q.CurrentPrice <= 0 {
		return marketdata.Resolution{}, false
	}
	return marketdata.Resolution{Name: q.Name, Exchange: q.Exchange}, true
}
