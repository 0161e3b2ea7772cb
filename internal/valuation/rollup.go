package valuation

import "github.com/shopspring/decimal"

// PortfolioTotals sums per-asset valuations into portfolio-level
// figures. Multi-currency assets are summed nominally; there is no
// conversion or weighting.
type PortfolioTotals struct {
	Invested  decimal.Decimal `json:"invested"`
	Value     decimal.Decimal `json:"value"`
	Fees      decimal.Decimal `json:"fees"`
	Dividends decimal.Decimal `json:"dividends"`
	Profit    decimal.Decimal `json:"profit"`
	IsGain    bool            `json:"is_gain"`
}

// Rollup reduces per-asset valuations into portfolio totals. Pure
// summation, so the order of assets never affects the result.
func Rollup(valuations []AssetValuation) PortfolioTotals {
	var t PortfolioTotals
	for _, v := range valuations {
		t.Invested = t.Invested.Add(v.Summary.Paid)
		t.Value = t.Value.Add(v.CurrentValue)
		t.Fees = t.Fees.Add(v.Summary.Fees)
		t.Dividends = t.Dividends.Add(v.Summary.Dividends)
	}
	t.Profit = t.Value.Sub(t.Invested).Add(t.Dividends)
	t.IsGain = !t.Profit.IsNegative()
	return t
}
