package valuation

import (
	"time"

	"github.com/shopspring/decimal"

	"stockfolio/internal/marketdata"
	"stockfolio/internal/models"
)

// daysPerMonth is the average Gregorian month length used for linear
// annualization.
const daysPerMonth = 30.44

var twelve = decimal.NewFromInt(12)

// AssetValuation combines an asset's ledger summary with a live quote.
type AssetValuation struct {
	Summary      Summary
	CurrentPrice decimal.Decimal
	CurrentValue decimal.Decimal
	TotalProfit  decimal.Decimal
	IsGain       bool

	// Annualized figures are nil when the holding period is under a day
	// or there are no purchases to date it from.
	ProfitPerMonth *decimal.Decimal
	ProfitPerYear  *decimal.Decimal
}

// TransactionValuation carries display figures for a single ledger entry.
type TransactionValuation struct {
	Transaction  models.Transaction
	TotalCost    decimal.Decimal
	CurrentValue decimal.Decimal
	Profit       decimal.Decimal
	IsGain       bool
}

// Value combines a ledger summary with a quote. A zero-quote has price 0
// and yields a defined zero current value rather than an error.
// firstPurchase dates the holding period for annualization; the zero
// time means there are no purchases.
func Value(summary Summary, quote marketdata.Quote, firstPurchase, today time.Time) AssetValuation {
	price := decimal.NewFromFloat(quote.CurrentPrice)
	value := price.Mul(summary.Units)
	profit := value.Sub(summary.Paid).Add(summary.Dividends)

	v := AssetValuation{
		Summary:      summary,
		CurrentPrice: price,
		CurrentValue: value,
		TotalProfit:  profit,
		// Zero profit counts as a gain.
		IsGain: !profit.IsNegative(),
	}
	v.ProfitPerMonth, v.ProfitPerYear = annualize(profit, firstPurchase, today)
	return v
}

// annualize linearly extrapolates profit-to-date over the holding period
// since the first purchase. Holdings under a day cannot be annualized
// without division instability, so both figures stay nil.
func annualize(profit decimal.Decimal, firstPurchase, today time.Time) (*decimal.Decimal, *decimal.Decimal) {
	if firstPurchase.IsZero() {
		return nil, nil
	}
	holdingDays := int(today.Sub(firstPurchase).Hours() / 24)
	if holdingDays < 1 {
		return nil, nil
	}

	months := decimal.NewFromFloat(float64(holdingDays) / daysPerMonth)
	perMonth := profit.Div(months)
	perYear := perMonth.Mul(twelve).Round(2)
	perMonth = perMonth.Round(2)
	return &perMonth, &perYear
}

// FirstPurchaseDate returns the earliest purchase date in the ledger,
// or the zero time when the ledger holds no purchases.
func FirstPurchaseDate(txns []models.Transaction) time.Time {
	var first time.Time
	for _, t := range txns {
		if t.Kind == models.TransactionKindDividend {
			continue
		}
		if t.Date.IsZero() {
			continue
		}
		if first.IsZero() || t.Date.Before(first) {
			first = t.Date
		}
	}
	return first
}

// ValueTransaction computes display figures for one ledger entry at the
// given current price. Dividends contribute their credit as pure profit
// and are always flagged as a gain.
func ValueTransaction(t models.Transaction, currentPrice decimal.Decimal) TransactionValuation {
	if t.Kind == models.TransactionKindDividend {
		return TransactionValuation{
			Transaction: t,
			Profit:      t.Credit,
			IsGain:      true,
		}
	}

	cost := effectiveDebit(t)
	value := currentPrice.Mul(t.Quantity)
	profit := value.Sub(cost)
	return TransactionValuation{
		Transaction:  t,
		TotalCost:    cost,
		CurrentValue: value,
		Profit:       profit,
		IsGain:       !profit.IsNegative(),
	}
}
