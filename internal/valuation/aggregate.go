// Package valuation is the pure computation core: it reduces an asset's
// transaction ledger into aggregate figures, combines them with a live
// quote into per-asset metrics, and rolls those up into portfolio
// totals. Nothing here touches storage, HTTP, or the quote source.
package valuation

import (
	"github.com/shopspring/decimal"

	"stockfolio/internal/models"
)

// Options control ledger aggregation.
type Options struct {
	// PurchaseFeesOnly restricts the fee total to purchase transactions.
	// The default sums fees over both kinds, which matches schemas where
	// dividends may also carry fees.
	PurchaseFeesOnly bool
}

// Summary is the reduction of one asset's ledger: unit count, cost
// basis, fee total, and dividend income. All fields keep full decimal
// precision; rounding happens only at the reporting boundary.
type Summary struct {
	Units     decimal.Decimal `json:"total_units"`
	Paid      decimal.Decimal `json:"total_paid"`
	Fees      decimal.Decimal `json:"total_fees"`
	Dividends decimal.Decimal `json:"total_dividends"`
}

// Aggregate reduces a set of transactions for one asset. The result is
// order-independent: an empty ledger yields all zeros. A transaction
// with a blank or unknown kind gets purchase semantics, and a purchase
// without a positive stored debit falls back to price x quantity; both
// are compatibility paths for legacy records.
func Aggregate(txns []models.Transaction, opts Options) Summary {
	var s Summary
	for _, t := range txns {
		switch t.Kind {
		case models.TransactionKindDividend:
			s.Dividends = s.Dividends.Add(t.Credit)
			if !opts.PurchaseFeesOnly {
				s.Fees = s.Fees.Add(t.Fees)
			}
		default:
			s.Units = s.Units.Add(t.Quantity)
			s.Paid = s.Paid.Add(effectiveDebit(t))
			s.Fees = s.Fees.Add(t.Fees)
		}
	}
	return s
}

// effectiveDebit returns the stored debit, or price x quantity when the
// debit is absent or non-positive.
func effectiveDebit(t models.Transaction) decimal.Decimal {
	if t.Debit.IsPositive() {
		return t.Debit
	}
	return t.PricePerUnit.Mul(t.Quantity)
}
