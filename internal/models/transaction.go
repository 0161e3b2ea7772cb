package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionKind represents the kind of ledger entry recorded against an asset.
type TransactionKind string

const (
	TransactionKindPurchase TransactionKind = "purchase"
	TransactionKindDividend TransactionKind = "dividend"
)

// Transaction represents a single ledger entry for an asset. The monetary
// fields are kind-dependent: purchases carry price, quantity, fees, and a
// precomputed debit; dividends carry only a credit. Transactions are
// immutable once created except for deletion.
type Transaction struct {
	Base
	AssetID string          `gorm:"type:uuid;not null;index" json:"asset_id"`
	Kind    TransactionKind `gorm:"not null;default:'purchase'" json:"kind"`
	Date    time.Time       `gorm:"type:date;not null" json:"date"`

	PricePerUnit decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"price_per_unit"`
	Quantity     decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"quantity"`
	Fees         decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"fees"`
	Debit        decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"debit"`
	Credit       decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"credit"`

	Notes string `json:"notes"`

	// Relationships
	Asset Asset `gorm:"foreignKey:AssetID" json:"-"`
}

// ComputeDebit returns the total cash outflow for a purchase:
// price-per-unit x quantity + fees, rounded to 2 decimal places.
func ComputeDebit(pricePerUnit, quantity, fees decimal.Decimal) decimal.Decimal {
	return pricePerUnit.Mul(quantity).Add(fees).Round(2)
}

// Normalize applies backward-compatible defaults so downstream code only
// ever sees fully-populated records. Rows written before the kind column
// existed are treated as purchases, and purchases that predate the stored
// debit get it recomputed from price and quantity.
func (t *Transaction) Normalize() {
	if t.Kind == "" {
		t.Kind = TransactionKindPurchase
	}
	if t.Kind == TransactionKindPurchase && !t.Debit.IsPositive() {
		t.Debit = t.PricePerUnit.Mul(t.Quantity)
	}
}

// AfterFind normalizes legacy rows at the storage-read boundary.
func (t *Transaction) AfterFind(tx *gorm.DB) error {
	t.Normalize()
	return nil
}
