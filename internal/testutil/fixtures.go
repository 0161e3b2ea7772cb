package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"stockfolio/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAsset creates a stock asset with a unique symbol.
func CreateTestAsset(t *testing.T, db *gorm.DB, userID string) *models.Asset {
	t.Helper()
	return CreateTestAssetWithSymbol(t, db, userID, fmt.Sprintf("TST%d", nextID()))
}

// CreateTestAssetWithSymbol creates a stock asset with the given symbol.
func CreateTestAssetWithSymbol(t *testing.T, db *gorm.DB, userID, symbol string) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		UserID:   userID,
		Symbol:   symbol,
		Name:     fmt.Sprintf("Test Stock %s", symbol),
		Exchange: "NMS",
		Kind:     models.AssetKindStock,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestPurchase creates a purchase transaction. price, quantity, and
// fees are decimal strings; the debit is computed the same way the service
// layer computes it.
func CreateTestPurchase(t *testing.T, db *gorm.DB, assetID string, date time.Time, price, quantity, fees string) *models.Transaction {
	t.Helper()

	p := Dec(t, price)
	q := Dec(t, quantity)
	f := Dec(t, fees)

	tx := &models.Transaction{
		AssetID:      assetID,
		Kind:         models.TransactionKindPurchase,
		Date:         date,
		PricePerUnit: p,
		Quantity:     q,
		Fees:         f,
		Debit:        models.ComputeDebit(p, q, f),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test purchase: %v", err)
	}
	return tx
}

// CreateTestDividend creates a dividend transaction with the given credit.
func CreateTestDividend(t *testing.T, db *gorm.DB, assetID string, date time.Time, credit string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		AssetID: assetID,
		Kind:    models.TransactionKindDividend,
		Date:    date,
		Credit:  Dec(t, credit),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test dividend: %v", err)
	}
	return tx
}

// Dec parses a decimal string, failing the test on bad input.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}
