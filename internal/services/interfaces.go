package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"stockfolio/internal/marketdata"
	"stockfolio/internal/models"
	"stockfolio/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, displayName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// AssetServicer defines the contract for asset-related business logic.
type AssetServicer interface {
	CreateAsset(ctx context.Context, userID, symbol, name, exchange string, kind models.AssetKind) (*models.Asset, error)
	GetUserAssets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	GetAssetByID(userID, assetID string) (*models.Asset, error)
	DeleteAsset(userID, assetID string) error
	ListSymbols(ctx context.Context) ([]string, error)
}

// TransactionServicer defines the contract for ledger-entry business logic.
type TransactionServicer interface {
	RecordPurchase(userID, assetID string, date time.Time, pricePerUnit, quantity, fees decimal.Decimal, notes string) (*models.Transaction, error)
	RecordDividend(userID, assetID string, date time.Time, credit decimal.Decimal, notes string) (*models.Transaction, error)
	GetAssetTransactions(userID, assetID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	DeleteTransaction(userID, transactionID string) error
}

// QuoteProvider is the slice of the quote cache the services consume.
// *marketdata.Cache satisfies it; tests substitute a stub.
type QuoteProvider interface {
	Get(ctx context.Context, symbol string) marketdata.Quote
	Resolve(ctx context.Context, symbol string) (marketdata.Resolution, bool)
}

// PortfolioServicer derives live valuation and performance metrics from
// stored ledgers and cached quotes.
type PortfolioServicer interface {
	GetDashboard(ctx context.Context, userID string) (*Dashboard, error)
	GetAssetOverview(ctx context.Context, userID, assetID string) (*AssetOverview, error)
}
