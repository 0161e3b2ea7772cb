package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "stockfolio/internal/errors"
	"stockfolio/internal/models"
	"stockfolio/internal/pagination"
)

// transactionService handles ledger-entry business logic.
type transactionService struct {
	db           *gorm.DB
	assetService AssetServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, assetService AssetServicer) TransactionServicer {
	return &transactionService{db: db, assetService: assetService}
}

// RecordPurchase records a purchase against an asset. The debit is
// precomputed as price x quantity + fees, rounded to 2 decimal places.
func (s *transactionService) RecordPurchase(userID, assetID string, date time.Time, pricePerUnit, quantity, fees decimal.Decimal, notes string) (*models.Transaction, error) {
	asset, err := s.assetService.GetAssetByID(userID, assetID)
	if err != nil {
		return nil, err
	}

	if !pricePerUnit.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price per unit must be positive")
	}
	if !quantity.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be positive")
	}
	if fees.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Fees cannot be negative")
	}

	txn := &models.Transaction{
		AssetID:      asset.ID,
		Kind:         models.TransactionKindPurchase,
		Date:         dateOnly(date),
		PricePerUnit: pricePerUnit,
		Quantity:     quantity,
		Fees:         fees,
		Debit:        models.ComputeDebit(pricePerUnit, quantity, fees),
		Notes:        notes,
	}

	if err := s.db.Create(txn).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return txn, nil
}

// RecordDividend records a cash dividend against an asset. All
// purchase-only fields stay zero.
func (s *transactionService) RecordDividend(userID, assetID string, date time.Time, credit decimal.Decimal, notes string) (*models.Transaction, error) {
	asset, err := s.assetService.GetAssetByID(userID, assetID)
	if err != nil {
		return nil, err
	}

	if !credit.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Credit must be positive")
	}

	txn := &models.Transaction{
		AssetID: asset.ID,
		Kind:    models.TransactionKindDividend,
		Date:    dateOnly(date),
		Credit:  credit,
		Notes:   notes,
	}

	if err := s.db.Create(txn).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return txn, nil
}

// GetAssetTransactions returns a paginated list of an asset's
// transactions, newest date first.
func (s *transactionService) GetAssetTransactions(userID, assetID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if _, err := s.assetService.GetAssetByID(userID, assetID); err != nil {
		return nil, err
	}

	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Transaction{}).Where("asset_id = ?", assetID).
		Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := s.db.Where("asset_id = ?", assetID).
		Order("date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteTransaction removes a single ledger entry if its asset belongs
// to the user.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	var txn models.Transaction
	if err := s.db.First(&txn, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTransactionNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Ownership is checked through the parent asset; a foreign asset
	// looks the same as a missing transaction.
	if _, err := s.assetService.GetAssetByID(userID, txn.AssetID); err != nil {
		return apperrors.ErrTransactionNotFound
	}

	if err := s.db.Delete(&txn).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// dateOnly truncates a timestamp to calendar-day granularity in UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
