package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "stockfolio/internal/errors"
	"stockfolio/internal/marketdata"
	"stockfolio/internal/models"
	"stockfolio/internal/pagination"
)

// assetService handles asset-related business logic.
type assetService struct {
	db     *gorm.DB
	quotes QuoteProvider
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(db *gorm.DB, quotes QuoteProvider) AssetServicer {
	return &assetService{db: db, quotes: quotes}
}

// CreateAsset creates a tracked asset for the user. The symbol is
// normalized and must be unique per owner. Missing name or exchange is
// auto-filled from a best-effort symbol lookup; when that lookup fails
// the bare symbol and the "N/A" sentinel are used instead.
// Caller-supplied metadata is never overwritten.
func (s *assetService) CreateAsset(ctx context.Context, userID, symbol, name, exchange string, kind models.AssetKind) (*models.Asset, error) {
	symbol = marketdata.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, apperrors.ErrInvalidSymbol
	}

	var count int64
	if err := s.db.Model(&models.Asset{}).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateAsset
	}

	if name == "" || exchange == "" {
		resolved, ok := s.quotes.Resolve(ctx, symbol)
		if !ok {
			resolved = marketdata.Resolution{Name: symbol, Exchange: "N/A"}
		}
		if name == "" {
			name = resolved.Name
		}
		if exchange == "" {
			exchange = resolved.Exchange
		}
	}

	if kind == "" {
		kind = models.AssetKindStock
	}

	asset := &models.Asset{
		UserID:   userID,
		Symbol:   symbol,
		Name:     name,
		Exchange: exchange,
		Kind:     kind,
	}

	if err := s.db.Create(asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return asset, nil
}

// GetUserAssets returns a paginated list of the user's assets.
func (s *assetService) GetUserAssets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Asset{}).Where("user_id = ?", userID).
		Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.Asset
	if err := s.db.Where("user_id = ?", userID).Order("symbol ASC").
		Scopes(pagination.Paginate(page)).Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(assets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAssetByID returns an asset if it belongs to the user.
func (s *assetService) GetAssetByID(userID, assetID string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.First(&asset, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if asset.UserID != userID {
		return nil, apperrors.ErrAssetNotFound
	}

	return &asset, nil
}

// DeleteAsset removes an asset and cascades the delete to its
// transactions in a single database transaction.
func (s *assetService) DeleteAsset(userID, assetID string) error {
	asset, err := s.GetAssetByID(userID, assetID)
	if err != nil {
		return err
	}

	// Hard delete so the user can track the same symbol again later;
	// a soft-deleted row would still hold the (user_id, symbol) slot.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Unscoped().Where("asset_id = ?", asset.ID).
			Delete(&models.Transaction{}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if txErr := tx.Unscoped().Delete(asset).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	return err
}

// ListSymbols returns the distinct set of symbols across all assets.
// The quote refresher uses it to keep the cache warm.
func (s *assetService) ListSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := s.db.WithContext(ctx).Model(&models.Asset{}).
		Distinct().Pluck("symbol", &symbols).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return symbols, nil
}
