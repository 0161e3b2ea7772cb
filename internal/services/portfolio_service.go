package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "stockfolio/internal/errors"
	"stockfolio/internal/marketdata"
	"stockfolio/internal/models"
	"stockfolio/internal/valuation"
)

// AssetMetrics is the per-asset row of the dashboard: ledger aggregates
// combined with the cached quote. Monetary fields are rounded to 2
// decimal places here, at the reporting boundary.
type AssetMetrics struct {
	Asset          models.Asset     `json:"asset"`
	TotalUnits     decimal.Decimal  `json:"total_units"`
	TotalPaid      decimal.Decimal  `json:"total_paid"`
	TotalFees      decimal.Decimal  `json:"total_fees"`
	TotalDividends decimal.Decimal  `json:"total_dividends"`
	CurrentPrice   decimal.Decimal  `json:"current_price"`
	TotalValue     decimal.Decimal  `json:"total_value"`
	TotalProfit    decimal.Decimal  `json:"total_profit"`
	IsGain         bool             `json:"is_gain"`
	ProfitPerMonth *decimal.Decimal `json:"profit_per_month"`
	ProfitPerYear  *decimal.Decimal `json:"profit_per_year"`
	ChangePercent  float64          `json:"change_percent"`
	Currency       string           `json:"currency"`
	QuoteOK        bool             `json:"quote_ok"`
}

// Dashboard is the portfolio-wide view: one row per asset plus totals.
type Dashboard struct {
	Assets    []AssetMetrics            `json:"assets"`
	Totals    valuation.PortfolioTotals `json:"totals"`
	AssetsNum int                       `json:"assets_num"`
}

// TransactionMetrics carries display figures for one ledger entry.
type TransactionMetrics struct {
	Transaction  models.Transaction `json:"transaction"`
	TotalCost    decimal.Decimal    `json:"total_cost"`
	CurrentValue decimal.Decimal    `json:"current_value"`
	Profit       decimal.Decimal    `json:"profit"`
	IsGain       bool               `json:"is_gain"`
}

// AssetOverview is the single-asset view: metrics, the full quote,
// per-transaction figures, and the charting symbol.
type AssetOverview struct {
	Metrics       AssetMetrics         `json:"metrics"`
	Quote         marketdata.Quote     `json:"quote"`
	Transactions  []TransactionMetrics `json:"transactions"`
	DisplaySymbol string               `json:"display_symbol"`
	AnalystScore  int                  `json:"analyst_score"`
}

// portfolioService derives valuation metrics from stored ledgers and
// cached quotes.
type portfolioService struct {
	db           *gorm.DB
	assetService AssetServicer
	quotes       QuoteProvider
	opts         valuation.Options
	today        func() time.Time
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB, assetService AssetServicer, quotes QuoteProvider, opts valuation.Options) PortfolioServicer {
	return &portfolioService{
		db:           db,
		assetService: assetService,
		quotes:       quotes,
		opts:         opts,
		today:        time.Now,
	}
}

// GetDashboard values every asset the user tracks and rolls the results
// up into portfolio totals. Quote failures degrade to zero-quotes per
// asset; the dashboard never errors because of the market-data source.
func (s *portfolioService) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	var assets []models.Asset
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("symbol ASC").Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	today := s.today()
	metrics := make([]AssetMetrics, 0, len(assets))
	valuations := make([]valuation.AssetValuation, 0, len(assets))

	for _, asset := range assets {
		txns, err := s.assetLedger(ctx, asset.ID)
		if err != nil {
			return nil, err
		}

		quote := s.quotes.Get(ctx, asset.Symbol)
		summary := valuation.Aggregate(txns, s.opts)
		val := valuation.Value(summary, quote, valuation.FirstPurchaseDate(txns), today)

		metrics = append(metrics, newAssetMetrics(asset, quote, val))
		valuations = append(valuations, val)
	}

	totals := valuation.Rollup(valuations)
	return &Dashboard{
		Assets:    metrics,
		Totals:    roundTotals(totals),
		AssetsNum: len(metrics),
	}, nil
}

// GetAssetOverview values a single asset, including per-transaction
// figures ordered newest date first.
func (s *portfolioService) GetAssetOverview(ctx context.Context, userID, assetID string) (*AssetOverview, error) {
	asset, err := s.assetService.GetAssetByID(userID, assetID)
	if err != nil {
		return nil, err
	}

	var txns []models.Transaction
	if err := s.db.WithContext(ctx).Where("asset_id = ?", asset.ID).
		Order("date DESC, created_at DESC").Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	quote := s.quotes.Get(ctx, asset.Symbol)
	summary := valuation.Aggregate(txns, s.opts)
	val := valuation.Value(summary, quote, valuation.FirstPurchaseDate(txns), s.today())

	txMetrics := make([]TransactionMetrics, 0, len(txns))
	for _, t := range txns {
		tv := valuation.ValueTransaction(t, val.CurrentPrice)
		txMetrics = append(txMetrics, TransactionMetrics{
			Transaction:  tv.Transaction,
			TotalCost:    tv.TotalCost.Round(2),
			CurrentValue: tv.CurrentValue.Round(2),
			Profit:       tv.Profit.Round(2),
			IsGain:       tv.IsGain,
		})
	}

	return &AssetOverview{
		Metrics:       newAssetMetrics(*asset, quote, val),
		Quote:         quote,
		Transactions:  txMetrics,
		DisplaySymbol: marketdata.DisplaySymbol(asset.Exchange, asset.Symbol),
		AnalystScore:  valuation.AnalystScore(quote.Recommendation),
	}, nil
}

// assetLedger loads all transactions for one asset, unordered;
// aggregation is order-independent.
func (s *portfolioService) assetLedger(ctx context.Context, assetID string) ([]models.Transaction, error) {
	var txns []models.Transaction
	if err := s.db.WithContext(ctx).Where("asset_id = ?", assetID).
		Find(&txns).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txns, nil
}

// newAssetMetrics flattens a valuation into the reporting shape,
// rounding monetary fields to 2 decimal places.
func newAssetMetrics(asset models.Asset, quote marketdata.Quote, val valuation.AssetValuation) AssetMetrics {
	return AssetMetrics{
		Asset:          asset,
		TotalUnits:     val.Summary.Units,
		TotalPaid:      val.Summary.Paid.Round(2),
		TotalFees:      val.Summary.Fees.Round(2),
		TotalDividends: val.Summary.Dividends.Round(2),
		CurrentPrice:   val.CurrentPrice,
		TotalValue:     val.CurrentValue.Round(2),
		TotalProfit:    val.TotalProfit.Round(2),
		IsGain:         val.IsGain,
		ProfitPerMonth: val.ProfitPerMonth,
		ProfitPerYear:  val.ProfitPerYear,
		ChangePercent:  quote.ChangePercent,
		Currency:       quote.Currency,
		QuoteOK:        quote.Success,
	}
}

// roundTotals rounds portfolio totals at the reporting boundary.
func roundTotals(t valuation.PortfolioTotals) valuation.PortfolioTotals {
	return valuation.PortfolioTotals{
		Invested:  t.Invested.Round(2),
		Value:     t.Value.Round(2),
		Fees:      t.Fees.Round(2),
		Dividends: t.Dividends.Round(2),
		Profit:    t.Profit.Round(2),
		IsGain:    t.IsGain,
	}
}
