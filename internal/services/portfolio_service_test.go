package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"stockfolio/internal/marketdata"
	"stockfolio/internal/testutil"
	"stockfolio/internal/valuation"
)

func newPortfolioFixture(t *testing.T, db *gorm.DB, quotes *stubQuotes, opts valuation.Options) PortfolioServicer {
	t.Helper()
	assetSvc := NewAssetService(db, quotes)
	svc := NewPortfolioService(db, assetSvc, quotes, opts).(*portfolioService)
	svc.today = func() time.Time {
		return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestGetDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("single_asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		quotes := newStubQuotes()
		quotes.set("AAPL", marketdata.Quote{CurrentPrice: 120, Currency: "USD", Success: true})
		svc := newPortfolioFixture(t, db, quotes, valuation.Options{})

		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAssetWithSymbol(t, db, user.ID, "AAPL")
		testutil.CreateTestPurchase(t, db, asset.ID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "100", "10", "5")

		dashboard, err := svc.GetDashboard(ctx, user.ID)
		testutil.AssertNoError(t, err)

		if dashboard.AssetsNum != 1 {
			t.Fatalf("expected 1 asset, got %d", dashboard.AssetsNum)
		}
		m := dashboard.Assets[0]
		testutil.AssertDecimalEqual(t, "10", m.TotalUnits)
		testutil.AssertDecimalEqual(t, "1005", m.TotalPaid)
		testutil.AssertDecimalEqual(t, "1200", m.TotalValue)
		testutil.AssertDecimalEqual(t, "195", m.TotalProfit)
		if !m.IsGain {
			t.Error("expected a gain")
		}
		if m.ProfitPerMonth == nil || m.ProfitPerYear == nil {
			t.Fatal("expected annualized figures for a three-month holding")
		}
		if !m.QuoteOK {
			t.Error("expected a live quote")
		}

		testutil.AssertDecimalEqual(t, "1005", dashboard.Totals.Invested)
		testutil.AssertDecimalEqual(t, "1200", dashboard.Totals.Value)
		testutil.AssertDecimalEqual(t, "195", dashboard.Totals.Profit)
	})

	t.Run("quote_failure_degrades_to_zero_value", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		quotes := newStubQuotes()
		quotes.set("AAPL", marketdata.Quote{CurrentPrice: 120, Currency: "USD", Success: true})
		svc := newPortfolioFixture(t, db, quotes, valuation.Options{})

		user := testutil.CreateTestUser(t, db)
		aapl := testutil.CreateTestAssetWithSymbol(t, db, user.ID, "AAPL")
		zzzz := testutil.CreateTestAssetWithSymbol(t, db, user.ID, "ZZZZ")
		day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestPurchase(t, db, aapl.ID, day, "100", "10", "5")
		testutil.CreateTestPurchase(t, db, zzzz.ID, day, "10", "100", "0")

		dashboard, err := svc.GetDashboard(ctx, user.ID)
		testutil.AssertNoError(t, err)

		if dashboard.AssetsNum != 2 {
			t.Fatalf("expected 2 assets, got %d", dashboard.AssetsNum)
		}
		// Assets come back symbol-sorted: AAPL then ZZZZ.
		failed := dashboard.Assets[1]
		if failed.QuoteOK {
			t.Error("expected a zero-quote for the unknown symbol")
		}
		testutil.AssertDecimalEqual(t, "0", failed.TotalValue)
		testutil.AssertDecimalEqual(t, "-1000", failed.TotalProfit)
		if failed.IsGain {
			t.Error("expected a loss with a zero-quote")
		}

		// Totals still include the failed asset's cost basis.
		testutil.AssertDecimalEqual(t, "2005", dashboard.Totals.Invested)
		testutil.AssertDecimalEqual(t, "1200", dashboard.Totals.Value)
	})

	t.Run("dividend_only_asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		quotes := newStubQuotes()
		quotes.set("KO", marketdata.Quote{CurrentPrice: 60, Currency: "USD", Success: true})
		svc := newPortfolioFixture(t, db, quotes, valuation.Options{})

		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAssetWithSymbol(t, db, user.ID, "KO")
		testutil.CreateTestDividend(t, db, asset.ID, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), "25")

		dashboard, err := svc.GetDashboard(ctx, user.ID)
		testutil.AssertNoError(t, err)

		m := dashboard.Assets[0]
		testutil.AssertDecimalEqual(t, "0", m.TotalUnits)
		testutil.AssertDecimalEqual(t, "25", m.TotalDividends)
		testutil.AssertDecimalEqual(t, "25", m.TotalProfit)
		if !m.IsGain {
			t.Error("dividend income alone is a gain")
		}
		// No purchases, so nothing to annualize from.
		if m.ProfitPerMonth != nil || m.ProfitPerYear != nil {
			t.Error("expected nil annualized figures without purchases")
		}
	})

	t.Run("empty_portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newPortfolioFixture(t, db, newStubQuotes(), valuation.Options{})
		user := testutil.CreateTestUser(t, db)

		dashboard, err := svc.GetDashboard(ctx, user.ID)
		testutil.AssertNoError(t, err)

		if dashboard.AssetsNum != 0 || len(dashboard.Assets) != 0 {
			t.Errorf("expected an empty dashboard, got %+v", dashboard)
		}
		testutil.AssertDecimalEqual(t, "0", dashboard.Totals.Profit)
	})
}

func TestGetAssetOverview(t *testing.T) {
	ctx := context.Background()

	t.Run("per_transaction_metrics", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		quotes := newStubQuotes()
		quotes.set("AAPL", marketdata.Quote{
			Name: "Apple Inc.", Exchange: "NASDAQ", Currency: "USD",
			CurrentPrice: 120, Recommendation: "buy", Success: true,
		})
		svc := newPortfolioFixture(t, db, quotes, valuation.Options{})

		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAssetWithSymbol(t, db, user.ID, "AAPL")
		jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
		mar := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestPurchase(t, db, asset.ID, jan, "100", "10", "5")
		testutil.CreateTestDividend(t, db, asset.ID, mar, "12.50")

		overview, err := svc.GetAssetOverview(ctx, user.ID, asset.ID)
		testutil.AssertNoError(t, err)

		if len(overview.Transactions) != 2 {
			t.Fatalf("expected 2 transaction rows, got %d", len(overview.Transactions))
		}

		// Newest date first: the dividend, then the purchase.
		div := overview.Transactions[0]
		testutil.AssertDecimalEqual(t, "12.50", div.Profit)
		if !div.IsGain {
			t.Error("dividends always flag as a gain")
		}

		buy := overview.Transactions[1]
		testutil.AssertDecimalEqual(t, "1005", buy.TotalCost)
		testutil.AssertDecimalEqual(t, "1200", buy.CurrentValue)
		testutil.AssertDecimalEqual(t, "195", buy.Profit)

		if overview.DisplaySymbol != "NASDAQ:AAPL" {
			t.Errorf("expected display symbol NASDAQ:AAPL, got %q", overview.DisplaySymbol)
		}
		if overview.AnalystScore != 2 {
			t.Errorf("expected analyst score 2 for buy, got %d", overview.AnalystScore)
		}
		testutil.AssertDecimalEqual(t, "207.50", overview.Metrics.TotalProfit)
	})

	t.Run("zero_quote_scores_no_opinion", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newPortfolioFixture(t, db, newStubQuotes(), valuation.Options{})

		user := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAssetWithSymbol(t, db, user.ID, "ZZZZ")

		overview, err := svc.GetAssetOverview(ctx, user.ID, asset.ID)
		testutil.AssertNoError(t, err)

		if overview.AnalystScore != valuation.NoOpinionScore {
			t.Errorf("expected no-opinion score, got %d", overview.AnalystScore)
		}
		if overview.Quote.Success {
			t.Error("expected a zero-quote")
		}
	})

	t.Run("foreign_asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newPortfolioFixture(t, db, newStubQuotes(), valuation.Options{})

		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		asset := testutil.CreateTestAsset(t, db, user.ID)

		_, err := svc.GetAssetOverview(ctx, other.ID, asset.ID)
		testutil.AssertAppError(t, err, "ASSET_NOT_FOUND")
	})
}

func TestDashboardPurchaseFeesOnly(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	quotes := newStubQuotes()
	quotes.set("AAPL", marketdata.Quote{CurrentPrice: 100, Currency: "USD", Success: true})

	user := testutil.CreateTestUser(t, db)
	asset := testutil.CreateTestAssetWithSymbol(t, db, user.ID, "AAPL")
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	testutil.CreateTestPurchase(t, db, asset.ID, day, "100", "1", "2")
	div := testutil.CreateTestDividend(t, db, asset.ID, day, "10")
	testutil.AssertNoError(t, db.Model(div).Update("fees", testutil.Dec(t, "0.75")).Error)

	all := newPortfolioFixture(t, db, quotes, valuation.Options{})
	purchasesOnly := newPortfolioFixture(t, db, quotes, valuation.Options{PurchaseFeesOnly: true})

	dashAll, err := all.GetDashboard(ctx, user.ID)
	testutil.AssertNoError(t, err)
	dashPurchases, err := purchasesOnly.GetDashboard(ctx, user.ID)
	testutil.AssertNoError(t, err)

	testutil.AssertDecimalEqual(t, "2.75", dashAll.Assets[0].TotalFees)
	testutil.AssertDecimalEqual(t, "2", dashPurchases.Assets[0].TotalFees)
}
