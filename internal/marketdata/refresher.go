package marketdata

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"stockfolio/internal/logger"
)

// SymbolLister supplies the set of symbols the refresher keeps warm.
type SymbolLister interface {
	ListSymbols(ctx context.Context) ([]string, error)
}

// Refresher periodically re-warms the quote cache for every tracked
// symbol on a cron schedule. A failed fetch logs and leaves the cached
// entry intact; nothing user-visible happens.
type Refresher struct {
	cache   *Cache
	symbols SymbolLister
	cron    *cron.Cron
	timeout time.Duration
}

// NewRefresher creates a cache refresher over the given symbol source.
func NewRefresher(cache *Cache, symbols SymbolLister) *Refresher {
	return &Refresher{
		cache:   cache,
		symbols: symbols,
		timeout: time.Minute,
	}
}

// Start schedules the refresh job. An empty spec disables the refresher.
func (r *Refresher) Start(spec string) error {
	if spec == "" {
		return nil
	}
	r.cron = cron.New()
	if _, err := r.cron.AddFunc(spec, r.refresh); err != nil {
		return err
	}
	r.cron.Start()
	logger.Get().Infow("quote refresher started", "spec", spec)
	return nil
}

// Stop halts the refresh schedule. Safe to call when never started.
func (r *Refresher) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	log := logger.Get()
	symbols, err := r.symbols.ListSymbols(ctx)
	if err != nil {
		log.Errorw("quote refresh: listing symbols", "error", err)
		return
	}

	var failed int
	for _, symbol := range symbols {
		if quote := r.cache.Get(ctx, symbol); !quote.Success {
			failed++
			log.Warnw("quote refresh failed", "symbol", symbol, "error", quote.Error)
		}
	}
	log.Infow("quote refresh completed", "symbols", len(symbols), "failed", failed)
}
