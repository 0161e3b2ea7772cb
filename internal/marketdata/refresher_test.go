package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeLister struct {
	symbols []string
	err     error
}

func (f *fakeLister) ListSymbols(ctx context.Context) ([]string, error) {
	return f.symbols, f.err
}

func TestRefresher(t *testing.T) {
	t.Run("refresh_warms_every_symbol", func(t *testing.T) {
		source := &fakeSource{quotes: map[string]Quote{
			"AAPL": {CurrentPrice: 150, Success: true},
			"MSFT": {CurrentPrice: 300, Success: true},
		}}
		cache, _ := newTestCache(source, time.Minute)
		r := NewRefresher(cache, &fakeLister{symbols: []string{"AAPL", "MSFT"}})

		r.refresh()

		if source.fetches != 2 {
			t.Errorf("expected 2 fetches, got %d", source.fetches)
		}

		// Both entries should now be served from the cache.
		cache.Get(context.Background(), "AAPL")
		cache.Get(context.Background(), "MSFT")
		if source.fetches != 2 {
			t.Errorf("expected warm cache hits, got %d fetches", source.fetches)
		}
	})

	t.Run("listing_error_is_swallowed", func(t *testing.T) {
		source := &fakeSource{}
		cache, _ := newTestCache(source, time.Minute)
		r := NewRefresher(cache, &fakeLister{err: errors.New("db down")})

		r.refresh()

		if source.fetches != 0 {
			t.Errorf("expected no fetches when listing fails, got %d", source.fetches)
		}
	})

	t.Run("empty_spec_disables_schedule", func(t *testing.T) {
		cache, _ := newTestCache(&fakeSource{}, time.Minute)
		r := NewRefresher(cache, &fakeLister{})

		if err := r.Start(""); err != nil {
			t.Fatalf("empty spec should not error: %v", err)
		}
		if r.cron != nil {
			t.Error("empty spec should leave the scheduler unset")
		}
		r.Stop()
	})

	t.Run("invalid_spec_errors", func(t *testing.T) {
		cache, _ := newTestCache(&fakeSource{}, time.Minute)
		r := NewRefresher(cache, &fakeLister{})

		if err := r.Start("not a cron spec"); err == nil {
			t.Fatal("expected an error for an invalid cron spec")
		}
	})

	t.Run("valid_spec_starts_and_stops", func(t *testing.T) {
		cache, _ := newTestCache(&fakeSource{}, time.Minute)
		r := NewRefresher(cache, &fakeLister{})

		if err := r.Start("@every 1h"); err != nil {
			t.Fatalf("unexpected start error: %v", err)
		}
		r.Stop()
	})
}
