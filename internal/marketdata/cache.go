package marketdata

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long a cached quote stays fresh without a refetch.
const DefaultTTL = 5 * time.Minute

// Cache serves quotes from an in-memory map keyed by normalized symbol,
// fetching through the underlying Source only when an entry is missing
// or older than the TTL. There is no eviction beyond TTL expiry; the map
// is bounded by the number of distinct symbols ever requested.
type Cache struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]Quote
}

// NewCache creates a quote cache over the given source. A non-positive
// ttl falls back to DefaultTTL.
func NewCache(source Source, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		source:  source,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]Quote),
	}
}

// Get returns a quote for the symbol. A fresh cache entry is returned
// without touching the source. On a miss or a stale entry the source is
// fetched: success replaces the entry, failure returns a zero-quote that
// is never written to the cache, so a previously cached valid entry
// survives and the next call retries the source.
func (c *Cache) Get(ctx context.Context, symbol string) Quote {
	symbol = NormalizeSymbol(symbol)

	c.mu.RLock()
	entry, ok := c.entries[symbol]
	c.mu.RUnlock()

	now := c.now()
	if ok && now.Sub(entry.FetchedAt) < c.ttl {
		return entry
	}

	quote, err := c.source.Fetch(ctx, symbol)
	if err != nil {
		return ZeroQuote(symbol, err)
	}

	quote.Symbol = symbol
	quote.FetchedAt = now

	c.mu.Lock()
	c.entries[symbol] = quote
	c.mu.Unlock()

	return quote
}

// Resolution holds the metadata a successful symbol lookup supplies for
// asset creation.
type Resolution struct {
	Name     string
	Exchange string
}

// Resolve validates a symbol through the cache and returns its name and
// exchange. Resolution is absent when the fetch fails or the symbol has
// no usable price; callers fall back to the bare symbol and the "N/A"
// exchange sentinel.
func (c *Cache) Resolve(ctx context.Context, symbol string) (Resolution, bool) {
	quote := c.Get(ctx, symbol)
	if !quote.Success || quote.CurrentPrice <= 0 {
		return Resolution{}, false
	}
	return Resolution{Name: quote.Name, Exchange: quote.Exchange}, true
}
