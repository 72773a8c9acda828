package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/injlabs/marketlens/internal/domain"
)

// fakeProvider is an in-memory domain.MarketDataProvider for tests.
type fakeProvider struct {
	mu         sync.Mutex
	books      map[string]domain.Orderbook
	trades     map[string][]domain.Trade
	bookErr    error
	tradesErr  error
	bookCalls  int
	tradeCalls int
	lastLimit  int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		books:  make(map[string]domain.Orderbook),
		trades: make(map[string][]domain.Trade),
	}
}

func (p *fakeProvider) FetchOrderbook(ctx context.Context, marketID string) (domain.Orderbook, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bookCalls++
	if p.bookErr != nil {
		return domain.Orderbook{}, p.bookErr
	}
	return p.books[marketID], nil
}

func (p *fakeProvider) FetchTrades(ctx context.Context, marketID string, limit int) ([]domain.Trade, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tradeCalls++
	p.lastLimit = limit
	if p.tradesErr != nil {
		return nil, p.tradesErr
	}
	return p.trades[marketID], nil
}

// fakeCache is an in-memory domain.CacheStore for tests. TTLs are recorded
// but never enforced.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string]string),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.entries[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (c *fakeCache) SetWithExpiry(ctx context.Context, key string, ttl time.Duration, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	delete(c.ttls, key)
	return nil
}
