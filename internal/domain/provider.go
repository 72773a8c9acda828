package domain

import "context"

// MarketDataProvider supplies raw market data for the analytics components.
//
// FetchOrderbook returns the current snapshot with bids ordered best-first
// (highest bid at index 0) and asks ordered best-first (lowest ask at index
// 0). FetchTrades returns at most limit trades ordered newest-first;
// consumers rely on that order to derive first/last prices in a window.
type MarketDataProvider interface {
	FetchOrderbook(ctx context.Context, marketID string) (Orderbook, error)
	FetchTrades(ctx context.Context, marketID string, limit int) ([]Trade, error)
}
