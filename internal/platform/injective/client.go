// Package injective provides REST clients for the Injective exchange
// indexer (market data) and the chain LCD (NFT ownership).
package injective

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/injlabs/marketlens/internal/domain"
)

// IndexerClient is the REST client for the exchange indexer, which serves
// spot orderbook snapshots and trade history.
type IndexerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewIndexerClient creates a new indexer client.
//
// baseURL is the indexer root, e.g. "https://sentry.exchange.injective.network".
func NewIndexerClient(baseURL string) *IndexerClient {
	return &IndexerClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchOrderbook returns the current orderbook snapshot for a market, bids
// and asks ordered best-first.
func (c *IndexerClient) FetchOrderbook(ctx context.Context, marketID string) (domain.Orderbook, error) {
	path := "/api/exchange/spot/v1/orderbook/" + url.PathEscape(marketID)

	body, err := c.doGet(ctx, path)
	if err != nil {
		return domain.Orderbook{}, fmt.Errorf("injective: fetch orderbook %s: %w", marketID, errors.Join(domain.ErrDataUnavailable, err))
	}

	var resp orderbookResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Orderbook{}, fmt.Errorf("injective: decode orderbook %s: %w", marketID, errors.Join(domain.ErrDataUnavailable, err))
	}

	return domain.Orderbook{
		MarketID: marketID,
		Bids:     toDomainLevels(resp.Orderbook.Buys),
		Asks:     toDomainLevels(resp.Orderbook.Sells),
	}, nil
}

// FetchTrades returns up to limit most-recent trades for a market, newest
// first.
func (c *IndexerClient) FetchTrades(ctx context.Context, marketID string, limit int) ([]domain.Trade, error) {
	params := url.Values{}
	params.Set("marketId", marketID)
	params.Set("limit", strconv.Itoa(limit))

	path := "/api/exchange/spot/v1/trades?" + params.Encode()

	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("injective: fetch trades %s: %w", marketID, errors.Join(domain.ErrDataUnavailable, err))
	}

	var resp tradesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("injective: decode trades %s: %w", marketID, errors.Join(domain.ErrDataUnavailable, err))
	}

	trades := resp.Trades
	if limit > 0 && len(trades) > limit {
		trades = trades[:limit]
	}
	return toDomainTrades(trades), nil
}

// doGet performs a GET request against the indexer and returns the response
// body, treating any non-2xx status as an error.
func (c *IndexerClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

// Compile-time interface check.
var _ domain.MarketDataProvider = (*IndexerClient)(nil)
