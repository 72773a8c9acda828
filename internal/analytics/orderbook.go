package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/injlabs/marketlens/internal/domain"
)

const (
	// analysisCacheTTL bounds staleness of a cached orderbook analysis.
	// Up to 30s of staleness is accepted in exchange for reduced indexer
	// load; concurrent misses may both fetch and both write, which is an
	// idempotent overwrite.
	analysisCacheTTL = 30 * time.Second

	// whaleVolumeShare is the fraction of the larger side's volume an
	// order must reach to be tagged a whale.
	whaleVolumeShare = 0.05

	// concentrationLevels is how many top levels per side feed the
	// liquidity concentration ratio.
	concentrationLevels = 10
)

func analysisCacheKey(marketID string) string {
	return "orderbook:analysis:" + marketID
}

// OrderbookAnalyzer computes depth, spread, concentration, and whale-order
// metrics for one market's orderbook snapshot, with read-through caching.
type OrderbookAnalyzer struct {
	provider domain.MarketDataProvider
	cache    domain.CacheStore
	logger   *slog.Logger
}

// NewOrderbookAnalyzer creates an OrderbookAnalyzer on top of the given
// provider and cache store.
func NewOrderbookAnalyzer(provider domain.MarketDataProvider, cache domain.CacheStore, logger *slog.Logger) *OrderbookAnalyzer {
	return &OrderbookAnalyzer{
		provider: provider,
		cache:    cache,
		logger:   logger.With(slog.String("component", "orderbook_analyzer")),
	}
}

// Analyze returns the orderbook analysis for a market. A cached, unexpired
// analysis is returned verbatim without touching the provider; otherwise one
// snapshot is fetched, analyzed, and cached for 30 seconds.
func (a *OrderbookAnalyzer) Analyze(ctx context.Context, marketID string) (domain.OrderbookAnalysis, error) {
	key := analysisCacheKey(marketID)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var analysis domain.OrderbookAnalysis
		if err := json.Unmarshal([]byte(cached), &analysis); err == nil {
			return analysis, nil
		}
		// Corrupt entry: fall through and recompute; the write below
		// overwrites it.
		a.logger.WarnContext(ctx, "discarding undecodable cached analysis",
			slog.String("market_id", marketID),
		)
	}

	book, err := a.provider.FetchOrderbook(ctx, marketID)
	if err != nil {
		return domain.OrderbookAnalysis{}, fmt.Errorf("analytics: orderbook %s: %w", marketID, err)
	}

	analysis := buildOrderbookAnalysis(marketID, book)

	if data, err := json.Marshal(analysis); err == nil {
		if err := a.cache.SetWithExpiry(ctx, key, analysisCacheTTL, string(data)); err != nil {
			a.logger.WarnContext(ctx, "analysis cache write failed",
				slog.String("market_id", marketID),
				slog.String("error", err.Error()),
			)
		}
	}

	return analysis, nil
}

// buildOrderbookAnalysis computes every metric from a single snapshot.
func buildOrderbookAnalysis(marketID string, book domain.Orderbook) domain.OrderbookAnalysis {
	var totalBidVolume, totalAskVolume float64
	for _, l := range book.Bids {
		totalBidVolume += l.Quantity
	}
	for _, l := range book.Asks {
		totalAskVolume += l.Quantity
	}

	// Whale detection: quantity at or above 5% of the larger side.
	whaleThreshold := whaleVolumeShare * math.Max(totalBidVolume, totalAskVolume)
	whales := make([]domain.WhaleOrder, 0)
	if whaleThreshold > 0 {
		for _, l := range book.Bids {
			if l.Quantity >= whaleThreshold {
				whales = append(whales, domain.WhaleOrder{
					Price:    l.Price,
					Quantity: l.Quantity,
					Side:     domain.SideBuy,
					IsWhale:  true,
				})
			}
		}
		for _, l := range book.Asks {
			if l.Quantity >= whaleThreshold {
				whales = append(whales, domain.WhaleOrder{
					Price:    l.Price,
					Quantity: l.Quantity,
					Side:     domain.SideSell,
					IsWhale:  true,
				})
			}
		}
	}

	var bestBidPrice, bestBidQty, bestAskPrice, bestAskQty float64
	if len(book.Bids) > 0 {
		bestBidPrice = book.Bids[0].Price
		bestBidQty = book.Bids[0].Quantity
	}
	if len(book.Asks) > 0 {
		bestAskPrice = book.Asks[0].Price
		bestAskQty = book.Asks[0].Quantity
	}

	midPrice := (bestBidPrice + bestAskPrice) / 2
	spread := bestAskPrice - bestBidPrice
	spreadPercentage := 0.0
	if midPrice > 0 {
		spreadPercentage = spread / midPrice * 100
	}

	// Concentration ratio of the top 10 levels per side. This is a plain
	// volume ratio, not a squared-share Herfindahl index; downstream
	// thresholds assume the ratio.
	topVolume := topLevelsVolume(book.Bids, concentrationLevels) + topLevelsVolume(book.Asks, concentrationLevels)
	concentration := 0.0
	if total := totalBidVolume + totalAskVolume; total > 0 {
		concentration = topVolume / total
	}

	bid1Percent := 0.0
	if totalBidVolume > 0 {
		bid1Percent = bestBidQty / totalBidVolume
	}
	ask1Percent := 0.0
	if totalAskVolume > 0 {
		ask1Percent = bestAskQty / totalAskVolume
	}

	return domain.OrderbookAnalysis{
		MarketID:               marketID,
		LiquidityConcentration: concentration,
		WhaleOrders:            whales,
		SpreadAnalysis: domain.SpreadAnalysis{
			BidAskSpread:     spread,
			SpreadPercentage: spreadPercentage,
			MidPrice:         midPrice,
		},
		DepthMetrics: domain.DepthMetrics{
			Bid1Percent:    bid1Percent,
			Ask1Percent:    ask1Percent,
			TotalBidVolume: totalBidVolume,
			TotalAskVolume: totalAskVolume,
		},
	}
}

func topLevelsVolume(levels []domain.OrderLevel, n int) float64 {
	if len(levels) < n {
		n = len(levels)
	}
	var sum float64
	for _, l := range levels[:n] {
		sum += l.Quantity
	}
	return sum
}
