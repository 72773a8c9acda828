package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/injlabs/marketlens/internal/domain"
)

const (
	// anomalyZScore is the |z| threshold for flagging a volume anomaly.
	anomalyZScore = 2.0

	// unusualImbalance is the |imbalance| threshold for flagging unusual
	// activity.
	unusualImbalance = 0.35

	// notionalCeilingMultiple scales average trade size into the reported
	// heuristic notional ceiling.
	notionalCeilingMultiple = 5

	// minCorrelationPoints is the minimum aligned series length for a
	// correlation pair to be reported.
	minCorrelationPoints = 5
)

// IntelligenceAnalyzer computes cross-market trade statistics, volume
// anomalies, pairwise price correlation, and unusual-activity flags.
type IntelligenceAnalyzer struct {
	provider domain.MarketDataProvider
	logger   *slog.Logger
}

// NewIntelligenceAnalyzer creates an IntelligenceAnalyzer on top of the
// given provider.
func NewIntelligenceAnalyzer(provider domain.MarketDataProvider, logger *slog.Logger) *IntelligenceAnalyzer {
	return &IntelligenceAnalyzer{
		provider: provider,
		logger:   logger.With(slog.String("component", "intelligence_analyzer")),
	}
}

// marketWindow is one market's stat plus its retained price series
// (newest-first), kept together so the correlation pass cannot drift out of
// sync with the stats.
type marketWindow struct {
	stat   domain.MarketStat
	prices []float64
}

// Analyze fetches up to tradeLimit recent trades per market (limit defaults
// to 50, capped at 200) and derives the full intelligence result. Markets in
// the output match the input order. Fetches fan out concurrently and fail
// fast: any single market's provider failure fails the whole request.
func (a *IntelligenceAnalyzer) Analyze(ctx context.Context, marketIDs []string, tradeLimit int) (domain.MarketIntelligence, error) {
	limit := clampTradeLimit(tradeLimit)

	windows := make([]marketWindow, len(marketIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, marketID := range marketIDs {
		g.Go(func() error {
			trades, err := a.provider.FetchTrades(gctx, marketID, limit)
			if err != nil {
				return fmt.Errorf("analytics: trades %s: %w", marketID, err)
			}
			windows[i] = summarizeTrades(marketID, trades)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.MarketIntelligence{}, err
	}

	result := domain.MarketIntelligence{
		Markets:            make([]domain.MarketStat, 0, len(windows)),
		VolumeAnomalies:    make([]domain.VolumeAnomaly, 0),
		CorrelationMetrics: make(map[string]float64),
		UnusualActivity:    make([]domain.UnusualActivity, 0),
	}

	volumes := make([]float64, 0, len(windows))
	for _, w := range windows {
		result.Markets = append(result.Markets, w.stat)
		volumes = append(volumes, w.stat.TotalVolume)
	}

	// Volume anomalies: population z-score across the batch. Identical
	// volumes give stdDev 0 and therefore no flags.
	volMean := mean(volumes)
	volStdDev := stdDev(volumes)
	for _, w := range windows {
		z := 0.0
		if volStdDev > 0 {
			z = (w.stat.TotalVolume - volMean) / volStdDev
		}
		if math.Abs(z) >= anomalyZScore {
			result.VolumeAnomalies = append(result.VolumeAnomalies, domain.VolumeAnomaly{
				MarketID:    w.stat.MarketID,
				ZScore:      z,
				TotalVolume: w.stat.TotalVolume,
			})
		}
	}

	for _, w := range windows {
		if math.Abs(w.stat.BuySellImbalance) >= unusualImbalance {
			result.UnusualActivity = append(result.UnusualActivity, domain.UnusualActivity{
				MarketID:         w.stat.MarketID,
				MaxTradeNotional: w.stat.AvgTradeSize * notionalCeilingMultiple,
				BuySellImbalance: w.stat.BuySellImbalance,
			})
		}
	}

	// Pairwise correlation over newest-first aligned truncations; pairs
	// with fewer than 5 common points are skipped. Keys preserve the
	// input order of the pair.
	for i := 0; i < len(windows); i++ {
		for j := i + 1; j < len(windows); j++ {
			seriesA := windows[i].prices
			seriesB := windows[j].prices
			n := len(seriesA)
			if len(seriesB) < n {
				n = len(seriesB)
			}
			if n < minCorrelationPoints {
				continue
			}
			key := windows[i].stat.MarketID + ":" + windows[j].stat.MarketID
			result.CorrelationMetrics[key] = pearson(seriesA[:n], seriesB[:n])
		}
	}

	return result, nil
}

// summarizeTrades derives one market's stat and price series from a trade
// batch (newest-first). Every denominator is guarded; an empty batch yields
// all zeros.
func summarizeTrades(marketID string, trades []domain.Trade) marketWindow {
	var totalVolume, totalNotional, buyVolume, sellVolume float64
	prices := make([]float64, 0, len(trades))

	for _, t := range trades {
		totalVolume += t.Quantity
		totalNotional += t.Price * t.Quantity
		prices = append(prices, t.Price)

		switch strings.ToLower(t.Side) {
		case domain.SideBuy:
			buyVolume += t.Quantity
		case domain.SideSell:
			sellVolume += t.Quantity
		}
	}

	avgTradeSize := 0.0
	if len(trades) > 0 {
		avgTradeSize = totalVolume / float64(len(trades))
	}

	imbalance := 0.0
	if totalVolume > 0 {
		imbalance = (buyVolume - sellVolume) / totalVolume
	}

	lastPrice := 0.0
	if len(trades) > 0 {
		lastPrice = trades[0].Price
	}

	return marketWindow{
		stat: domain.MarketStat{
			MarketID:         marketID,
			TradeCount:       len(trades),
			TotalVolume:      totalVolume,
			TotalNotional:    totalNotional,
			AvgTradeSize:     avgTradeSize,
			BuySellImbalance: imbalance,
			LastPrice:        lastPrice,
		},
		prices: prices,
	}
}
