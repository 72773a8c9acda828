package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/injlabs/marketlens/internal/domain"
)

func TestSummarizeTrades(t *testing.T) {
	trades := []domain.Trade{
		{Price: 10, Quantity: 2, Side: domain.SideBuy},
		{Price: 9, Quantity: 1, Side: domain.SideSell},
	}

	w := summarizeTrades("mkt-1", trades)

	assert.Equal(t, "mkt-1", w.stat.MarketID)
	assert.Equal(t, 2, w.stat.TradeCount)
	assert.InDelta(t, 3.0, w.stat.TotalVolume, 1e-12)
	assert.InDelta(t, 29.0, w.stat.TotalNotional, 1e-12)
	assert.InDelta(t, 1.5, w.stat.AvgTradeSize, 1e-12)
	assert.InDelta(t, 1.0/3.0, w.stat.BuySellImbalance, 1e-12)
	// Trades are newest-first, so the last price is the first element.
	assert.InDelta(t, 10.0, w.stat.LastPrice, 1e-12)
	assert.Equal(t, []float64{10, 9}, w.prices)
}

func TestSummarizeTradesEmpty(t *testing.T) {
	w := summarizeTrades("mkt-1", nil)

	assert.Equal(t, 0, w.stat.TradeCount)
	assert.Equal(t, 0.0, w.stat.TotalVolume)
	assert.Equal(t, 0.0, w.stat.AvgTradeSize)
	assert.Equal(t, 0.0, w.stat.BuySellImbalance)
	assert.Equal(t, 0.0, w.stat.LastPrice)
}

func TestSummarizeTradesMixedCaseSides(t *testing.T) {
	trades := []domain.Trade{
		{Price: 10, Quantity: 4, Side: "Buy"},
		{Price: 10, Quantity: 1, Side: "SELL"},
	}

	w := summarizeTrades("mkt-1", trades)
	assert.InDelta(t, 3.0/5.0, w.stat.BuySellImbalance, 1e-12)
}

func TestIntelligenceAnalyzerMarketsPreserveOrder(t *testing.T) {
	provider := newFakeProvider()
	provider.trades["mkt-a"] = []domain.Trade{{Price: 10, Quantity: 1, Side: domain.SideBuy}}
	provider.trades["mkt-b"] = []domain.Trade{{Price: 20, Quantity: 2, Side: domain.SideSell}}

	a := NewIntelligenceAnalyzer(provider, testLogger())

	result, err := a.Analyze(context.Background(), []string{"mkt-a", "mkt-b"}, 0)
	require.NoError(t, err)

	require.Len(t, result.Markets, 2)
	assert.Equal(t, "mkt-a", result.Markets[0].MarketID)
	assert.Equal(t, "mkt-b", result.Markets[1].MarketID)
	assert.Equal(t, 50, provider.lastLimit)

	assert.NotNil(t, result.VolumeAnomalies)
	assert.NotNil(t, result.CorrelationMetrics)
	assert.NotNil(t, result.UnusualActivity)
}

func TestIntelligenceAnalyzerVolumeAnomalies(t *testing.T) {
	provider := newFakeProvider()
	// Nine quiet markets and one outlier pushes |z| past 2.
	ids := make([]string, 0, 10)
	for _, id := range []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8", "m9"} {
		provider.trades[id] = []domain.Trade{{Price: 10, Quantity: 1, Side: domain.SideBuy}}
		ids = append(ids, id)
	}
	provider.trades["loud"] = []domain.Trade{{Price: 10, Quantity: 100, Side: domain.SideBuy}}
	ids = append(ids, "loud")

	a := NewIntelligenceAnalyzer(provider, testLogger())

	result, err := a.Analyze(context.Background(), ids, 0)
	require.NoError(t, err)

	require.Len(t, result.VolumeAnomalies, 1)
	assert.Equal(t, "loud", result.VolumeAnomalies[0].MarketID)
	assert.Greater(t, result.VolumeAnomalies[0].ZScore, 2.0)
	assert.InDelta(t, 100.0, result.VolumeAnomalies[0].TotalVolume, 1e-12)
}

func TestIntelligenceAnalyzerIdenticalVolumesNoAnomalies(t *testing.T) {
	provider := newFakeProvider()
	provider.trades["mkt-a"] = []domain.Trade{{Price: 10, Quantity: 5, Side: domain.SideBuy}}
	provider.trades["mkt-b"] = []domain.Trade{{Price: 20, Quantity: 5, Side: domain.SideBuy}}

	a := NewIntelligenceAnalyzer(provider, testLogger())

	result, err := a.Analyze(context.Background(), []string{"mkt-a", "mkt-b"}, 0)
	require.NoError(t, err)
	assert.Empty(t, result.VolumeAnomalies)
}

func TestIntelligenceAnalyzerUnusualActivity(t *testing.T) {
	provider := newFakeProvider()
	// All buys: imbalance 1.0, well past the 0.35 threshold.
	provider.trades["mkt-a"] = []domain.Trade{
		{Price: 10, Quantity: 2, Side: domain.SideBuy},
		{Price: 11, Quantity: 4, Side: domain.SideBuy},
	}
	// Balanced market stays unflagged.
	provider.trades["mkt-b"] = []domain.Trade{
		{Price: 10, Quantity: 3, Side: domain.SideBuy},
		{Price: 10, Quantity: 3, Side: domain.SideSell},
	}

	a := NewIntelligenceAnalyzer(provider, testLogger())

	result, err := a.Analyze(context.Background(), []string{"mkt-a", "mkt-b"}, 0)
	require.NoError(t, err)

	require.Len(t, result.UnusualActivity, 1)
	got := result.UnusualActivity[0]
	assert.Equal(t, "mkt-a", got.MarketID)
	assert.InDelta(t, 1.0, got.BuySellImbalance, 1e-12)
	// Heuristic ceiling: average trade size times five.
	assert.InDelta(t, 3.0*5, got.MaxTradeNotional, 1e-12)
}

func TestIntelligenceAnalyzerCorrelation(t *testing.T) {
	provider := newFakeProvider()
	mk := func(prices ...float64) []domain.Trade {
		trades := make([]domain.Trade, 0, len(prices))
		for _, p := range prices {
			trades = append(trades, domain.Trade{Price: p, Quantity: 1, Side: domain.SideBuy})
		}
		return trades
	}
	provider.trades["mkt-a"] = mk(1, 2, 3, 4, 5)
	provider.trades["mkt-b"] = mk(2, 4, 6, 8, 10)
	// Too short to correlate.
	provider.trades["mkt-c"] = mk(1, 2)

	a := NewIntelligenceAnalyzer(provider, testLogger())

	result, err := a.Analyze(context.Background(), []string{"mkt-a", "mkt-b", "mkt-c"}, 0)
	require.NoError(t, err)

	require.Contains(t, result.CorrelationMetrics, "mkt-a:mkt-b")
	assert.InDelta(t, 1.0, result.CorrelationMetrics["mkt-a:mkt-b"], 1e-12)

	// Pairs with fewer than five common points are skipped entirely.
	assert.NotContains(t, result.CorrelationMetrics, "mkt-a:mkt-c")
	assert.NotContains(t, result.CorrelationMetrics, "mkt-b:mkt-c")
	assert.Len(t, result.CorrelationMetrics, 1)
}

func TestIntelligenceAnalyzerProviderErrorFailsRequest(t *testing.T) {
	provider := newFakeProvider()
	provider.tradesErr = domain.ErrDataUnavailable

	a := NewIntelligenceAnalyzer(provider, testLogger())

	_, err := a.Analyze(context.Background(), []string{"mkt-a", "mkt-b"}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestIntelligenceAnalyzerEmptyInput(t *testing.T) {
	a := NewIntelligenceAnalyzer(newFakeProvider(), testLogger())

	result, err := a.Analyze(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, result.Markets)
	assert.Empty(t, result.VolumeAnomalies)
	assert.Empty(t, result.CorrelationMetrics)
	assert.Empty(t, result.UnusualActivity)
}
