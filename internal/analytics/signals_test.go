package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/injlabs/marketlens/internal/domain"
)

func newSignalFixture(t *testing.T, book domain.Orderbook, trades []domain.Trade) *SignalGenerator {
	t.Helper()
	provider := newFakeProvider()
	provider.books["mkt-1"] = book
	provider.trades["mkt-1"] = trades
	orderbooks := NewOrderbookAnalyzer(provider, newFakeCache(), testLogger())
	return NewSignalGenerator(provider, orderbooks, testLogger())
}

func tightBook() domain.Orderbook {
	return domain.Orderbook{
		MarketID: "mkt-1",
		Bids:     []domain.OrderLevel{{Price: 100, Quantity: 5}},
		Asks:     []domain.OrderLevel{{Price: 100.2, Quantity: 5}},
	}
}

func TestSignalGeneratorBuy(t *testing.T) {
	// Newest-first: price climbed from 100 to 102 with buy-heavy flow.
	trades := []domain.Trade{
		{Price: 102, Quantity: 3, Side: domain.SideBuy},
		{Price: 100, Quantity: 1, Side: domain.SideSell},
	}
	g := newSignalFixture(t, tightBook(), trades)

	signal, err := g.Generate(context.Background(), "mkt-1", 0)
	require.NoError(t, err)

	assert.Equal(t, "mkt-1", signal.MarketID)
	assert.Equal(t, domain.SignalBuy, signal.Signal)
	assert.Equal(t, []string{"positive momentum", "buy-side dominance", "tight spread"}, signal.Reasons)

	// momentum 0.02, imbalance 0.5.
	assert.InDelta(t, 0.7, signal.Confidence, 1e-12)
	assert.InDelta(t, 102.0, signal.EntryPrice, 1e-12)
	assert.InDelta(t, 102.0*1.02, signal.ExitPrice, 1e-12)
}

func TestSignalGeneratorSell(t *testing.T) {
	trades := []domain.Trade{
		{Price: 98, Quantity: 1, Side: domain.SideSell},
		{Price: 100, Quantity: 3, Side: domain.SideSell},
	}
	g := newSignalFixture(t, tightBook(), trades)

	signal, err := g.Generate(context.Background(), "mkt-1", 0)
	require.NoError(t, err)

	assert.Equal(t, domain.SignalSell, signal.Signal)
	assert.Equal(t, []string{"negative momentum", "sell-side dominance", "tight spread"}, signal.Reasons)
	assert.InDelta(t, 98.0, signal.EntryPrice, 1e-12)
	// momentum -0.02: exit backs off by the full move.
	assert.InDelta(t, 98.0*0.98, signal.ExitPrice, 1e-12)
}

func TestSignalGeneratorHold(t *testing.T) {
	trades := []domain.Trade{
		{Price: 100, Quantity: 2, Side: domain.SideBuy},
		{Price: 100, Quantity: 2, Side: domain.SideSell},
	}
	g := newSignalFixture(t, tightBook(), trades)

	signal, err := g.Generate(context.Background(), "mkt-1", 0)
	require.NoError(t, err)

	assert.Equal(t, domain.SignalHold, signal.Signal)
	assert.Equal(t, []string{"tight spread"}, signal.Reasons)
	// Hold shares the downside exit branch with the minimum move floor.
	assert.InDelta(t, 100.0*0.99, signal.ExitPrice, 1e-12)
}

func TestSignalGeneratorWideSpreadBlocksEntry(t *testing.T) {
	wide := domain.Orderbook{
		MarketID: "mkt-1",
		Bids:     []domain.OrderLevel{{Price: 90, Quantity: 1}},
		Asks:     []domain.OrderLevel{{Price: 110, Quantity: 1}},
	}
	trades := []domain.Trade{
		{Price: 102, Quantity: 3, Side: domain.SideBuy},
		{Price: 100, Quantity: 1, Side: domain.SideSell},
	}
	g := newSignalFixture(t, wide, trades)

	signal, err := g.Generate(context.Background(), "mkt-1", 0)
	require.NoError(t, err)

	// Momentum and imbalance both point up, but the spread is too wide to act.
	assert.Equal(t, domain.SignalHold, signal.Signal)
	assert.Contains(t, signal.Reasons, "positive momentum")
	assert.Contains(t, signal.Reasons, "buy-side dominance")
	assert.Contains(t, signal.Reasons, "wide spread")
	assert.InDelta(t, 100.0, signal.RiskScore, 1e-12)
}

func TestSignalGeneratorNoTradesFallsBackToMid(t *testing.T) {
	g := newSignalFixture(t, tightBook(), nil)

	signal, err := g.Generate(context.Background(), "mkt-1", 0)
	require.NoError(t, err)

	assert.Equal(t, domain.SignalHold, signal.Signal)
	assert.InDelta(t, 100.1, signal.EntryPrice, 1e-12)
	assert.Equal(t, 0.0, signal.Confidence)
}

func TestSignalGeneratorConfidenceClamped(t *testing.T) {
	// Price doubled: momentum 1.0 would push confidence far past 1.
	trades := []domain.Trade{
		{Price: 200, Quantity: 9, Side: domain.SideBuy},
		{Price: 100, Quantity: 1, Side: domain.SideSell},
	}
	g := newSignalFixture(t, tightBook(), trades)

	signal, err := g.Generate(context.Background(), "mkt-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, signal.Confidence)
}

func TestSignalGeneratorProviderError(t *testing.T) {
	provider := newFakeProvider()
	provider.books["mkt-1"] = tightBook()
	provider.tradesErr = domain.ErrDataUnavailable
	orderbooks := NewOrderbookAnalyzer(provider, newFakeCache(), testLogger())
	g := NewSignalGenerator(provider, orderbooks, testLogger())

	_, err := g.Generate(context.Background(), "mkt-1", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}
