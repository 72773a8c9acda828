package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/injlabs/marketlens/internal/domain"
)

const (
	momentumThreshold  = 0.005
	imbalanceThreshold = 0.1
	tightSpreadPct     = 0.3
	wideSpreadPct      = 1.0
	actionableSpread   = 0.5
	minExitMove        = 0.01
)

// SignalGenerator composes the orderbook analysis and recent trade flow of
// one market into a directional trading signal.
type SignalGenerator struct {
	provider   domain.MarketDataProvider
	orderbooks *OrderbookAnalyzer
	logger     *slog.Logger
}

// NewSignalGenerator creates a SignalGenerator on top of the given provider
// and orderbook analyzer.
func NewSignalGenerator(provider domain.MarketDataProvider, orderbooks *OrderbookAnalyzer, logger *slog.Logger) *SignalGenerator {
	return &SignalGenerator{
		provider:   provider,
		orderbooks: orderbooks,
		logger:     logger.With(slog.String("component", "signal_generator")),
	}
}

// Generate fetches the market's orderbook analysis and up to tradeLimit
// recent trades concurrently (limit defaults to 50, capped at 200) and
// classifies a buy/sell/hold signal with confidence and risk scores.
func (g *SignalGenerator) Generate(ctx context.Context, marketID string, tradeLimit int) (domain.Signal, error) {
	limit := clampTradeLimit(tradeLimit)

	var (
		analysis domain.OrderbookAnalysis
		trades   []domain.Trade
	)

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		analysis, err = g.orderbooks.Analyze(egctx, marketID)
		return err
	})
	eg.Go(func() error {
		var err error
		trades, err = g.provider.FetchTrades(egctx, marketID, limit)
		if err != nil {
			return fmt.Errorf("analytics: trades %s: %w", marketID, err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return domain.Signal{}, err
	}

	// Momentum across the fetched window: trades are newest-first, so the
	// last element is the oldest price.
	momentum := 0.0
	lastPrice := 0.0
	if len(trades) > 0 {
		lastPrice = trades[0].Price
		firstPrice := trades[len(trades)-1].Price
		if firstPrice > 0 {
			momentum = (lastPrice - firstPrice) / firstPrice
		}
	}

	window := summarizeTrades(marketID, trades)
	imbalance := window.stat.BuySellImbalance

	spreadPct := analysis.SpreadAnalysis.SpreadPercentage

	reasons := make([]string, 0, 6)
	if momentum > momentumThreshold {
		reasons = append(reasons, "positive momentum")
	}
	if momentum < -momentumThreshold {
		reasons = append(reasons, "negative momentum")
	}
	if imbalance > imbalanceThreshold {
		reasons = append(reasons, "buy-side dominance")
	}
	if imbalance < -imbalanceThreshold {
		reasons = append(reasons, "sell-side dominance")
	}
	if spreadPct < tightSpreadPct {
		reasons = append(reasons, "tight spread")
	}
	if spreadPct > wideSpreadPct {
		reasons = append(reasons, "wide spread")
	}

	direction := domain.SignalHold
	if momentum > momentumThreshold && imbalance > imbalanceThreshold && spreadPct < actionableSpread {
		direction = domain.SignalBuy
	}
	if momentum < -momentumThreshold && imbalance < -imbalanceThreshold && spreadPct < actionableSpread {
		direction = domain.SignalSell
	}

	confidence := clamp01(math.Abs(momentum)*10 + math.Abs(imbalance))
	riskScore := clamp01(spreadPct/2+analysis.LiquidityConcentration) * 100

	entryPrice := lastPrice
	if entryPrice == 0 {
		entryPrice = analysis.SpreadAnalysis.MidPrice
	}

	// Sell and hold share the downside exit branch on purpose; the hold
	// exit is a stop level, not a target.
	var exitPrice float64
	if direction == domain.SignalBuy {
		exitPrice = entryPrice * (1 + math.Max(momentum, minExitMove))
	} else {
		exitPrice = entryPrice * (1 - math.Max(-momentum, minExitMove))
	}

	g.logger.DebugContext(ctx, "signal generated",
		slog.String("market_id", marketID),
		slog.String("signal", direction),
		slog.Float64("momentum", momentum),
		slog.Float64("imbalance", imbalance),
		slog.Float64("spread_pct", spreadPct),
	)

	return domain.Signal{
		MarketID:   marketID,
		Signal:     direction,
		Confidence: confidence,
		RiskScore:  riskScore,
		EntryPrice: entryPrice,
		ExitPrice:  exitPrice,
		Reasons:    reasons,
	}, nil
}
