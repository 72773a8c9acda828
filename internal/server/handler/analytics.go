package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/injlabs/marketlens/internal/domain"
)

// OrderbookService produces cached orderbook analyses.
type OrderbookService interface {
	Analyze(ctx context.Context, marketID string) (domain.OrderbookAnalysis, error)
}

// IntelligenceService produces cross-market intelligence over a batch of
// markets.
type IntelligenceService interface {
	Analyze(ctx context.Context, marketIDs []string, tradeLimit int) (domain.MarketIntelligence, error)
}

// SignalService produces a directional trading signal for one market.
type SignalService interface {
	Generate(ctx context.Context, marketID string, tradeLimit int) (domain.Signal, error)
}

// AnalyticsHandler serves the tier-gated analytics endpoints.
type AnalyticsHandler struct {
	orderbooks   OrderbookService
	intelligence IntelligenceService
	signals      SignalService
	logger       *slog.Logger
}

// NewAnalyticsHandler creates an AnalyticsHandler over the three analytics
// services.
func NewAnalyticsHandler(orderbooks OrderbookService, intelligence IntelligenceService, signals SignalService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		orderbooks:   orderbooks,
		intelligence: intelligence,
		signals:      signals,
		logger:       logger,
	}
}

// AdvancedOrderbook returns the orderbook analysis for one market.
// GET /api/v1/analytics/advanced-orderbook?marketId=...
func (h *AnalyticsHandler) AdvancedOrderbook(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "analytics.orderbook")

	marketID := r.URL.Query().Get("marketId")
	if marketID == "" {
		writeError(w, http.StatusBadRequest, "marketId query parameter required")
		return
	}

	analysis, err := h.orderbooks.Analyze(r.Context(), marketID)
	if err != nil {
		h.writeAnalyticsError(w, r, log, err)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

// MarketIntelligence returns cross-market statistics, anomalies, and
// correlations for a comma-separated batch of markets.
// GET /api/v1/analytics/market-intelligence?marketIds=a,b,c&limit=50
func (h *AnalyticsHandler) MarketIntelligence(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "analytics.intelligence")

	marketIDs := splitMarketIDs(r.URL.Query().Get("marketIds"))
	if len(marketIDs) == 0 {
		writeError(w, http.StatusBadRequest, "marketIds query parameter required")
		return
	}

	result, err := h.intelligence.Analyze(r.Context(), marketIDs, parseTradeLimit(r))
	if err != nil {
		h.writeAnalyticsError(w, r, log, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// PersonalizedSignals returns a trading signal for one market.
// GET /api/v1/analytics/personalized-signals?marketId=...&limit=50
func (h *AnalyticsHandler) PersonalizedSignals(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "analytics.signals")

	marketID := r.URL.Query().Get("marketId")
	if marketID == "" {
		writeError(w, http.StatusBadRequest, "marketId query parameter required")
		return
	}

	signal, err := h.signals.Generate(r.Context(), marketID, parseTradeLimit(r))
	if err != nil {
		h.writeAnalyticsError(w, r, log, err)
		return
	}

	writeJSON(w, http.StatusOK, signal)
}

// writeAnalyticsError maps provider failures to 502 and everything else to
// 500.
func (h *AnalyticsHandler) writeAnalyticsError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.ErrorContext(r.Context(), "analytics request failed",
		slog.String("error", err.Error()),
	)
	if errors.Is(err, domain.ErrDataUnavailable) {
		writeError(w, http.StatusBadGateway, "upstream market data unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// splitMarketIDs parses a comma-separated market list, trimming whitespace
// and dropping empties.
func splitMarketIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
