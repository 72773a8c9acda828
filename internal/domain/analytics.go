package domain

// MarketStat is the per-market trade summary computed fresh from one trade
// batch. It is never persisted beyond the call that produced it.
type MarketStat struct {
	MarketID         string  `json:"marketId"`
	TradeCount       int     `json:"tradeCount"`
	TotalVolume      float64 `json:"totalVolume"`
	TotalNotional    float64 `json:"totalNotional"`
	AvgTradeSize     float64 `json:"avgTradeSize"`
	BuySellImbalance float64 `json:"buySellImbalance"`
	LastPrice        float64 `json:"lastPrice"`
}

// WhaleOrder is a resting order whose quantity met the volume-relative
// whale threshold.
type WhaleOrder struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	Side     string  `json:"side"`
	IsWhale  bool    `json:"isWhale"`
}

// SpreadAnalysis holds best-bid/ask spread metrics.
type SpreadAnalysis struct {
	BidAskSpread     float64 `json:"bidAskSpread"`
	SpreadPercentage float64 `json:"spreadPercentage"`
	MidPrice         float64 `json:"midPrice"`
}

// DepthMetrics holds top-of-book depth ratios and per-side volume totals.
type DepthMetrics struct {
	Bid1Percent    float64 `json:"bid1Percent"`
	Ask1Percent    float64 `json:"ask1Percent"`
	TotalBidVolume float64 `json:"totalBidVolume"`
	TotalAskVolume float64 `json:"totalAskVolume"`
}

// OrderbookAnalysis is the cached result of analyzing one market's orderbook
// snapshot.
type OrderbookAnalysis struct {
	MarketID               string         `json:"marketId"`
	LiquidityConcentration float64        `json:"liquidityConcentration"`
	WhaleOrders            []WhaleOrder   `json:"whaleOrders"`
	SpreadAnalysis         SpreadAnalysis `json:"spreadAnalysis"`
	DepthMetrics           DepthMetrics   `json:"depthMetrics"`
}

// VolumeAnomaly flags a market whose batch volume sits at least two standard
// deviations from the batch mean.
type VolumeAnomaly struct {
	MarketID    string  `json:"marketId"`
	ZScore      float64 `json:"zScore"`
	TotalVolume float64 `json:"totalVolume"`
}

// UnusualActivity flags a market with heavily skewed buy/sell flow. The
// notional is a heuristic ceiling (5x average trade size), not an observed
// value.
type UnusualActivity struct {
	MarketID         string  `json:"marketId"`
	MaxTradeNotional float64 `json:"maxTradeNotional"`
	BuySellImbalance float64 `json:"buySellImbalance"`
}

// MarketIntelligence is the cross-market analysis result. Markets preserves
// the caller's input order; CorrelationMetrics is keyed "{idA}:{idB}" in
// input order of the pair.
type MarketIntelligence struct {
	Markets            []MarketStat       `json:"markets"`
	VolumeAnomalies    []VolumeAnomaly    `json:"volumeAnomalies"`
	CorrelationMetrics map[string]float64 `json:"correlationMetrics"`
	UnusualActivity    []UnusualActivity  `json:"unusualActivity"`
}

// Signal directions.
const (
	SignalBuy  = "buy"
	SignalSell = "sell"
	SignalHold = "hold"
)

// Signal is a directional trading signal for a single market. It has no
// identity beyond the call that produced it.
type Signal struct {
	MarketID   string   `json:"marketId"`
	Signal     string   `json:"signal"`
	Confidence float64  `json:"confidence"`
	RiskScore  float64  `json:"riskScore"`
	EntryPrice float64  `json:"entryPrice"`
	ExitPrice  float64  `json:"exitPrice"`
	Reasons    []string `json:"reasons"`
}
