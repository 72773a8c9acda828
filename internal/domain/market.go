package domain

import (
	"math"
	"strconv"
	"strings"
)

// Trade side values as normalized at the ingestion boundary. Any execution
// side other than buy or sell is kept verbatim and counted toward neither.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Trade is one executed transaction. Price and Quantity are parsed from the
// provider's decimal strings exactly once, at ingestion; malformed values
// come through as 0.
type Trade struct {
	Price    float64
	Quantity float64
	Side     string
}

// OrderLevel is a single price+quantity entry in an orderbook side.
type OrderLevel struct {
	Price    float64
	Quantity float64
}

// Orderbook is a point-in-time snapshot of one market's resting orders.
// Bids are ordered best (highest) first, asks best (lowest) first; the
// ordering is part of the provider contract, not an accident of transport.
type Orderbook struct {
	MarketID string
	Bids     []OrderLevel
	Asks     []OrderLevel
}

// ParseDecimal converts a provider decimal string to a float64. Malformed
// input, NaN, and infinities all normalize to 0 so no downstream aggregate
// can be poisoned.
func ParseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
