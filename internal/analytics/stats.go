// Package analytics turns raw trade and orderbook snapshots into derived
// market-microstructure statistics and trading signals.
package analytics

import "math"

// Trade window limits shared by the analyzers.
const (
	defaultTradeLimit = 50
	maxTradeLimit     = 200
)

// clampTradeLimit applies the shared window contract: default 50, capped at
// 200.
func clampTradeLimit(limit int) int {
	if limit <= 0 {
		return defaultTradeLimit
	}
	if limit > maxTradeLimit {
		return maxTradeLimit
	}
	return limit
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev is the population standard deviation (divide by N, not N-1).
func stdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// pearson computes the population Pearson correlation coefficient over the
// common prefix of a and b. It returns 0 when either series has zero
// variance or the common length is 0.
func pearson(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	meanA := mean(a[:n])
	meanB := mean(b[:n])

	var num, denomA, denomB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		num += da * db
		denomA += da * da
		denomB += db * db
	}

	denom := math.Sqrt(denomA) * math.Sqrt(denomB)
	if denom == 0 {
		return 0
	}
	return num / denom
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
