package injective

import (
	"strings"

	"github.com/injlabs/marketlens/internal/domain"
)

// Wire types for the indexer REST API. Prices and quantities arrive as
// decimal strings and are parsed exactly once, here, into typed domain
// records.

// APIPriceLevel is one orderbook level as returned by the indexer.
type APIPriceLevel struct {
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// APIOrderbook holds both sides of a spot orderbook snapshot. Buys are
// ordered highest-price first, sells lowest-price first.
type APIOrderbook struct {
	Buys  []APIPriceLevel `json:"buys"`
	Sells []APIPriceLevel `json:"sells"`
}

type orderbookResponse struct {
	Orderbook APIOrderbook `json:"orderbook"`
}

// APITrade is one executed spot trade as returned by the indexer, newest
// first.
type APITrade struct {
	Price         string `json:"price"`
	Quantity      string `json:"quantity"`
	ExecutionSide string `json:"executionSide"`
	ExecutedAt    int64  `json:"executedAt"`
}

type tradesResponse struct {
	Trades []APITrade `json:"trades"`
}

type ownerResponse struct {
	Owner string `json:"owner"`
}

func toDomainLevels(levels []APIPriceLevel) []domain.OrderLevel {
	out := make([]domain.OrderLevel, 0, len(levels))
	for _, l := range levels {
		out = append(out, domain.OrderLevel{
			Price:    domain.ParseDecimal(l.Price),
			Quantity: domain.ParseDecimal(l.Quantity),
		})
	}
	return out
}

func toDomainTrades(trades []APITrade) []domain.Trade {
	out := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		out = append(out, domain.Trade{
			Price:    domain.ParseDecimal(t.Price),
			Quantity: domain.ParseDecimal(t.Quantity),
			Side:     strings.ToLower(t.ExecutionSide),
		})
	}
	return out
}
