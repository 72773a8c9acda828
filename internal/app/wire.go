package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/injlabs/marketlens/internal/analytics"
	"github.com/injlabs/marketlens/internal/cache/redis"
	"github.com/injlabs/marketlens/internal/config"
	"github.com/injlabs/marketlens/internal/domain"
	"github.com/injlabs/marketlens/internal/identity"
	"github.com/injlabs/marketlens/internal/platform/injective"
)

// Dependencies bundles every domain-level dependency the server needs. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Cache       domain.CacheStore
	RateLimiter domain.RateLimiter

	Provider domain.MarketDataProvider
	NFTs     domain.NFTVerifier

	Identity     *identity.Service
	Orderbooks   *analytics.OrderbookAnalyzer
	Intelligence *analytics.IntelligenceAnalyzer
	Signals      *analytics.SignalGenerator
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		PoolSize:   cfg.Redis.PoolSize,
		MaxRetries: cfg.Redis.MaxRetries,
		TLSEnabled: cfg.Redis.TLSEnabled,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close failed", slog.String("error", err.Error()))
		}
	})

	cache := redis.NewKVStore(redisClient)
	limiter := redis.NewRateLimiter(redisClient)

	// --- Injective REST clients ---
	provider := injective.NewIndexerClient(cfg.Injective.IndexerURL)
	nfts := injective.NewNFTClient(injective.NFTClientConfig{
		ChainRestURL: cfg.Injective.ChainRestURL,
		Bypass:       cfg.Auth.BypassNFT,
		BypassTier:   identity.ParseTier(cfg.Auth.BypassNFTTier),
	}, cache, logger)

	// --- Services ---
	identitySvc := identity.NewService(cache, nfts, identity.Config{
		JWTSecret:       cfg.Auth.JWTSecret,
		BypassSignature: cfg.Auth.BypassSignature,
	}, logger)

	orderbooks := analytics.NewOrderbookAnalyzer(provider, cache, logger)
	intelligence := analytics.NewIntelligenceAnalyzer(provider, logger)
	signals := analytics.NewSignalGenerator(provider, orderbooks, logger)

	return &Dependencies{
		Cache:        cache,
		RateLimiter:  limiter,
		Provider:     provider,
		NFTs:         nfts,
		Identity:     identitySvc,
		Orderbooks:   orderbooks,
		Intelligence: intelligence,
		Signals:      signals,
	}, cleanup, nil
}
