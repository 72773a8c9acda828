// Package config defines the top-level configuration for the marketlens
// service and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by MLENS_* environment variables.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Redis     RedisConfig     `toml:"redis"`
	Injective InjectiveConfig `toml:"injective"`
	Auth      AuthConfig      `toml:"auth"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
	LogLevel  string          `toml:"log_level"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// InjectiveConfig holds the Injective indexer and chain REST endpoints.
type InjectiveConfig struct {
	IndexerURL   string `toml:"indexer_url"`
	ChainRestURL string `toml:"chain_rest_url"`
}

// AuthConfig holds identity-service parameters. The bypass switches skip
// signature and NFT checks for local development; never enable them in
// production.
type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret"`
	BypassSignature bool   `toml:"bypass_signature"`
	BypassNFT       bool   `toml:"bypass_nft"`
	BypassNFTTier   string `toml:"bypass_nft_tier"`
}

// RateLimitConfig holds tiered rate-limiting parameters. Per-tier request
// budgets are fixed by the identity package; only the window is tunable.
type RateLimitConfig struct {
	Enabled bool     `toml:"enabled"`
	Window  duration `toml:"window"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "1m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "1m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:        3000,
			CORSOrigins: []string{"*"},
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		Injective: InjectiveConfig{
			IndexerURL:   "https://sentry.exchange.injective.network",
			ChainRestURL: "https://sentry.lcd.injective.network",
		},
		Auth: AuthConfig{
			BypassNFTTier: "nftHolder",
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Window:  duration{time.Minute},
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validBypassTiers enumerates the tiers the NFT bypass may grant.
var validBypassTiers = map[string]bool{
	"nftHolder": true,
	"premium":   true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}

	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	if c.Injective.IndexerURL == "" {
		errs = append(errs, "injective: indexer_url must not be empty")
	}
	if c.Injective.ChainRestURL == "" && !c.Auth.BypassNFT {
		errs = append(errs, "injective: chain_rest_url must not be empty unless auth.bypass_nft is set")
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, "auth: jwt_secret must not be empty")
	}
	if c.Auth.BypassNFT && !validBypassTiers[c.Auth.BypassNFTTier] {
		errs = append(errs, fmt.Sprintf("auth: bypass_nft_tier must be nftHolder or premium, got %q", c.Auth.BypassNFTTier))
	}

	if c.RateLimit.Enabled && c.RateLimit.Window.Duration <= 0 {
		errs = append(errs, "ratelimit: window must be > 0 when enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
