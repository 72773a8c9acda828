package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies MLENS_* environment variable overrides, and
// returns the final Config. A missing file is not an error; env-only
// deployments are supported. The returned Config has NOT been validated;
// the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known MLENS_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// --- Server ---
	setInt(&cfg.Server.Port, "MLENS_SERVER_PORT")
	setInt(&cfg.Server.Port, "PORT") // compatibility alias
	setStringSlice(&cfg.Server.CORSOrigins, "MLENS_SERVER_CORS_ORIGINS")

	// --- Redis ---
	setStr(&cfg.Redis.Addr, "MLENS_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "MLENS_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "MLENS_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "MLENS_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "MLENS_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "MLENS_REDIS_TLS_ENABLED")

	// --- Injective ---
	setStr(&cfg.Injective.IndexerURL, "MLENS_INJECTIVE_INDEXER_URL")
	setStr(&cfg.Injective.ChainRestURL, "MLENS_INJECTIVE_CHAIN_REST_URL")

	// --- Auth ---
	setStr(&cfg.Auth.JWTSecret, "MLENS_AUTH_JWT_SECRET")
	setStr(&cfg.Auth.JWTSecret, "JWT_SECRET") // compatibility alias
	setBool(&cfg.Auth.BypassSignature, "MLENS_AUTH_BYPASS_SIGNATURE")
	setBool(&cfg.Auth.BypassNFT, "MLENS_AUTH_BYPASS_NFT")
	setStr(&cfg.Auth.BypassNFTTier, "MLENS_AUTH_BYPASS_NFT_TIER")

	// --- Rate limiting ---
	setBool(&cfg.RateLimit.Enabled, "MLENS_RATELIMIT_ENABLED")
	setDuration(&cfg.RateLimit.Window, "MLENS_RATELIMIT_WINDOW")

	// --- Top-level ---
	setStr(&cfg.LogLevel, "MLENS_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
