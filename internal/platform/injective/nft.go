package injective

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/injlabs/marketlens/internal/domain"
)

const ownershipCacheTTL = 5 * time.Minute

// premiumClassID is the NFT class whose holders are granted premium tier.
const premiumClassID = "n1nj4"

// NFTClientConfig holds parameters for the NFT ownership client.
type NFTClientConfig struct {
	ChainRestURL string
	// Bypass skips the on-chain lookup and grants BypassTier. Development
	// only.
	Bypass     bool
	BypassTier domain.Tier
}

// NFTClient verifies NFT ownership against the chain's x/nft module via the
// LCD REST endpoint, caching results in the shared cache store.
type NFTClient struct {
	cfg        NFTClientConfig
	cache      domain.CacheStore
	httpClient *http.Client
	logger     *slog.Logger
}

// NewNFTClient creates an NFTClient backed by the given cache store.
func NewNFTClient(cfg NFTClientConfig, cache domain.CacheStore, logger *slog.Logger) *NFTClient {
	return &NFTClient{
		cfg:   cfg,
		cache: cache,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger.With(slog.String("component", "nft_client")),
	}
}

func ownershipCacheKey(walletAddress, classID, nftID string) string {
	return "nft:" + strings.ToLower(walletAddress) + ":" + classID + ":" + nftID
}

// VerifyOwnership checks whether walletAddress owns the given NFT and
// resolves the tier it grants. A lookup failure degrades to an unverified,
// non-owner result rather than an error; ownership is a gate, not data.
func (c *NFTClient) VerifyOwnership(ctx context.Context, walletAddress, classID, nftID string) (domain.NFTOwnership, error) {
	if c.cfg.Bypass {
		tier := c.cfg.BypassTier
		if tier != domain.TierPremium {
			tier = domain.TierNFTHolder
		}
		return domain.NFTOwnership{
			IsOwner:       true,
			ClassID:       classID,
			NFTID:         nftID,
			WalletAddress: walletAddress,
			Tier:          tier,
		}, nil
	}

	cacheKey := ownershipCacheKey(walletAddress, classID, nftID)
	if cached, err := c.cache.Get(ctx, cacheKey); err == nil {
		var ownership domain.NFTOwnership
		if err := json.Unmarshal([]byte(cached), &ownership); err == nil {
			return ownership, nil
		}
	}

	ownership := domain.NFTOwnership{
		ClassID:       classID,
		NFTID:         nftID,
		WalletAddress: walletAddress,
		Tier:          domain.TierUnverified,
	}

	owner, err := c.queryOwner(ctx, classID, nftID)
	if err != nil {
		c.logger.WarnContext(ctx, "nft ownership lookup failed",
			slog.String("class_id", classID),
			slog.String("nft_id", nftID),
			slog.String("error", err.Error()),
		)
		return ownership, nil
	}

	ownership.IsOwner = strings.EqualFold(owner, walletAddress)
	ownership.Tier = determineTier(classID, ownership.IsOwner)

	if data, err := json.Marshal(ownership); err == nil {
		if err := c.cache.SetWithExpiry(ctx, cacheKey, ownershipCacheTTL, string(data)); err != nil {
			c.logger.WarnContext(ctx, "nft ownership cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}

	return ownership, nil
}

// queryOwner asks the chain's x/nft module for the current owner of an NFT.
func (c *NFTClient) queryOwner(ctx context.Context, classID, nftID string) (string, error) {
	path := fmt.Sprintf("/cosmos/nft/v1beta1/owner/%s/%s", url.PathEscape(classID), url.PathEscape(nftID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ChainRestURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("injective: build owner request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("injective: query owner: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("injective: query owner: unexpected status %d", resp.StatusCode)
	}

	var parsed ownerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("injective: decode owner: %w", err)
	}
	if parsed.Owner == "" {
		return "", errors.New("injective: empty owner in response")
	}
	return parsed.Owner, nil
}

// determineTier maps ownership of an NFT class to an access tier.
func determineTier(classID string, isOwner bool) domain.Tier {
	if !isOwner {
		return domain.TierUnverified
	}
	if strings.ToLower(classID) == premiumClassID {
		return domain.TierPremium
	}
	return domain.TierNFTHolder
}

// Compile-time interface check.
var _ domain.NFTVerifier = (*NFTClient)(nil)
