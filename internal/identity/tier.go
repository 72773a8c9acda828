// Package identity implements the wallet challenge/response flow, NFT-tier
// resolution, and JWT issuance that gate the analytics endpoints.
package identity

import "github.com/injlabs/marketlens/internal/domain"

// tierLimits are the per-window request budgets enforced by the rate
// limiter, keyed by tier.
var tierLimits = map[domain.Tier]int{
	domain.TierUnverified: 10,
	domain.TierNFTHolder:  100,
	domain.TierPremium:    1000,
}

// TierLimit returns the request budget for a tier; unknown tiers get the
// unverified budget.
func TierLimit(tier domain.Tier) int {
	if limit, ok := tierLimits[tier]; ok {
		return limit
	}
	return tierLimits[domain.TierUnverified]
}

// ParseTier maps a string to a known tier, defaulting to unverified.
func ParseTier(s string) domain.Tier {
	switch domain.Tier(s) {
	case domain.TierNFTHolder:
		return domain.TierNFTHolder
	case domain.TierPremium:
		return domain.TierPremium
	default:
		return domain.TierUnverified
	}
}

// MeetsRequirement reports whether a tier satisfies the required tier.
// nftHolder is satisfied by anything above unverified; premium only by
// premium.
func MeetsRequirement(tier, required domain.Tier) bool {
	switch required {
	case domain.TierPremium:
		return tier == domain.TierPremium
	case domain.TierNFTHolder:
		return tier != domain.TierUnverified && tier != ""
	default:
		return true
	}
}
