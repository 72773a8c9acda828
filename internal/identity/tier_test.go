package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/injlabs/marketlens/internal/domain"
)

func TestTierLimit(t *testing.T) {
	assert.Equal(t, 10, TierLimit(domain.TierUnverified))
	assert.Equal(t, 100, TierLimit(domain.TierNFTHolder))
	assert.Equal(t, 1000, TierLimit(domain.TierPremium))

	// Unknown tiers fall back to the unverified budget.
	assert.Equal(t, 10, TierLimit(domain.Tier("vip")))
	assert.Equal(t, 10, TierLimit(domain.Tier("")))
}

func TestParseTier(t *testing.T) {
	assert.Equal(t, domain.TierNFTHolder, ParseTier("nftHolder"))
	assert.Equal(t, domain.TierPremium, ParseTier("premium"))
	assert.Equal(t, domain.TierUnverified, ParseTier("unverified"))
	assert.Equal(t, domain.TierUnverified, ParseTier("bogus"))
}

func TestMeetsRequirement(t *testing.T) {
	cases := []struct {
		name     string
		tier     domain.Tier
		required domain.Tier
		want     bool
	}{
		{"premium satisfies premium", domain.TierPremium, domain.TierPremium, true},
		{"holder does not satisfy premium", domain.TierNFTHolder, domain.TierPremium, false},
		{"holder satisfies holder", domain.TierNFTHolder, domain.TierNFTHolder, true},
		{"premium satisfies holder", domain.TierPremium, domain.TierNFTHolder, true},
		{"unverified fails holder", domain.TierUnverified, domain.TierNFTHolder, false},
		{"empty tier fails holder", domain.Tier(""), domain.TierNFTHolder, false},
		{"anything satisfies unverified", domain.TierUnverified, domain.TierUnverified, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MeetsRequirement(tc.tier, tc.required))
		})
	}
}
