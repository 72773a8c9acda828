package domain

import "context"

// Tier is the access level derived from NFT ownership.
type Tier string

const (
	TierUnverified Tier = "unverified"
	TierNFTHolder  Tier = "nftHolder"
	TierPremium    Tier = "premium"
)

// NFTOwnership is the result of an on-chain ownership check. It is cached
// as JSON, so the field names are part of the cache format.
type NFTOwnership struct {
	IsOwner       bool   `json:"isOwner"`
	ClassID       string `json:"classId"`
	NFTID         string `json:"nftId"`
	WalletAddress string `json:"walletAddress"`
	Tier          Tier   `json:"tier"`
}

// NFTVerifier checks whether a wallet owns a specific NFT and resolves the
// tier it grants.
type NFTVerifier interface {
	VerifyOwnership(ctx context.Context, walletAddress, classID, nftID string) (NFTOwnership, error)
}
