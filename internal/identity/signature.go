package identity

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/injlabs/marketlens/internal/domain"
)

// RecoverAddress recovers the signer address from an EIP-191 personal
// signature over message. signatureHex is the 65-byte r||s||v signature in
// hex; v may be either 0/1 or the legacy 27/28.
func RecoverAddress(message, signatureHex string) (common.Address, error) {
	sig := common.FromHex(signatureHex)
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("identity: signature length %d: %w", len(sig), domain.ErrInvalidSignature)
	}

	if sig[64] >= 27 {
		sig = bytes.Clone(sig)
		sig[64] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("identity: recover: %w", domain.ErrInvalidSignature)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// VerifySignature reports whether signatureHex is a valid EIP-191 personal
// signature over message by expectedAddress.
func VerifySignature(message, signatureHex, expectedAddress string) bool {
	addr, err := RecoverAddress(message, signatureHex)
	if err != nil {
		return false
	}
	return strings.EqualFold(addr.Hex(), expectedAddress)
}
