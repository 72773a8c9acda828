package identity

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/injlabs/marketlens/internal/domain"
)

func signMessage(t *testing.T, message string) (address, signature string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)

	return crypto.PubkeyToAddress(key.PublicKey).Hex(), hexutil.Encode(sig)
}

func TestRecoverAddress(t *testing.T) {
	const message = `{"walletAddress":"0xabc","timestamp":1,"nonce":"n"}`
	address, signature := signMessage(t, message)

	recovered, err := RecoverAddress(message, signature)
	require.NoError(t, err)
	assert.Equal(t, address, recovered.Hex())
}

func TestRecoverAddressLegacyV(t *testing.T) {
	const message = "hello"
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)

	// Wallets commonly emit v as 27/28 instead of 0/1.
	legacy := append([]byte(nil), sig...)
	legacy[64] += 27

	recovered, err := RecoverAddress(message, hexutil.Encode(legacy))
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), recovered.Hex())
}

func TestRecoverAddressRejectsBadLength(t *testing.T) {
	_, err := RecoverAddress("msg", "0xdeadbeef")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerifySignature(t *testing.T) {
	const message = "challenge"
	address, signature := signMessage(t, message)

	assert.True(t, VerifySignature(message, signature, address))

	// Address comparison is case-insensitive.
	assert.True(t, VerifySignature(message, signature, "0X"+address[2:]))

	// A different message recovers a different signer.
	assert.False(t, VerifySignature("tampered", signature, address))

	otherAddress, _ := signMessage(t, message)
	assert.False(t, VerifySignature(message, signature, otherAddress))
}
