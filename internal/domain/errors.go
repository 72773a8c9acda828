package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDataUnavailable   = errors.New("market data unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbiddenTier     = errors.New("insufficient tier")
	ErrRateLimited       = errors.New("rate limited")
	ErrInvalidChallenge  = errors.New("invalid challenge message")
	ErrChallengeMismatch = errors.New("challenge wallet mismatch")
	ErrNonceExpired      = errors.New("invalid or expired nonce")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrNotOwner          = errors.New("nft ownership verification failed")
)
