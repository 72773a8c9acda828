package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/injlabs/marketlens/internal/domain"
)

const (
	// nonceTTL is how long an issued challenge nonce stays valid.
	nonceTTL = 5 * time.Minute

	// messageMaxAge bounds the age of the signed challenge message.
	messageMaxAge = 5 * time.Minute

	// tokenTTL is the lifetime of an issued access token.
	tokenTTL = 24 * time.Hour
)

func nonceKey(walletAddress string) string {
	return "nonce:" + strings.ToLower(walletAddress)
}

// Config holds identity-service parameters.
type Config struct {
	JWTSecret string
	// BypassSignature accepts any signature. Development only.
	BypassSignature bool
}

// ChallengeMessage is the JSON payload the wallet signs.
type ChallengeMessage struct {
	WalletAddress string `json:"walletAddress"`
	Timestamp     int64  `json:"timestamp"`
	Nonce         string `json:"nonce"`
}

// Challenge is an issued signing challenge.
type Challenge struct {
	Message string `json:"message"`
	Nonce   string `json:"nonce"`
}

// VerifyRequest carries everything needed to verify a wallet identity.
type VerifyRequest struct {
	WalletAddress string
	Signature     string
	Message       string
	NFTClassID    string
	NFTID         string
}

// Grant is a successful verification result.
type Grant struct {
	Verified    bool        `json:"verified"`
	AccessToken string      `json:"accessToken"`
	Tier        domain.Tier `json:"tier"`
	ExpiresIn   int64       `json:"expiresIn"`
}

// Claims is the JWT payload issued on successful verification.
type Claims struct {
	WalletAddress string      `json:"walletAddress"`
	Tier          domain.Tier `json:"tier"`
	NFTClassID    string      `json:"nftClassId"`
	NFTID         string      `json:"nftId"`
	jwt.RegisteredClaims
}

// Service implements the challenge/response identity flow: nonce issuance,
// signature verification, NFT ownership lookup, and JWT minting.
type Service struct {
	cache  domain.CacheStore
	nfts   domain.NFTVerifier
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates an identity Service on top of the given cache store
// and NFT verifier.
func NewService(cache domain.CacheStore, nfts domain.NFTVerifier, cfg Config, logger *slog.Logger) *Service {
	return &Service{
		cache:  cache,
		nfts:   nfts,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "identity")),
		now:    time.Now,
	}
}

// IssueChallenge generates a fresh signing challenge for a wallet and stores
// its nonce for five minutes. Re-issuing overwrites any outstanding nonce
// for the same wallet.
func (s *Service) IssueChallenge(ctx context.Context, walletAddress string) (Challenge, error) {
	nonce := uuid.NewString()

	payload, err := json.Marshal(ChallengeMessage{
		WalletAddress: walletAddress,
		Timestamp:     s.now().UnixMilli(),
		Nonce:         nonce,
	})
	if err != nil {
		return Challenge{}, fmt.Errorf("identity: marshal challenge: %w", err)
	}

	if err := s.cache.SetWithExpiry(ctx, nonceKey(walletAddress), nonceTTL, nonce); err != nil {
		return Challenge{}, fmt.Errorf("identity: store nonce: %w", err)
	}

	return Challenge{Message: string(payload), Nonce: nonce}, nil
}

// VerifyIdentity validates a signed challenge, checks NFT ownership, burns
// the nonce, and mints a 24-hour access token.
func (s *Service) VerifyIdentity(ctx context.Context, req VerifyRequest) (Grant, error) {
	var msg ChallengeMessage
	if err := json.Unmarshal([]byte(req.Message), &msg); err != nil {
		return Grant{}, domain.ErrInvalidChallenge
	}

	if !strings.EqualFold(msg.WalletAddress, req.WalletAddress) {
		return Grant{}, domain.ErrChallengeMismatch
	}

	stored, err := s.cache.Get(ctx, nonceKey(req.WalletAddress))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Grant{}, domain.ErrNonceExpired
		}
		return Grant{}, fmt.Errorf("identity: read nonce: %w", err)
	}
	if stored != msg.Nonce {
		return Grant{}, domain.ErrNonceExpired
	}

	if msg.Timestamp <= 0 || s.now().UnixMilli()-msg.Timestamp > messageMaxAge.Milliseconds() {
		return Grant{}, domain.ErrNonceExpired
	}

	if !s.cfg.BypassSignature && !VerifySignature(req.Message, req.Signature, req.WalletAddress) {
		return Grant{}, domain.ErrInvalidSignature
	}

	ownership, err := s.nfts.VerifyOwnership(ctx, req.WalletAddress, req.NFTClassID, req.NFTID)
	if err != nil {
		return Grant{}, fmt.Errorf("identity: verify ownership: %w", err)
	}
	if !ownership.IsOwner {
		return Grant{}, domain.ErrNotOwner
	}

	// Single use: the nonce is burned whether or not the delete succeeds.
	if err := s.cache.Delete(ctx, nonceKey(req.WalletAddress)); err != nil {
		s.logger.WarnContext(ctx, "nonce delete failed",
			slog.String("error", err.Error()),
		)
	}

	token, err := s.mintToken(req, ownership.Tier)
	if err != nil {
		return Grant{}, err
	}

	s.logger.InfoContext(ctx, "identity verified",
		slog.String("wallet", strings.ToLower(req.WalletAddress)),
		slog.String("tier", string(ownership.Tier)),
	)

	return Grant{
		Verified:    true,
		AccessToken: token,
		Tier:        ownership.Tier,
		ExpiresIn:   int64(tokenTTL.Seconds()),
	}, nil
}

// mintToken signs an HS256 access token carrying the wallet, tier, and NFT
// coordinates.
func (s *Service) mintToken(req VerifyRequest, tier domain.Tier) (string, error) {
	now := s.now()
	claims := Claims{
		WalletAddress: req.WalletAddress,
		Tier:          tier,
		NFTClassID:    req.NFTClassID,
		NFTID:         req.NFTID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("identity: sign token: %w", err)
	}
	return token, nil
}

// VerifyToken parses and validates an access token, returning its claims.
func (s *Service) VerifyToken(tokenString string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, fmt.Errorf("identity: parse token: %w", errors.Join(domain.ErrUnauthorized, err))
	}
	return claims, nil
}
