package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/injlabs/marketlens/internal/domain"
	"github.com/injlabs/marketlens/internal/identity"
)

// IdentityHandler serves the wallet challenge and verification endpoints.
type IdentityHandler struct {
	svc    *identity.Service
	logger *slog.Logger
}

// NewIdentityHandler creates an IdentityHandler on top of the identity
// service.
func NewIdentityHandler(svc *identity.Service, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{svc: svc, logger: logger}
}

type challengeRequest struct {
	WalletAddress string `json:"walletAddress"`
}

// Challenge issues a fresh signing challenge for a wallet.
// POST /api/v1/auth/challenge
func (h *IdentityHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "identity.challenge")

	var req challengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WalletAddress == "" {
		writeError(w, http.StatusBadRequest, "Wallet address required")
		return
	}

	challenge, err := h.svc.IssueChallenge(r.Context(), req.WalletAddress)
	if err != nil {
		log.ErrorContext(r.Context(), "challenge issue failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, challenge)
}

type verifyRequest struct {
	WalletAddress string `json:"walletAddress"`
	Signature     string `json:"signature"`
	Message       string `json:"message"`
	NFTClassID    string `json:"nftClassId"`
	NFTID         string `json:"nftId"`
}

// Verify validates a signed challenge plus NFT ownership and returns an
// access token on success.
// POST /api/v1/verify-identity
func (h *IdentityHandler) Verify(w http.ResponseWriter, r *http.Request) {
	log := logHandler(h.logger, "identity.verify")

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if req.WalletAddress == "" || req.Signature == "" || req.Message == "" || req.NFTClassID == "" || req.NFTID == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	grant, err := h.svc.VerifyIdentity(r.Context(), identity.VerifyRequest{
		WalletAddress: req.WalletAddress,
		Signature:     req.Signature,
		Message:       req.Message,
		NFTClassID:    req.NFTClassID,
		NFTID:         req.NFTID,
	})
	if err != nil {
		h.writeVerifyError(w, r, log, err)
		return
	}

	writeJSON(w, http.StatusOK, grant)
}

// writeVerifyError maps identity failures onto HTTP statuses. Verification
// failures always carry verified:false so clients can branch on one field.
func (h *IdentityHandler) writeVerifyError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidChallenge):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"verified": false,
			"error":    "Invalid challenge message",
		})
	case errors.Is(err, domain.ErrChallengeMismatch):
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"verified": false,
			"error":    "Challenge wallet mismatch",
		})
	case errors.Is(err, domain.ErrNonceExpired):
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"verified": false,
			"error":    "Challenge expired or already used",
		})
	case errors.Is(err, domain.ErrInvalidSignature):
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"verified": false,
			"error":    "Signature verification failed",
		})
	case errors.Is(err, domain.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, map[string]any{
			"verified": false,
			"error":    "NFT ownership not confirmed",
		})
	default:
		log.ErrorContext(r.Context(), "identity verification failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
