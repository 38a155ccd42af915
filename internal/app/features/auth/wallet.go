// internal/app/features/auth/wallet.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/store/logintokens"
	"github.com/globalclassrooms/classhub/internal/app/store/userstore"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/inputval"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
	"github.com/globalclassrooms/classhub/internal/app/system/walletsig"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// HandleWalletNonce issues a one-time challenge for a wallet to sign.
// Reissuing replaces any outstanding nonce for the address.
//
// POST /auth/wallet/nonce
func (h *Handler) HandleWalletNonce(w http.ResponseWriter, r *http.Request) {
	var req nonceRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}
	if !h.Limiter.Check(r, req.WalletAddress) {
		httpjson.Fail(w, http.StatusTooManyRequests, httpjson.CodeAuthentication,
			"too many login attempts, try again later", nil)
		return
	}

	purpose := models.NoncePurposeSignIn
	if req.Purpose == "register" {
		purpose = models.NoncePurposeRegister
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Tokens.CreateNonce(ctx, req.WalletAddress, purpose)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, nonceResponse{
		Message:   walletsig.Message(n.Purpose, n.Nonce),
		Nonce:     n.Nonce,
		ExpiresAt: n.ExpiresAt,
	})
}

// HandleWalletVerify checks the signature over the outstanding nonce and
// signs the wallet in, creating the account on first use. The nonce is
// consumed atomically whether or not the signature checks out, so a replay
// always fails with "nonce not found".
//
// POST /auth/wallet/verify
func (h *Handler) HandleWalletVerify(w http.ResponseWriter, r *http.Request) {
	var req walletVerifyRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}
	if !h.Limiter.Check(r, req.WalletAddress) {
		httpjson.Fail(w, http.StatusTooManyRequests, httpjson.CodeAuthentication,
			"too many login attempts, try again later", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Tokens.ConsumeNonce(ctx, req.WalletAddress)
	if err != nil {
		if errors.Is(err, logintokens.ErrNonceNotFound) {
			httpjson.Unauthorized(w, "nonce not found, request a new one")
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}

	message := walletsig.Message(n.Purpose, n.Nonce)
	if err := walletsig.Verify(message, req.Signature, req.WalletAddress); err != nil {
		h.Log.Info("wallet signature rejected",
			zap.String("wallet", n.WalletAddress))
		httpjson.Unauthorized(w, "signature verification failed")
		return
	}

	u, err := h.Users.GetByWallet(ctx, req.WalletAddress)
	if errors.Is(err, userstore.ErrNotFound) {
		created, cerr := h.Users.Create(ctx, models.User{
			WalletAddress: req.WalletAddress,
			SignupMethod:  models.SignupWallet,
		})
		if cerr != nil {
			httpjson.Internal(w, h.Log, cerr)
			return
		}
		u = &created
		h.Log.Info("wallet user created", zap.String("user_id", u.ID.Hex()))
	} else if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if !u.IsActive {
		httpjson.Unauthorized(w, "this account has been deactivated")
		return
	}

	pair, err := h.Issuer.Issue(*u)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	h.Limiter.ResetIdentity(req.WalletAddress)

	httpjson.Respond(w, http.StatusOK, tokenResponse{Tokens: pair, User: *u})
}
