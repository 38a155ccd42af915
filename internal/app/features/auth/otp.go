// internal/app/features/auth/otp.go
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
	"github.com/globalclassrooms/classhub/internal/app/system/mailer"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// HandleOTPRequest mails a 6-digit login code. The response is the same
// whether or not an account exists, so the endpoint cannot be used to
// probe for registered addresses.
//
// POST /auth/otp/request
func (h *Handler) HandleOTPRequest(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}
	if !h.Limiter.Check(r, req.Email) {
		httpjson.Fail(w, http.StatusTooManyRequests, httpjson.CodeAuthentication,
			"too many login attempts, try again later", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	code, err := h.Tokens.CreateCode(ctx, req.Email)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}

	email := mailer.BuildLoginCodeEmail(mailer.LoginCodeData{
		SiteName:  siteName,
		Code:      code,
		ExpiresIn: "10 minutes",
	})
	email.To = req.Email
	if err := h.Mail.Send(email); err != nil {
		h.Log.Error("login code email failed", zap.Error(err))
		httpjson.Internal(w, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, map[string]string{
		"message": "if the address is valid, a login code has been sent",
	})
}

// HandleOTPVerify exchanges a mailed code for a token pair, creating the
// account on first login.
//
// POST /auth/otp/verify
func (h *Handler) HandleOTPVerify(w http.ResponseWriter, r *http.Request) {
	var req otpVerifyRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}
	if !h.Limiter.Check(r, req.Email) {
		httpjson.Fail(w, http.StatusTooManyRequests, httpjson.CodeAuthentication,
			"too many login attempts, try again later", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Tokens.VerifyCode(ctx, req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, logintokens.ErrCodeNotFound):
			httpjson.Unauthorized(w, "login code not found or expired, request a new one")
		case errors.Is(err, logintokens.ErrCodeMismatch):
			httpjson.Unauthorized(w, "incorrect login code")
		case errors.Is(err, logintokens.ErrTooManyAttempts):
			httpjson.Unauthorized(w, "too many incorrect attempts, request a new code")
		default:
			httpjson.Internal(w, h.Log, err)
		}
		return
	}

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, userstore.ErrNotFound) {
		created, cerr := h.Users.Create(ctx, models.User{
			Email:        req.Email,
			SignupMethod: models.SignupOTP,
		})
		if cerr != nil {
			httpjson.Internal(w, h.Log, cerr)
			return
		}
		u = &created
		h.Log.Info("otp user created", zap.String("user_id", u.ID.Hex()))
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
	h.Limiter.ResetIdentity(req.Email)

	httpjson.Respond(w, http.StatusOK, tokenResponse{Tokens: pair, User: *u})
}
