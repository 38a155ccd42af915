// internal/app/features/auth/password.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/store/userstore"
	"github.com/globalclassrooms/classhub/internal/app/system/auth"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/inputval"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// HandleRegister creates an email+password account and returns a token
// pair so the client is signed in immediately.
//
// POST /auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}
	if req.Role == models.RoleSuperAdmin {
		httpjson.BadRequest(w, "this role cannot be self-assigned")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		SignupMethod: models.SignupEmail,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateUser) {
			httpjson.Conflict(w, "an account with this email already exists")
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if err := h.Users.SetPassword(ctx, u.ID, req.Password); err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}

	pair, err := h.Issuer.Issue(u)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", u.Role))

	httpjson.Respond(w, http.StatusCreated, tokenResponse{Tokens: pair, User: u})
}

// HandleLogin signs in with email and password.
//
// POST /auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
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

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Unauthorized(w, "invalid email or password")
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if !u.IsActive {
		httpjson.Unauthorized(w, "this account has been deactivated")
		return
	}
	if err := h.Users.CheckPassword(u, req.Password); err != nil {
		h.Log.Info("password login failed", zap.String("user_id", u.ID.Hex()))
		httpjson.Unauthorized(w, "invalid email or password")
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

// HandleChangePassword changes the signed-in user's password after
// re-checking the current one.
//
// POST /auth/password
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	cu, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Unauthorized(w, "authentication required")
		return
	}

	var req changePasswordRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, cu.ID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if err := h.Users.CheckPassword(u, req.CurrentPassword); err != nil {
		httpjson.Unauthorized(w, "current password is incorrect")
		return
	}
	if err := h.Users.SetPassword(ctx, u.ID, req.NewPassword); err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}

	h.Log.Info("password changed", zap.String("user_id", u.ID.Hex()))
	httpjson.Respond(w, http.StatusOK, map[string]string{"message": "password updated"})
}
