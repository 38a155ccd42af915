// internal/app/features/auth/profile.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/globalclassrooms/classhub/internal/app/store/userstore"
	"github.com/globalclassrooms/classhub/internal/app/system/auth"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/inputval"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
)

// HandleRefresh exchanges a refresh token for a fresh pair. The user is
// reloaded so role or staff changes since the last issue take effect.
//
// POST /auth/refresh
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}

	claims, err := h.Issuer.Parse(req.Refresh, auth.TokenRefresh)
	if err != nil {
		httpjson.Unauthorized(w, "invalid or expired refresh token")
		return
	}
	uid, err := claims.UserID()
	if err != nil {
		httpjson.Unauthorized(w, "invalid or expired refresh token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Unauthorized(w, "invalid or expired refresh token")
			return
		}
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
	httpjson.Respond(w, http.StatusOK, pair)
}

// ServeMe returns the signed-in user's account.
//
// GET /auth/me
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	cu, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Unauthorized(w, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, cu.ID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, u)
}

// HandleUpdateMe updates the signed-in user's own profile fields.
//
// PUT /auth/me
func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	cu, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Unauthorized(w, "authentication required")
		return
	}

	var req updateProfileRequest
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

	err := h.Users.UpdateProfile(ctx, cu.ID, userstore.ProfileUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MobileNumber: req.MobileNumber,
		Gender:       req.Gender,
		DateOfBirth:  req.DateOfBirth,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}

	u, err := h.Users.GetByID(ctx, cu.ID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, u)
}
