// internal/app/features/auth/google.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/globalclassrooms/classhub/internal/app/store/userstore"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/inputval"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// googleUserInfo is what Google's userinfo endpoint returns.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// HandleGoogleLogin exchanges a Google authorization code for a token
// pair, creating the account on first login. Lookup is by Google account
// id first, then by verified email, which links pre-existing email
// accounts to their Google identity.
//
// POST /auth/google
func (h *Handler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.googleConfigured() {
		httpjson.Fail(w, http.StatusServiceUnavailable, httpjson.CodeAuthentication,
			"google sign-in is not configured", nil)
		return
	}

	var req googleLoginRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	token, err := h.oauth2Config().Exchange(ctx, req.Code)
	if err != nil {
		h.Log.Info("google code exchange failed", zap.Error(err))
		httpjson.Unauthorized(w, "google authorization failed")
		return
	}

	info, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if !info.EmailVerified {
		httpjson.Unauthorized(w, "google account email is not verified")
		return
	}

	u, err := h.lookupOrCreateGoogleUser(ctx, info)
	if err != nil {
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

	httpjson.Respond(w, http.StatusOK, tokenResponse{Tokens: pair, User: *u})
}

func (h *Handler) lookupOrCreateGoogleUser(ctx context.Context, info *googleUserInfo) (*models.User, error) {
	u, err := h.Users.GetByGoogleID(ctx, info.ID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, userstore.ErrNotFound) {
		return nil, err
	}

	u, err = h.Users.GetByEmail(ctx, info.Email)
	if err == nil {
		if lerr := h.Users.LinkGoogleAccount(ctx, u.ID, info.ID); lerr != nil {
			h.Log.Warn("link google account failed",
				zap.Error(lerr), zap.String("user_id", u.ID.Hex()))
		}
		return u, nil
	}
	if !errors.Is(err, userstore.ErrNotFound) {
		return nil, err
	}

	created, err := h.Users.Create(ctx, models.User{
		Email:           info.Email,
		FirstName:       info.GivenName,
		LastName:        info.FamilyName,
		GoogleAccountID: info.ID,
		SignupMethod:    models.SignupGoogle,
	})
	if err != nil {
		return nil, err
	}
	h.Log.Info("google user created", zap.String("user_id", created.ID.Hex()))
	return &created, nil
}

// fetchGoogleUserInfo retrieves the profile behind an access token.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch google user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode google user info: %w", err)
	}
	return &info, nil
}
