// Package auth carries the bearer-token identity through the request
// context and gates routes on it. Tokens are stateless JWTs; nothing here
// touches the database, so a deactivated user keeps access only until the
// access token expires.
package auth

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
)

// TokenUser is what we decode from the access token and inject into
// r.Context().
type TokenUser struct {
	ID      primitive.ObjectID
	Role    string
	IsStaff bool
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the token user and a found flag.
func CurrentUser(r *http.Request) (*TokenUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*TokenUser)
	return u, ok
}

// LoadBearerUser injects the user into context when the request carries a
// valid access token. Requests without an Authorization header pass
// through anonymously; a malformed or expired token is rejected outright
// rather than silently downgraded.
func LoadBearerUser(issuer *Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httpjson.Unauthorized(w, "authorization header must use the Bearer scheme")
				return
			}

			claims, err := issuer.Parse(raw, TokenAccess)
			if err != nil {
				httpjson.Unauthorized(w, "invalid or expired token")
				return
			}
			uid, err := claims.UserID()
			if err != nil {
				httpjson.Unauthorized(w, "invalid or expired token")
				return
			}

			u := &TokenUser{ID: uid, Role: claims.Role, IsStaff: claims.Staff}
			next.ServeHTTP(w, withUser(r, u))
		})
	}
}

// RequireSignedIn ensures there is a user in context (set by
// LoadBearerUser) and answers 401 otherwise.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			httpjson.Unauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the user holds one of the allowed roles. Staff pass
// regardless. Fine-grained decisions belong to the policy engine; this is
// only the coarse route gate.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				httpjson.Unauthorized(w, "authentication required")
				return
			}
			if u.IsStaff {
				next.ServeHTTP(w, r)
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				httpjson.Fail(w, http.StatusForbidden, httpjson.CodePermissionDenied,
					"you do not have permission to perform this action", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithTestUser returns a request with the user already in context.
// Test hook; handlers under test skip the token round-trip.
func WithTestUser(r *http.Request, u *TokenUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *TokenUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}
