// Package authz bridges the request context to the authorization engine.
// Handlers call Actor to get the principal for policy checks; the helpers
// below exist for the few places that only need a coarse answer.
package authz

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/system/auth"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// Actor converts the request's token user into a policy actor. Anonymous
// requests yield the zero Actor, which the engine treats as a visitor.
func Actor(r *http.Request) policy.Actor {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return policy.Actor{}
	}
	return policy.Actor{
		ID:            u.ID,
		Role:          strings.ToLower(u.Role),
		IsStaff:       u.IsStaff,
		Authenticated: true,
	}
}

// UserCtx returns the user's role (lowercased), ObjectID, and a found
// flag. ok=true means a valid, authenticated user.
func UserCtx(r *http.Request) (role string, userID primitive.ObjectID, ok bool) {
	u, found := auth.CurrentUser(r)
	if !found {
		return "", primitive.NilObjectID, false
	}
	return strings.ToLower(u.Role), u.ID, true
}

// IsStaff reports whether the current user bypasses policy checks.
func IsStaff(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && (u.IsStaff || strings.ToLower(u.Role) == models.RoleSuperAdmin)
}

// HasAnyRole reports whether the current user holds one of the given
// roles. Staff do not get a free pass here; use IsStaff for that.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == want {
			return true
		}
	}
	return false
}
