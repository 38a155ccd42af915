// internal/app/features/schools/members.go
package schools

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/store/membershipstore"
	"github.com/globalclassrooms/classhub/internal/app/store/schoolstore"
	"github.com/globalclassrooms/classhub/internal/app/system/authz"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// HandleJoin adds the caller to a school. Rejoining after leaving
// reactivates the old membership.
//
// POST /schools/{schoolID}/join
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}
	actor := authz.Actor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sc, err := h.Schools.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, schoolstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if !sc.IsActive {
		httpjson.BadRequest(w, "this school is not accepting members")
		return
	}

	prospective := policy.MembershipRes{M: models.SchoolMembership{
		UserID:   actor.ID,
		SchoolID: sc.ID,
	}}
	if !h.authorize(w, r, policy.ActionWrite, prospective) {
		return
	}

	m, err := h.Memberships.Join(ctx, actor.ID, sc.ID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}

	h.Log.Info("member joined school",
		zap.String("user_id", actor.ID.Hex()), zap.String("school_id", sc.ID.Hex()))
	httpjson.Respond(w, http.StatusOK, m)
}

// HandleLeave deactivates the caller's own membership.
//
// POST /schools/{schoolID}/leave
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}
	actor := authz.Actor(r)
	h.removeMember(w, r, actor.ID, id)
}

// HandleRemoveMember deactivates another user's membership. School admin
// and staff only; members can only remove themselves via leave.
//
// DELETE /schools/{schoolID}/members/{userID}
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	h.removeMember(w, r, userID, schoolID)
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request, userID, schoolID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Memberships.Get(ctx, userID, schoolID)
	if err != nil {
		if errors.Is(err, membershipstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.MembershipRes{M: *m}) {
		return
	}

	if err := h.Memberships.Deactivate(ctx, userID, schoolID); err != nil {
		if errors.Is(err, membershipstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

// ServeMembers pages through a school's active members, enriched with the
// member accounts. Visible to the school's members, its admin, and staff.
//
// GET /schools/{schoolID}/members
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}
	actor := authz.Actor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !actor.Staff() {
		role, err := h.Resolver.RoleInSchool(ctx, actor.ID, id)
		if err != nil {
			httpjson.Internal(w, h.Log, err)
			return
		}
		if role == membershipstore.SchoolRoleNone {
			httpjson.PermissionDenied(w, h.Log, policy.ReasonNoRelationship)
			return
		}
	}

	page := paging.Parse(r)
	members, total, err := h.Memberships.ListMembers(ctx, id, page)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := h.Users.GetMany(ctx, ids)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	byID := make(map[primitive.ObjectID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	entries := make([]memberEntry, 0, len(members))
	for _, m := range members {
		entries = append(entries, memberEntry{Membership: m, User: byID[m.UserID]})
	}
	httpjson.Respond(w, http.StatusOK, memberListResponse{
		Members: entries,
		Meta:    page.MetaFor(total),
	})
}
