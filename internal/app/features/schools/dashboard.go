// internal/app/features/schools/dashboard.go
package schools

import (
	"context"
	"errors"
	"net/http"

	"github.com/globalclassrooms/classhub/internal/app/store/schoolstore"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
)

// ServeDashboard returns the school's headline numbers. Members, the
// admin, and staff.
//
// GET /schools/{schoolID}/dashboard
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
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
	if !h.requireSchoolRelationship(ctx, w, r, id) {
		return
	}

	resp := dashboardResponse{School: *sc}
	if resp.MemberCount, err = h.Memberships.CountMembers(ctx, id); err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if resp.ClassCount, err = h.Classes.CountClasses(ctx, id); err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if resp.TeacherCount, err = h.Profiles.CountTeachers(ctx, id); err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if resp.StudentCount, err = h.Profiles.CountStudents(ctx, id); err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if resp.ProjectCount, err = h.Projects.CountByLeadSchool(ctx, id); err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, resp)
}
