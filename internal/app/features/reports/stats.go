// internal/app/features/reports/stats.go
package reports

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globalclassrooms/classhub/internal/app/store/donationstore"
	"github.com/globalclassrooms/classhub/internal/app/store/impactstore"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
)

type dashboardStats struct {
	ActiveUsers     int64                   `json:"active_users"`
	ActiveSchools   int64                   `json:"active_schools"`
	VerifiedSchools int64                   `json:"verified_schools"`
	Projects        map[string]int64        `json:"projects_by_status"`
	Donations       donationstore.Stats     `json:"donations"`
	Impacts         []impactstore.TypeTotal `json:"verified_impacts"`
}

// ServeDashboardStats returns the platform-wide numbers shown on the
// public landing dashboard.
//
// GET /reports/dashboard
func (h *Handler) ServeDashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var (
		stats dashboardStats
		err   error
	)
	if stats.ActiveUsers, err = h.Users.CountActive(ctx); err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if stats.ActiveSchools, err = h.Schools.CountActive(ctx, false); err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if stats.VerifiedSchools, err = h.Schools.CountActive(ctx, true); err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if stats.Projects, err = h.Projects.StatusCounts(ctx); err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if stats.Donations, err = h.Donations.CompletedStats(ctx); err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if stats.Impacts, err = h.Impacts.VerifiedTotals(ctx, nil); err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if stats.Impacts == nil {
		stats.Impacts = []impactstore.TypeTotal{}
	}

	httpjson.Respond(w, http.StatusOK, stats)
}

// ServeImpactStats returns the verified impact totals by type, optionally
// narrowed to one project.
//
// GET /reports/impacts?project=...
func (h *Handler) ServeImpactStats(w http.ResponseWriter, r *http.Request) {
	var projectID *primitive.ObjectID
	if v := r.URL.Query().Get("project"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			httpjson.BadRequest(w, "invalid project id")
			return
		}
		projectID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	totals, err := h.Impacts.VerifiedTotals(ctx, projectID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if totals == nil {
		totals = []impactstore.TypeTotal{}
	}
	httpjson.Respond(w, http.StatusOK, totals)
}
