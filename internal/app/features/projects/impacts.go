// internal/app/features/projects/impacts.go
package projects

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/store/impactstore"
	"github.com/globalclassrooms/classhub/internal/app/system/authz"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/inputval"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// HandleCreateImpact records an impact measurement contributed by one of
// the project's schools. Records start unverified.
//
// POST /projects/{projectID}/impacts
func (h *Handler) HandleCreateImpact(w http.ResponseWriter, r *http.Request) {
	var req impactRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}
	schoolID, err := primitive.ObjectIDFromHex(req.SchoolID)
	if err != nil {
		httpjson.BadRequest(w, "invalid school id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, scope, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}

	inScope := schoolID == scope.LeadSchoolID
	for _, sid := range scope.ParticipatingSchools {
		if sid == schoolID {
			inScope = true
			break
		}
	}
	if !inScope {
		httpjson.BadRequest(w, "school is not part of this project")
		return
	}

	prospective := policy.ImpactRes{I: models.EnvironmentalImpact{
		ProjectID: p.ID,
		SchoolID:  schoolID,
	}}
	if !h.authorize(w, r, policy.ActionWrite, prospective) {
		return
	}

	var measuredAt time.Time
	if req.MeasurementDate != nil {
		measuredAt = *req.MeasurementDate
	}
	im, err := h.Impacts.Create(ctx, models.EnvironmentalImpact{
		ProjectID:       p.ID,
		SchoolID:        schoolID,
		ImpactType:      req.ImpactType,
		Value:           req.Value,
		Unit:            req.Unit,
		MeasurementDate: measuredAt,
		Notes:           req.Notes,
	})
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, im)
}

// HandleUpdateImpact rewrites an impact measurement.
//
// PUT /projects/{projectID}/impacts/{impactID}
func (h *Handler) HandleUpdateImpact(w http.ResponseWriter, r *http.Request) {
	impactID, ok := pathID(w, r, "impactID")
	if !ok {
		return
	}

	var req impactUpdateRequest
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

	p, _, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}

	im, err := h.Impacts.GetByID(ctx, impactID)
	if err != nil {
		if errors.Is(err, impactstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if im.ProjectID != p.ID {
		httpjson.NotFound(w)
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.ImpactRes{I: *im}) {
		return
	}

	if err := h.Impacts.Update(ctx, impactID, req.Value, req.Unit, req.Notes, req.MeasurementDate); err != nil {
		if errors.Is(err, impactstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}

	updated, err := h.Impacts.GetByID(ctx, impactID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleVerifyImpact toggles the verified flag. Staff only; only verified
// impacts count toward public statistics.
//
// POST /projects/{projectID}/impacts/{impactID}/verify
func (h *Handler) HandleVerifyImpact(w http.ResponseWriter, r *http.Request) {
	if !authz.IsStaff(r) {
		httpjson.PermissionDenied(w, h.Log, policy.ReasonInsufficientRole)
		return
	}
	impactID, ok := pathID(w, r, "impactID")
	if !ok {
		return
	}

	var req verifyImpactRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Impacts.SetVerified(ctx, impactID, req.Verified); err != nil {
		if errors.Is(err, impactstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

// ServeImpacts lists a project's impact records. Publicly readable;
// supports type and verified filters.
//
// GET /projects/{projectID}/impacts
func (h *Handler) ServeImpacts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}

	f := impactstore.ListFilter{
		ProjectID:    &id,
		ImpactType:   r.URL.Query().Get("type"),
		VerifiedOnly: r.URL.Query().Get("verified") == "true",
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := h.Impacts.List(ctx, f)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if out == nil {
		out = []models.EnvironmentalImpact{}
	}
	httpjson.Respond(w, http.StatusOK, out)
}
