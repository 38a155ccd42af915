// internal/app/features/projects/updates.go
package projects

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/store/updatestore"
	"github.com/globalclassrooms/classhub/internal/app/system/authz"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/inputval"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// HandleCreateUpdate posts a progress update on behalf of a school in the
// project footprint. Students must be explicit project participants.
//
// POST /projects/{projectID}/updates
func (h *Handler) HandleCreateUpdate(w http.ResponseWriter, r *http.Request) {
	var req projectUpdateRequest
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
	actor := authz.Actor(r)

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

	prospective := policy.UpdateRes{
		U:     models.ProjectUpdate{ProjectID: p.ID, SchoolID: schoolID},
		Scope: scope,
	}
	if !h.authorize(w, r, policy.ActionWrite, prospective) {
		return
	}

	media := make([]models.UpdateMedia, 0, len(req.Media))
	for _, m := range req.Media {
		media = append(media, models.UpdateMedia{URL: m.URL, MediaType: m.MediaType})
	}

	u, err := h.Updates.Create(ctx, models.ProjectUpdate{
		ProjectID:   p.ID,
		SchoolID:    schoolID,
		UploadedBy:  actor.ID,
		Description: req.Description,
		Media:       media,
	})
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, u)
}

// HandleDeleteUpdate removes an update.
//
// DELETE /projects/{projectID}/updates/{updateID}
func (h *Handler) HandleDeleteUpdate(w http.ResponseWriter, r *http.Request) {
	updateID, ok := pathID(w, r, "updateID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, scope, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}

	u, err := h.Updates.GetByID(ctx, updateID)
	if err != nil {
		if errors.Is(err, updatestore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if u.ProjectID != p.ID {
		httpjson.NotFound(w)
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.UpdateRes{U: *u, Scope: scope}) {
		return
	}

	if err := h.Updates.Delete(ctx, updateID); err != nil {
		if errors.Is(err, updatestore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

// ServeUpdates pages through a project's updates, newest first. Publicly
// readable.
//
// GET /projects/{projectID}/updates
func (h *Handler) ServeUpdates(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, total, err := h.Updates.ListByProject(ctx, id, page)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, updateListResponse{
		Updates: out,
		Meta:    page.MetaFor(total),
	})
}
