// internal/app/features/projects/project.go
package projects

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/store/membershipstore"
	"github.com/globalclassrooms/classhub/internal/app/store/projectstore"
	"github.com/globalclassrooms/classhub/internal/app/system/authz"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/inputval"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// HandleCreate starts a new project in draft status. The caller needs an
// elevated role and a relationship to the lead school.
//
// POST /projects
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}
	leadSchoolID, err := primitive.ObjectIDFromHex(req.LeadSchoolID)
	if err != nil {
		httpjson.BadRequest(w, "invalid lead school id")
		return
	}

	if !h.authorize(w, r, policy.ActionWrite, policy.EntityClass("project")) {
		return
	}
	actor := authz.Actor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// The lead school must be one the caller belongs to or administers.
	if !actor.Staff() {
		role, rerr := h.Resolver.RoleInSchool(ctx, actor.ID, leadSchoolID)
		if rerr != nil {
			httpjson.Internal(w, h.Log, rerr)
			return
		}
		if role == membershipstore.SchoolRoleNone {
			httpjson.PermissionDenied(w, h.Log, policy.ReasonNoRelationship)
			return
		}
	}

	p, err := h.Projects.Create(ctx, models.Project{
		Title:                  req.Title,
		ShortDescription:       req.ShortDescription,
		DetailedDescription:    req.DetailedDescription,
		EnvironmentalThemes:    req.EnvironmentalThemes,
		StartDate:              req.StartDate,
		EndDate:                req.EndDate,
		IsOpenForCollaboration: req.IsOpenForCollaboration,
		OfferRewards:           req.OfferRewards,
		RecognitionType:        req.RecognitionType,
		AwardCriteria:          req.AwardCriteria,
		LeadSchoolID:           leadSchoolID,
		ContactPersonName:      req.ContactPersonName,
		ContactPersonEmail:     req.ContactPersonEmail,
		ContactPersonRole:      req.ContactPersonRole,
		ContactCountry:         req.ContactCountry,
		ContactCity:            req.ContactCity,
		CreatedBy:              actor.ID,
	})
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}

	h.Log.Info("project created",
		zap.String("project_id", p.ID.Hex()), zap.String("lead_school_id", leadSchoolID.Hex()))
	httpjson.Respond(w, http.StatusCreated, p)
}

// ServeProject returns one project. Publicly readable.
//
// GET /projects/{projectID}
func (h *Handler) ServeProject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, _, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}
	httpjson.Respond(w, http.StatusOK, p)
}

// ServeList returns a page of projects. Publicly readable; supports q
// (title prefix), status, theme, school, featured, and open filters.
//
// GET /projects
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := projectstore.ListFilter{
		Query:        q.Get("q"),
		Status:       q.Get("status"),
		Theme:        q.Get("theme"),
		FeaturedOnly: q.Get("featured") == "true",
		OpenOnly:     q.Get("open") == "true",
	}
	if v := q.Get("school"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			httpjson.BadRequest(w, "invalid school id")
			return
		}
		f.LeadSchoolID = &id
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, total, err := h.Projects.List(ctx, f, page)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, projectListResponse{
		Projects: out,
		Meta:     page.MetaFor(total),
	})
}

// HandleUpdate edits a project's descriptive fields.
//
// PUT /projects/{projectID}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
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

	p, scope, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.ProjectRes{P: *p, Scope: scope}) {
		return
	}

	err := h.Projects.Apply(ctx, p.ID, projectstore.Update{
		Title:                  req.Title,
		ShortDescription:       req.ShortDescription,
		DetailedDescription:    req.DetailedDescription,
		EnvironmentalThemes:    req.EnvironmentalThemes,
		StartDate:              req.StartDate,
		EndDate:                req.EndDate,
		IsOpenForCollaboration: req.IsOpenForCollaboration,
		OfferRewards:           req.OfferRewards,
		RecognitionType:        req.RecognitionType,
		AwardCriteria:          req.AwardCriteria,
		ContactPersonName:      req.ContactPersonName,
		ContactPersonEmail:     req.ContactPersonEmail,
		ContactPersonRole:      req.ContactPersonRole,
		ContactCountry:         req.ContactCountry,
		ContactCity:            req.ContactCity,
	})
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}

	updated, err := h.Projects.GetByID(ctx, p.ID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleTransition moves a project through its lifecycle. Approval into
// active status is reserved for staff; every other legal transition needs
// write access to the project.
//
// POST /projects/{projectID}/status
func (h *Handler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
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

	p, scope, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}

	if req.Status == models.ProjectActive && !authz.IsStaff(r) {
		httpjson.PermissionDenied(w, h.Log, policy.ReasonInsufficientRole)
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.ProjectRes{P: *p, Scope: scope}) {
		return
	}

	if err := h.Projects.Transition(ctx, p.ID, req.Status); err != nil {
		if errors.Is(err, projectstore.ErrBadTransition) {
			httpjson.Conflict(w, err.Error())
			return
		}
		if errors.Is(err, projectstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}

	h.Log.Info("project status changed",
		zap.String("project_id", p.ID.Hex()),
		zap.String("from", p.Status), zap.String("to", req.Status))

	updated, err := h.Projects.GetByID(ctx, p.ID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleFeature toggles the featured flag. Staff only.
//
// POST /projects/{projectID}/feature
func (h *Handler) HandleFeature(w http.ResponseWriter, r *http.Request) {
	if !authz.IsStaff(r) {
		httpjson.PermissionDenied(w, h.Log, policy.ReasonInsufficientRole)
		return
	}
	id, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}

	var req featureRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Projects.SetFeatured(ctx, id, req.Featured); err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

// HandleAddGoal appends a goal to a project.
//
// POST /projects/{projectID}/goals
func (h *Handler) HandleAddGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
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

	p, scope, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.ProjectRes{P: *p, Scope: scope}) {
		return
	}

	g, err := h.Projects.AddGoal(ctx, p.ID, req.Description)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, g)
}

// HandleCompleteGoal marks a goal done.
//
// POST /projects/{projectID}/goals/{goalID}/complete
func (h *Handler) HandleCompleteGoal(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathID(w, r, "goalID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, scope, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.ProjectRes{P: *p, Scope: scope}) {
		return
	}

	if err := h.Projects.CompleteGoal(ctx, goalID); err != nil {
		if errors.Is(err, projectstore.ErrGoalNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

// ServeGoals lists a project's goals. Publicly readable.
//
// GET /projects/{projectID}/goals
func (h *Handler) ServeGoals(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := h.Projects.ListGoals(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if out == nil {
		out = []models.ProjectGoal{}
	}
	httpjson.Respond(w, http.StatusOK, out)
}

// HandleAddFile links a supporting document to a project.
//
// POST /projects/{projectID}/files
func (h *Handler) HandleAddFile(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
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

	p, scope, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.ProjectRes{P: *p, Scope: scope}) {
		return
	}

	f, err := h.Projects.AddFile(ctx, models.ProjectFile{
		ProjectID:   p.ID,
		FileName:    req.FileName,
		FileURL:     req.FileURL,
		Description: req.Description,
	})
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, f)
}

// ServeFiles lists a project's supporting documents. Publicly readable.
//
// GET /projects/{projectID}/files
func (h *Handler) ServeFiles(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := h.Projects.ListFiles(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if out == nil {
		out = []models.ProjectFile{}
	}
	httpjson.Respond(w, http.StatusOK, out)
}

// HandleRemoveFile deletes a file reference.
//
// DELETE /projects/{projectID}/files/{fileID}
func (h *Handler) HandleRemoveFile(w http.ResponseWriter, r *http.Request) {
	fileID, ok := pathID(w, r, "fileID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, scope, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.ProjectRes{P: *p, Scope: scope}) {
		return
	}

	if err := h.Projects.RemoveFile(ctx, fileID); err != nil {
		if errors.Is(err, projectstore.ErrFileNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}
