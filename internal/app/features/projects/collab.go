// internal/app/features/projects/collab.go
//
// School-level participation and individual student participants.
package projects

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/store/participantstore"
	"github.com/globalclassrooms/classhub/internal/app/store/participationstore"
	"github.com/globalclassrooms/classhub/internal/app/system/authz"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/inputval"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// HandleJoin records a school joining a project. Without an explicit
// school_id the caller's first active school is used.
//
// POST /projects/{projectID}/join
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinProjectRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}
	actor := authz.Actor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, _, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}
	if !p.IsOpenForCollaboration {
		httpjson.BadRequest(w, "project is not open for collaboration")
		return
	}
	if p.Status != models.ProjectActive {
		httpjson.BadRequest(w, "project is not active")
		return
	}

	var schoolID primitive.ObjectID
	if req.SchoolID != "" {
		id, err := primitive.ObjectIDFromHex(req.SchoolID)
		if err != nil {
			httpjson.BadRequest(w, "invalid school id")
			return
		}
		schoolID = id
	} else {
		schools, err := h.Resolver.ActiveSchoolIDs(ctx, actor.ID)
		if err != nil {
			httpjson.Internal(w, h.Log, err)
			return
		}
		for id := range schools {
			schoolID = id
			break
		}
		if schoolID.IsZero() {
			httpjson.BadRequest(w, "you have no active school membership")
			return
		}
	}
	if schoolID == p.LeadSchoolID {
		httpjson.BadRequest(w, "the lead school already participates")
		return
	}

	prospective := policy.ParticipationRes{P: models.ProjectParticipation{
		ProjectID: p.ID,
		SchoolID:  schoolID,
	}}
	if !h.authorize(w, r, policy.ActionWrite, prospective) {
		return
	}

	part, err := h.Participations.Join(ctx, p.ID, schoolID, req.Contribution)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}

	h.Log.Info("school joined project",
		zap.String("project_id", p.ID.Hex()), zap.String("school_id", schoolID.Hex()))
	httpjson.Respond(w, http.StatusOK, part)
}

// HandleWithdraw deactivates a school's participation.
//
// POST /projects/{projectID}/withdraw
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
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

	p, _, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}

	part, err := h.Participations.Get(ctx, p.ID, schoolID)
	if err != nil {
		if errors.Is(err, participationstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.ParticipationRes{P: *part}) {
		return
	}

	if err := h.Participations.Withdraw(ctx, p.ID, schoolID); err != nil {
		if errors.Is(err, participationstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

// ServeParticipations lists the schools participating in a project.
// Publicly readable.
//
// GET /projects/{projectID}/participations
func (h *Handler) ServeParticipations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := h.Participations.ListByProject(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if out == nil {
		out = []models.ProjectParticipation{}
	}
	httpjson.Respond(w, http.StatusOK, out)
}

// HandleAddParticipant adds a student to a project. Actors who are not
// staff and not from the lead school may only add students they share a
// school with.
//
// POST /projects/{projectID}/participants
func (h *Handler) HandleAddParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}
	studentID, err := primitive.ObjectIDFromHex(req.StudentID)
	if err != nil {
		httpjson.BadRequest(w, "invalid student id")
		return
	}
	classID, err := primitive.ObjectIDFromHex(req.ClassID)
	if err != nil {
		httpjson.BadRequest(w, "invalid class id")
		return
	}
	actor := authz.Actor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, scope, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}

	prospective := policy.ParticipantRes{
		P:     models.ProjectParticipant{ProjectID: p.ID, StudentID: studentID},
		Scope: scope,
	}
	if !h.authorize(w, r, policy.ActionWrite, prospective) {
		return
	}

	// The student's school must be part of the project footprint.
	studentSchools, err := h.Resolver.ActiveSchoolIDs(ctx, studentID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	inScope := false
	for _, sid := range append([]primitive.ObjectID{scope.LeadSchoolID}, scope.ParticipatingSchools...) {
		if _, found := studentSchools[sid]; found {
			inScope = true
			break
		}
	}
	if !inScope {
		httpjson.BadRequest(w, "student's school is not part of this project")
		return
	}

	// Lead-school actors (active members or the admin) manage the whole
	// roster; everyone else may only add students from their own schools.
	if !actor.Staff() {
		actorSchools, serr := h.Resolver.ActiveSchoolIDs(ctx, actor.ID)
		if serr != nil {
			httpjson.Internal(w, h.Log, serr)
			return
		}
		_, leadActor := actorSchools[scope.LeadSchoolID]
		if !leadActor {
			leadAdmin, aerr := h.Resolver.IsSchoolAdmin(ctx, actor.ID, scope.LeadSchoolID)
			if aerr != nil {
				httpjson.Internal(w, h.Log, aerr)
				return
			}
			leadActor = leadAdmin
		}
		if !leadActor {
			shared := false
			for sid := range actorSchools {
				if _, found := studentSchools[sid]; found {
					shared = true
					break
				}
			}
			if !shared {
				httpjson.PermissionDenied(w, h.Log, policy.ReasonNoRelationship)
				return
			}
		}
	}

	part, err := h.Participants.Add(ctx, p.ID, studentID, classID, actor.ID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, part)
}

// HandleRemoveParticipant deactivates a student's participation.
//
// DELETE /projects/{projectID}/participants/{studentID}
func (h *Handler) HandleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathID(w, r, "studentID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, scope, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}

	part, err := h.Participants.Get(ctx, p.ID, studentID)
	if err != nil {
		if errors.Is(err, participantstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.ParticipantRes{P: *part, Scope: scope}) {
		return
	}

	if err := h.Participants.Remove(ctx, p.ID, studentID); err != nil {
		if errors.Is(err, participantstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

// ServeParticipants pages through a project's student participants. Any
// signed-in user.
//
// GET /projects/{projectID}/participants
func (h *Handler) ServeParticipants(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, total, err := h.Participants.ListByProject(ctx, id, page)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, participantListResponse{
		Participants: out,
		Meta:         page.MetaFor(total),
	})
}
