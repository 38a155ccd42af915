// Package subjects exposes the global subject catalog. Subjects are shared
// across all schools; any elevated role may add to the catalog, and only
// staff-level cleanup removes from it in practice.
package subjects

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/store/classstore"
	"github.com/globalclassrooms/classhub/internal/app/store/membershipstore"
	"github.com/globalclassrooms/classhub/internal/app/system/authz"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/inputval"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Store  *classstore.Store
	Engine *policy.Engine
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		Store:  classstore.New(db),
		Engine: policy.NewEngine(membershipstore.NewResolver(db)),
	}
}

type subjectRequest struct {
	Name        string `json:"name" validate:"required,max=100" label:"Name"`
	Description string `json:"description" validate:"omitempty,max=1000" label:"Description"`
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, res policy.Resource) bool {
	dec, err := h.Engine.Authorize(r.Context(), authz.Actor(r), policy.ActionWrite, res)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return false
	}
	if !dec.Allowed {
		httpjson.PermissionDenied(w, h.Log, dec.Reason)
		return false
	}
	return true
}

// HandleCreate adds a subject to the catalog. Elevated roles only.
//
// POST /subjects
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}

	if !h.authorize(w, r, policy.SubjectRes{}) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sub, err := h.Store.CreateSubject(ctx, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, classstore.ErrDuplicateSubject) {
			httpjson.Conflict(w, err.Error())
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, sub)
}

// ServeList returns the active catalog. Publicly readable.
//
// GET /subjects
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := h.Store.ListSubjects(ctx)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if out == nil {
		out = []models.Subject{}
	}
	httpjson.Respond(w, http.StatusOK, out)
}

// ServeSubject returns one subject.
//
// GET /subjects/{subjectID}
func (h *Handler) ServeSubject(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "subjectID"))
	if err != nil {
		httpjson.NotFound(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sub, err := h.Store.GetSubject(ctx, id)
	if err != nil {
		if errors.Is(err, classstore.ErrSubjectNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, sub)
}

// HandleDeactivate retires a subject from the catalog.
//
// DELETE /subjects/{subjectID}
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "subjectID"))
	if err != nil {
		httpjson.NotFound(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sub, err := h.Store.GetSubject(ctx, id)
	if err != nil {
		if errors.Is(err, classstore.ErrSubjectNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if !h.authorize(w, r, policy.SubjectRes{S: *sub}) {
		return
	}

	if err := h.Store.DeactivateSubject(ctx, id); err != nil {
		if errors.Is(err, classstore.ErrSubjectNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}
