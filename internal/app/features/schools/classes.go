// internal/app/features/schools/classes.go
package schools

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/store/classstore"
	"github.com/globalclassrooms/classhub/internal/app/store/schoolstore"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/inputval"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// HandleCreateClass adds a class to a school. Elevated members of the
// school, the admin, and staff.
//
// POST /schools/{schoolID}/classes
func (h *Handler) HandleCreateClass(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}

	var req classRequest
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

	if _, err := h.Schools.GetByID(ctx, schoolID); err != nil {
		if errors.Is(err, schoolstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}

	prospective := policy.ClassRes{C: models.Class{SchoolID: schoolID}}
	if !h.authorize(w, r, policy.ActionWrite, prospective) {
		return
	}

	cl, err := h.Classes.CreateClass(ctx, schoolID, req.Name, req.Description)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, cl)
}

// ServeClasses lists a school's classes. Any signed-in user.
//
// GET /schools/{schoolID}/classes
func (h *Handler) ServeClasses(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, err := h.Classes.ListClasses(ctx, schoolID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, out)
}

// HandleUpdateClass renames a class or changes its description.
//
// PUT /schools/{schoolID}/classes/{classID}
func (h *Handler) HandleUpdateClass(w http.ResponseWriter, r *http.Request) {
	cl, ok := h.classFromPath(w, r)
	if !ok {
		return
	}

	var req classRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}

	if !h.authorize(w, r, policy.ActionWrite, policy.ClassRes{C: *cl}) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Classes.UpdateClass(ctx, cl.ID, req.Name, req.Description); err != nil {
		if errors.Is(err, classstore.ErrClassNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}

	updated, err := h.Classes.GetClass(ctx, cl.ID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleDeleteClass removes a class.
//
// DELETE /schools/{schoolID}/classes/{classID}
func (h *Handler) HandleDeleteClass(w http.ResponseWriter, r *http.Request) {
	cl, ok := h.classFromPath(w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.ClassRes{C: *cl}) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Classes.DeleteClass(ctx, cl.ID); err != nil {
		if errors.Is(err, classstore.ErrClassNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

// classFromPath loads the class named in the URL and checks it belongs to
// the school in the URL, writing the 404 itself otherwise.
func (h *Handler) classFromPath(w http.ResponseWriter, r *http.Request) (*models.Class, bool) {
	schoolID, ok := pathID(w, r, "schoolID")
	if !ok {
		return nil, false
	}
	classID, ok := pathID(w, r, "classID")
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cl, err := h.Classes.GetClass(ctx, classID)
	if err != nil {
		if errors.Is(err, classstore.ErrClassNotFound) {
			httpjson.NotFound(w)
			return nil, false
		}
		httpjson.Internal(w, h.Log, err)
		return nil, false
	}
	if cl.SchoolID != schoolID {
		httpjson.NotFound(w)
		return nil, false
	}
	return cl, true
}

// objectIDs converts validated hex ids to ObjectIDs.
func objectIDs(hexes []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(hexes))
	for _, hx := range hexes {
		if id, err := primitive.ObjectIDFromHex(hx); err == nil {
			out = append(out, id)
		}
	}
	return out
}
