// internal/app/features/schools/profiles.go
package schools

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/store/classstore"
	"github.com/globalclassrooms/classhub/internal/app/store/membershipstore"
	"github.com/globalclassrooms/classhub/internal/app/store/profilestore"
	"github.com/globalclassrooms/classhub/internal/app/system/authz"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/inputval"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// requireSchoolRelationship gates member-scoped reads: the caller must be
// a member or the admin of the school, or staff.
func (h *Handler) requireSchoolRelationship(ctx context.Context, w http.ResponseWriter, r *http.Request, schoolID primitive.ObjectID) bool {
	actor := authz.Actor(r)
	if actor.Staff() {
		return true
	}
	role, err := h.Resolver.RoleInSchool(ctx, actor.ID, schoolID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return false
	}
	if role == membershipstore.SchoolRoleNone {
		httpjson.PermissionDenied(w, h.Log, policy.ReasonNoRelationship)
		return false
	}
	return true
}

// HandleCreateTeacherProfile creates the per-school teacher profile for a
// member of the school.
//
// POST /schools/{schoolID}/teachers
func (h *Handler) HandleCreateTeacherProfile(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}

	var req teacherProfileRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.BadRequest(w, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	role, err := h.Resolver.RoleInSchool(ctx, userID, schoolID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if role == membershipstore.SchoolRoleNone {
		httpjson.BadRequest(w, "user is not a member of this school")
		return
	}

	prospective := policy.TeacherProfileRes{P: models.TeacherProfile{
		UserID:   userID,
		SchoolID: schoolID,
	}}
	if !h.authorize(w, r, policy.ActionWrite, prospective) {
		return
	}

	p, err := h.Profiles.CreateTeacher(ctx, models.TeacherProfile{
		UserID:      userID,
		SchoolID:    schoolID,
		TeacherRole: req.TeacherRole,
	})
	if err != nil {
		if errors.Is(err, profilestore.ErrDuplicateProfile) {
			httpjson.Conflict(w, err.Error())
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, p)
}

// HandleUpdateTeacherProfile sets role, status, and assignments on an
// existing teacher profile.
//
// PUT /schools/{schoolID}/teachers/{userID}
func (h *Handler) HandleUpdateTeacherProfile(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	var req updateTeacherProfileRequest
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

	p, err := h.Profiles.GetTeacher(ctx, userID, schoolID)
	if err != nil {
		if errors.Is(err, profilestore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.TeacherProfileRes{P: *p}) {
		return
	}

	err = h.Profiles.UpdateTeacher(ctx, p.ID, req.TeacherRole, req.Status,
		objectIDs(req.AssignedSubjects), objectIDs(req.AssignedClasses))
	if err != nil {
		if errors.Is(err, profilestore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}

	updated, err := h.Profiles.GetTeacher(ctx, userID, schoolID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// ServeTeacherProfiles lists the teacher profiles at a school. Members,
// the admin, and staff.
//
// GET /schools/{schoolID}/teachers
func (h *Handler) ServeTeacherProfiles(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireSchoolRelationship(ctx, w, r, schoolID) {
		return
	}

	out, err := h.Profiles.ListTeachers(ctx, schoolID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, out)
}

// HandleTeacherJoin resolves a teacher invitation link and joins the
// caller to the inviting school.
//
// POST /schools/teachers/join/{joinLink}
func (h *Handler) HandleTeacherJoin(w http.ResponseWriter, r *http.Request) {
	link := chi.URLParam(r, "joinLink")
	if link == "" {
		httpjson.NotFound(w)
		return
	}
	actor := authz.Actor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Profiles.GetTeacherByJoinLink(ctx, link)
	if err != nil {
		if errors.Is(err, profilestore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}

	m, err := h.Memberships.Join(ctx, actor.ID, p.SchoolID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}

	h.Log.Info("teacher invite accepted",
		zap.String("user_id", actor.ID.Hex()), zap.String("school_id", p.SchoolID.Hex()))
	httpjson.Respond(w, http.StatusOK, m)
}

// HandleCreateStudentProfile enrolls a student at a school.
//
// POST /schools/{schoolID}/students
func (h *Handler) HandleCreateStudentProfile(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}

	var req studentProfileRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.BadRequest(w, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	role, err := h.Resolver.RoleInSchool(ctx, userID, schoolID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if role == membershipstore.SchoolRoleNone {
		httpjson.BadRequest(w, "user is not a member of this school")
		return
	}

	prospective := policy.StudentProfileRes{P: models.StudentProfile{
		UserID:   userID,
		SchoolID: schoolID,
	}}
	if !h.authorize(w, r, policy.ActionWrite, prospective) {
		return
	}

	profile := models.StudentProfile{
		UserID:      userID,
		SchoolID:    schoolID,
		StudentID:   req.StudentID,
		ParentName:  req.ParentName,
		ParentEmail: req.ParentEmail,
		ParentPhone: req.ParentPhone,
	}
	if req.ClassID != "" {
		classID, cerr := primitive.ObjectIDFromHex(req.ClassID)
		if cerr != nil {
			httpjson.BadRequest(w, "invalid class id")
			return
		}
		cl, cerr := h.Classes.GetClass(ctx, classID)
		if cerr != nil || cl.SchoolID != schoolID {
			httpjson.BadRequest(w, "class does not belong to this school")
			return
		}
		profile.CurrentClassID = &classID
	}

	p, err := h.Profiles.CreateStudent(ctx, profile)
	if err != nil {
		if errors.Is(err, profilestore.ErrDuplicateProfile) {
			httpjson.Conflict(w, err.Error())
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, p)
}

// ServeStudentProfiles lists student profiles at a school, optionally
// narrowed to one class via ?class=. Members, the admin, and staff.
//
// GET /schools/{schoolID}/students
func (h *Handler) ServeStudentProfiles(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireSchoolRelationship(ctx, w, r, schoolID) {
		return
	}

	var classID *primitive.ObjectID
	if v := r.URL.Query().Get("class"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			httpjson.BadRequest(w, "invalid class id")
			return
		}
		classID = &id
	}

	out, err := h.Profiles.ListStudents(ctx, schoolID, classID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, out)
}

// HandleAssignClass moves a student into a class at their school.
//
// POST /schools/{schoolID}/students/{userID}/class
func (h *Handler) HandleAssignClass(w http.ResponseWriter, r *http.Request) {
	schoolID, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	var req assignClassRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}
	classID, err := primitive.ObjectIDFromHex(req.ClassID)
	if err != nil {
		httpjson.BadRequest(w, "invalid class id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Profiles.GetStudent(ctx, userID, schoolID)
	if err != nil {
		if errors.Is(err, profilestore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.StudentProfileRes{P: *p}) {
		return
	}

	cl, err := h.Classes.GetClass(ctx, classID)
	if err != nil {
		if errors.Is(err, classstore.ErrClassNotFound) {
			httpjson.BadRequest(w, "class does not belong to this school")
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if cl.SchoolID != schoolID {
		httpjson.BadRequest(w, "class does not belong to this school")
		return
	}

	if err := h.Profiles.AssignClass(ctx, p.ID, classID); err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}
