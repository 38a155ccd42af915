// internal/app/features/schools/school.go
package schools

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/store/schoolstore"
	"github.com/globalclassrooms/classhub/internal/app/system/authz"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/inputval"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// HandleCreate registers a new school with the caller as its admin.
//
// POST /schools
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSchoolRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}

	if !h.authorize(w, r, policy.ActionWrite, policy.EntityClass("school")) {
		return
	}
	actor := authz.Actor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sc, err := h.Schools.Create(ctx, models.School{
		Name:                req.Name,
		Overview:            req.Overview,
		InstitutionType:     req.InstitutionType,
		Affiliation:         req.Affiliation,
		RegistrationNumber:  req.RegistrationNumber,
		YearOfEstablishment: req.YearOfEstablishment,
		AddressLine1:        req.AddressLine1,
		AddressLine2:        req.AddressLine2,
		City:                req.City,
		State:               req.State,
		PostalCode:          req.PostalCode,
		Country:             req.Country,
		PhoneNumber:         req.PhoneNumber,
		Email:               req.Email,
		Website:             req.Website,
		PrincipalName:       req.PrincipalName,
		PrincipalEmail:      req.PrincipalEmail,
		PrincipalPhone:      req.PrincipalPhone,
		NumberOfStudents:    req.NumberOfStudents,
		NumberOfTeachers:    req.NumberOfTeachers,
		MediumOfInstruction: req.MediumOfInstruction,
		AdminID:             actor.ID,
	})
	if err != nil {
		// Duplicate name/registration is bad input, not a conflict: the
		// original rejects it in validation before any write happens.
		if errors.Is(err, schoolstore.ErrDuplicateSchool) || errors.Is(err, schoolstore.ErrDuplicateRegistration) {
			httpjson.BadRequest(w, err.Error())
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}

	h.Log.Info("school created",
		zap.String("school_id", sc.ID.Hex()), zap.String("admin_id", actor.ID.Hex()))
	httpjson.Respond(w, http.StatusCreated, sc)
}

// ServeSchool returns one school. Publicly readable.
//
// GET /schools/{schoolID}
func (h *Handler) ServeSchool(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}

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
	httpjson.Respond(w, http.StatusOK, sc)
}

// ServeList returns a page of active schools. Publicly readable; supports
// q (name prefix), country, and verified filters.
//
// GET /schools
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	var f schoolstore.ListFilter
	f.Query = r.URL.Query().Get("q")
	f.Country = r.URL.Query().Get("country")
	if v := r.URL.Query().Get("verified"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Verified = &b
		}
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, total, err := h.Schools.List(ctx, f, page)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, schoolListResponse{
		Schools: out,
		Meta:    page.MetaFor(total),
	})
}

// HandleUpdate edits a school. Admin and staff only.
//
// PUT /schools/{schoolID}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}

	var req updateSchoolRequest
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

	sc, err := h.Schools.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, schoolstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.SchoolRes{S: *sc}) {
		return
	}

	err = h.Schools.Apply(ctx, id, schoolstore.Update{
		Name:                req.Name,
		Overview:            req.Overview,
		InstitutionType:     req.InstitutionType,
		Affiliation:         req.Affiliation,
		YearOfEstablishment: req.YearOfEstablishment,
		AddressLine1:        req.AddressLine1,
		AddressLine2:        req.AddressLine2,
		City:                req.City,
		State:               req.State,
		PostalCode:          req.PostalCode,
		Country:             req.Country,
		PhoneNumber:         req.PhoneNumber,
		Email:               req.Email,
		Website:             req.Website,
		PrincipalName:       req.PrincipalName,
		PrincipalEmail:      req.PrincipalEmail,
		PrincipalPhone:      req.PrincipalPhone,
		NumberOfStudents:    req.NumberOfStudents,
		NumberOfTeachers:    req.NumberOfTeachers,
		MediumOfInstruction: req.MediumOfInstruction,
	})
	if err != nil {
		if errors.Is(err, schoolstore.ErrDuplicateSchool) {
			httpjson.BadRequest(w, err.Error())
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}

	updated, err := h.Schools.GetByID(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// HandleVerify toggles the verification badge. Staff only.
//
// POST /schools/{schoolID}/verify
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if !authz.IsStaff(r) {
		httpjson.PermissionDenied(w, h.Log, policy.ReasonInsufficientRole)
		return
	}
	id, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}

	var req verifySchoolRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Schools.SetVerified(ctx, id, req.Verified); err != nil {
		if errors.Is(err, schoolstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}

// HandleDeactivate soft-deletes a school. Admin and staff only.
//
// DELETE /schools/{schoolID}
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "schoolID")
	if !ok {
		return
	}

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
	if !h.authorize(w, r, policy.ActionWrite, policy.SchoolRes{S: *sc}) {
		return
	}

	if err := h.Schools.Deactivate(ctx, id); err != nil {
		if errors.Is(err, schoolstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}
