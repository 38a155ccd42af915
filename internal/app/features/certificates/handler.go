// Package certificates issues and verifies award certificates. Recipients
// get read-only access to their own awards; issuers and staff keep full
// control. Anyone holding a verification code can confirm authenticity.
package certificates

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/store/certificatestore"
	"github.com/globalclassrooms/classhub/internal/app/store/membershipstore"
	"github.com/globalclassrooms/classhub/internal/app/store/userstore"
	"github.com/globalclassrooms/classhub/internal/app/system/authz"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/inputval"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

type Handler struct {
	DB           *mongo.Database
	Log          *zap.Logger
	Certificates *certificatestore.Store
	Users        *userstore.Store
	Engine       *policy.Engine
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		Certificates: certificatestore.New(db),
		Users:        userstore.New(db),
		Engine:       policy.NewEngine(membershipstore.NewResolver(db)),
	}
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, action policy.Action, res policy.Resource) bool {
	dec, err := h.Engine.Authorize(r.Context(), authz.Actor(r), action, res)
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

type issueRequest struct {
	RecipientID     string `json:"recipient_id" validate:"required,objectid" label:"Recipient"`
	CertificateType string `json:"certificate_type" validate:"required,oneof=project_completion environmental_impact collaboration leadership honor" label:"Certificate type"`
	Title           string `json:"title" validate:"required,max=200" label:"Title"`
	Description     string `json:"description" validate:"required,max=2000" label:"Description"`
	ProjectID       string `json:"project_id" validate:"omitempty,objectid" label:"Project"`
	TemplateURL     string `json:"template_url" validate:"omitempty,httpurl" label:"Template URL"`
	BackgroundColor string `json:"background_color" validate:"omitempty,hexcolor" label:"Background color"`
}

type certificateListResponse struct {
	Certificates []models.Certificate `json:"certificates"`
	Meta         paging.Meta          `json:"meta"`
}

// HandleIssue awards a certificate to a user.
//
// POST /certificates
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}
	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		httpjson.BadRequest(w, "invalid recipient id")
		return
	}

	if !h.authorize(w, r, policy.ActionWrite, policy.EntityClass("certificate")) {
		return
	}
	actor := authz.Actor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Users.GetByID(ctx, recipientID); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.BadRequest(w, "recipient does not exist")
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}

	cert := models.Certificate{
		RecipientID:     recipientID,
		CertificateType: req.CertificateType,
		Title:           req.Title,
		Description:     req.Description,
		TemplateURL:     req.TemplateURL,
		BackgroundColor: req.BackgroundColor,
		IssuedBy:        actor.ID,
	}
	if req.ProjectID != "" {
		pid, perr := primitive.ObjectIDFromHex(req.ProjectID)
		if perr != nil {
			httpjson.BadRequest(w, "invalid project id")
			return
		}
		cert.ProjectID = &pid
	}

	issued, err := h.Certificates.Issue(ctx, cert)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}

	h.Log.Info("certificate issued",
		zap.String("certificate_id", issued.ID.Hex()),
		zap.String("recipient_id", recipientID.Hex()))
	httpjson.Respond(w, http.StatusCreated, issued)
}

// ServeCertificate returns one certificate. Recipient, issuer, or staff.
//
// GET /certificates/{certificateID}
func (h *Handler) ServeCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "certificateID"))
	if err != nil {
		httpjson.NotFound(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cert, err := h.Certificates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, certificatestore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if !h.authorize(w, r, policy.ActionRead, policy.CertificateRes{C: *cert}) {
		return
	}
	httpjson.Respond(w, http.StatusOK, cert)
}

// ServeMine lists the signed-in user's awards.
//
// GET /certificates/mine
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w, "sign in required")
		return
	}
	h.serveList(w, r, func(ctx context.Context, page paging.Page) ([]models.Certificate, int64, error) {
		return h.Certificates.ListByRecipient(ctx, userID, page)
	})
}

// ServeIssued lists certificates the signed-in user has issued.
//
// GET /certificates/issued
func (h *Handler) ServeIssued(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w, "sign in required")
		return
	}
	h.serveList(w, r, func(ctx context.Context, page paging.Page) ([]models.Certificate, int64, error) {
		return h.Certificates.ListByIssuer(ctx, userID, page)
	})
}

func (h *Handler) serveList(w http.ResponseWriter, r *http.Request, fetch func(context.Context, paging.Page) ([]models.Certificate, int64, error)) {
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	out, total, err := fetch(ctx, page)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	if out == nil {
		out = []models.Certificate{}
	}
	httpjson.Respond(w, http.StatusOK, certificateListResponse{
		Certificates: out,
		Meta:         page.MetaFor(total),
	})
}

// ServeVerify resolves a verification code. Public: the code itself is the
// credential.
//
// GET /certificates/verify/{code}
func (h *Handler) ServeVerify(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		httpjson.NotFound(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cert, err := h.Certificates.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, certificatestore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, cert)
}

// HandleRevoke deletes a certificate. Issuer or staff; recipients hold
// read-only access.
//
// DELETE /certificates/{certificateID}
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "certificateID"))
	if err != nil {
		httpjson.NotFound(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cert, err := h.Certificates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, certificatestore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.CertificateRes{C: *cert}) {
		return
	}

	if err := h.Certificates.Revoke(ctx, id); err != nil {
		if errors.Is(err, certificatestore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}

	h.Log.Info("certificate revoked", zap.String("certificate_id", id.Hex()))
	httpjson.Respond(w, http.StatusNoContent, nil)
}
