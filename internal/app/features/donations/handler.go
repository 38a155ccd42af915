// Package donations exposes the donation flow: anonymous creation, the
// payment lifecycle driven by staff (or a payment webhook upstream), and
// public listings restricted to completed donations.
package donations

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/store/donationstore"
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
	DB        *mongo.Database
	Log       *zap.Logger
	Donations *donationstore.Store
	Users     *userstore.Store
	Engine    *policy.Engine
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		Donations: donationstore.New(db),
		Users:     userstore.New(db),
		Engine:    policy.NewEngine(membershipstore.NewResolver(db)),
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

type donationRequest struct {
	DonorName     string  `json:"donor_name" validate:"required,max=200" label:"Donor name"`
	DonorEmail    string  `json:"donor_email" validate:"required,email" label:"Donor email"`
	Amount        float64 `json:"amount" validate:"required,gt=0" label:"Amount"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=card paypal bank_transfer goodcollective" label:"Payment method"`
	Purpose       string  `json:"purpose" validate:"required,oneof=general trees water_conservation education technology" label:"Purpose"`

	RecipientName  string `json:"recipient_name" validate:"omitempty,max=200" label:"Recipient name"`
	SendECard      bool   `json:"send_ecard"`
	RecipientEmail string `json:"recipient_email" validate:"omitempty,email" label:"Recipient email"`
	Message        string `json:"message" validate:"omitempty,max=2000" label:"Message"`
}

type transitionRequest struct {
	Status    string `json:"status" validate:"required,oneof=pending completed failed refunded" label:"Status"`
	PaymentID string `json:"payment_id" validate:"omitempty,max=200" label:"Payment ID"`
}

type donationListResponse struct {
	Donations []models.Donation `json:"donations"`
	Meta      paging.Meta       `json:"meta"`
}

// HandleCreate records a pending donation. Anonymous visitors may donate.
//
// POST /donations
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		httpjson.ValidationError(w, res.Details())
		return
	}
	if !h.authorize(w, r, policy.ActionWrite, policy.EntityClass("donation")) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, err := h.Donations.Create(ctx, models.Donation{
		DonorName:      req.DonorName,
		DonorEmail:     req.DonorEmail,
		Amount:         req.Amount,
		PaymentMethod:  req.PaymentMethod,
		Purpose:        req.Purpose,
		RecipientName:  req.RecipientName,
		SendECard:      req.SendECard,
		RecipientEmail: req.RecipientEmail,
		Message:        req.Message,
	})
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}

	h.Log.Info("donation created",
		zap.String("donation_id", d.ID.Hex()), zap.Float64("amount", d.Amount))
	httpjson.Respond(w, http.StatusCreated, d)
}

// ServeDonation returns one donation. Pending, failed, and refunded
// donations are only visible to staff.
//
// GET /donations/{donationID}
func (h *Handler) ServeDonation(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "donationID"))
	if err != nil {
		httpjson.NotFound(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, err := h.Donations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, donationstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}
	if !h.authorize(w, r, policy.ActionRead, policy.DonationRes{D: *d}) {
		return
	}
	httpjson.Respond(w, http.StatusOK, d)
}

// ServeList pages through donations. The public view carries completed
// donations only; staff may filter by any payment status.
//
// GET /donations
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		out   []models.Donation
		total int64
		err   error
	)
	if authz.IsStaff(r) {
		out, total, err = h.Donations.ListAll(ctx, r.URL.Query().Get("status"), page)
	} else {
		out, total, err = h.Donations.ListCompleted(ctx, page)
	}
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, donationListResponse{
		Donations: out,
		Meta:      page.MetaFor(total),
	})
}

// ServeMine returns the signed-in user's donations, matched on the
// account email.
//
// GET /donations/mine
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w, "sign in required")
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}

	out, total, err := h.Donations.ListByEmail(ctx, u.Email, page)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, donationListResponse{
		Donations: out,
		Meta:      page.MetaFor(total),
	})
}

// HandleTransition moves a donation through the payment lifecycle. Staff
// only; payment providers land here through the ops tooling.
//
// POST /donations/{donationID}/status
func (h *Handler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	if !authz.IsStaff(r) {
		httpjson.PermissionDenied(w, h.Log, policy.ReasonInsufficientRole)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "donationID"))
	if err != nil {
		httpjson.NotFound(w)
		return
	}

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

	if err := h.Donations.Transition(ctx, id, req.Status, req.PaymentID); err != nil {
		if errors.Is(err, donationstore.ErrBadTransition) {
			httpjson.Conflict(w, err.Error())
			return
		}
		if errors.Is(err, donationstore.ErrNotFound) {
			httpjson.NotFound(w)
			return
		}
		httpjson.Internal(w, h.Log, err)
		return
	}

	h.Log.Info("donation status changed",
		zap.String("donation_id", id.Hex()), zap.String("to", req.Status))

	updated, err := h.Donations.GetByID(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, updated)
}

// ServeStats summarizes completed donations. Public.
//
// GET /donations/stats
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	stats, err := h.Donations.CompletedStats(ctx)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, stats)
}
