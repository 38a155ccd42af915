package donations_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/features/donations"
	"github.com/globalclassrooms/classhub/internal/domain/models"
	"github.com/globalclassrooms/classhub/internal/testutil"
)

func donationBody(email string) map[string]any {
	return map[string]any{
		"donor_name":     "Dana Donor",
		"donor_email":    email,
		"amount":         50.0,
		"payment_method": "card",
		"purpose":        "trees",
	}
}

func TestAnonymousDonationLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := donations.NewHandler(db, zap.NewNop())

	// no identity on the request at all
	req := testutil.NewJSONRequest(t, http.MethodPost, "/donations", donationBody("dana@test.com"))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("anonymous create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var d models.Donation
	testutil.DecodeJSON(t, rec, &d)
	if d.PaymentStatus != models.PaymentPending {
		t.Errorf("new donation status = %q, want pending", d.PaymentStatus)
	}

	// a pending donation is invisible to the public
	req = testutil.NewRequest(http.MethodGet, "/donations/"+d.ID.Hex())
	req = testutil.WithChiURLParam(req, "donationID", d.ID.Hex())
	rec = httptest.NewRecorder()
	h.ServeDonation(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("anonymous read of pending status = %d, want 403", rec.Code)
	}

	// completion is staff work
	transition := func(user testutil.TestUser, status string) *httptest.ResponseRecorder {
		req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost,
			"/donations/"+d.ID.Hex()+"/status",
			map[string]any{"status": status, "payment_id": "pay_123"}, user)
		req = testutil.WithChiURLParam(req, "donationID", d.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleTransition(rec, req)
		return rec
	}

	if rec := transition(testutil.TeacherUser(), models.PaymentCompleted); rec.Code != http.StatusForbidden {
		t.Errorf("teacher transition status = %d, want 403", rec.Code)
	}
	if rec := transition(testutil.StaffUser(), models.PaymentCompleted); rec.Code != http.StatusOK {
		t.Fatalf("staff transition status = %d, body %s", rec.Code, rec.Body.String())
	}

	// completed donations cannot go back to pending
	if rec := transition(testutil.StaffUser(), models.PaymentPending); rec.Code != http.StatusConflict {
		t.Errorf("illegal transition status = %d, want 409", rec.Code)
	}

	// now the public can see it
	req = testutil.NewRequest(http.MethodGet, "/donations/"+d.ID.Hex())
	req = testutil.WithChiURLParam(req, "donationID", d.ID.Hex())
	rec = httptest.NewRecorder()
	h.ServeDonation(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous read of completed status = %d, want 200", rec.Code)
	}
}

func TestPublicListShowsCompletedOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := donations.NewHandler(db, zap.NewNop())

	create := func(email string) models.Donation {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/donations", donationBody(email))
		rec := httptest.NewRecorder()
		h.HandleCreate(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d", rec.Code)
		}
		var d models.Donation
		testutil.DecodeJSON(t, rec, &d)
		return d
	}

	first := create("one@test.com")
	create("two@test.com")

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost,
		"/donations/"+first.ID.Hex()+"/status",
		map[string]any{"status": models.PaymentCompleted}, testutil.StaffUser())
	req = testutil.WithChiURLParam(req, "donationID", first.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleTransition(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("transition status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Donations []models.Donation `json:"donations"`
	}

	req = testutil.NewRequest(http.MethodGet, "/donations")
	rec = httptest.NewRecorder()
	h.ServeList(rec, req)
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Donations) != 1 {
		t.Errorf("public list = %d donations, want 1", len(resp.Donations))
	}

	// staff see everything
	req = testutil.NewAuthenticatedRequest(http.MethodGet, "/donations", testutil.StaffUser())
	rec = httptest.NewRecorder()
	h.ServeList(rec, req)
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Donations) != 2 {
		t.Errorf("staff list = %d donations, want 2", len(resp.Donations))
	}
}

func TestDonationStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := donations.NewHandler(db, zap.NewNop())

	req := testutil.NewJSONRequest(t, http.MethodPost, "/donations", donationBody("dana@test.com"))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)
	var d models.Donation
	testutil.DecodeJSON(t, rec, &d)

	req = testutil.NewAuthenticatedJSONRequest(t, http.MethodPost,
		"/donations/"+d.ID.Hex()+"/status",
		map[string]any{"status": models.PaymentCompleted}, testutil.StaffUser())
	req = testutil.WithChiURLParam(req, "donationID", d.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleTransition(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("transition status = %d", rec.Code)
	}

	req = testutil.NewRequest(http.MethodGet, "/donations/stats")
	rec = httptest.NewRecorder()
	h.ServeStats(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}

	var stats struct {
		TotalAmount float64 `json:"total_amount"`
		Count       int64   `json:"count"`
	}
	testutil.DecodeJSON(t, rec, &stats)
	if stats.Count != 1 || stats.TotalAmount != 50 {
		t.Errorf("stats = %+v, want count 1 total 50", stats)
	}
}
