package certificates_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/features/certificates"
	"github.com/globalclassrooms/classhub/internal/domain/models"
	"github.com/globalclassrooms/classhub/internal/testutil"
)

func issueBody(recipientID string) map[string]any {
	return map[string]any{
		"recipient_id":     recipientID,
		"certificate_type": models.CertProjectCompletion,
		"title":            "River Cleanup Completion",
		"description":      "Completed the River Cleanup project.",
	}
}

func TestIssueRequiresElevatedRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := certificates.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateUser(ctx, "Sam", "Stud", "sam@test.com", models.RoleStudent)

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/certificates",
		issueBody(student.ID.Hex()), testutil.AsUser(student))
	rec := httptest.NewRecorder()
	h.HandleIssue(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("student issue status = %d, want 403", rec.Code)
	}

	teacher := fx.CreateUser(ctx, "Tess", "Teach", "tess@test.com", models.RoleTeacher)
	req = testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/certificates",
		issueBody(student.ID.Hex()), testutil.AsUser(teacher))
	rec = httptest.NewRecorder()
	h.HandleIssue(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("teacher issue status = %d, body %s", rec.Code, rec.Body.String())
	}

	var cert models.Certificate
	testutil.DecodeJSON(t, rec, &cert)
	if cert.IssuedBy != teacher.ID {
		t.Error("issuer not recorded")
	}
	if cert.VerificationCode == "" {
		t.Error("verification code missing")
	}
}

func TestRecipientReadOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := certificates.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	teacher := fx.CreateUser(ctx, "Tess", "Teach", "tess@test.com", models.RoleTeacher)
	student := fx.CreateUser(ctx, "Sam", "Stud", "sam@test.com", models.RoleStudent)

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/certificates",
		issueBody(student.ID.Hex()), testutil.AsUser(teacher))
	rec := httptest.NewRecorder()
	h.HandleIssue(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("issue status = %d, body %s", rec.Code, rec.Body.String())
	}
	var cert models.Certificate
	testutil.DecodeJSON(t, rec, &cert)

	get := func(user testutil.TestUser) *httptest.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest(http.MethodGet,
			"/certificates/"+cert.ID.Hex(), user)
		req = testutil.WithChiURLParam(req, "certificateID", cert.ID.Hex())
		rec := httptest.NewRecorder()
		h.ServeCertificate(rec, req)
		return rec
	}

	if rec := get(testutil.AsUser(student)); rec.Code != http.StatusOK {
		t.Errorf("recipient read status = %d, want 200", rec.Code)
	}
	if rec := get(testutil.AsUser(teacher)); rec.Code != http.StatusOK {
		t.Errorf("issuer read status = %d, want 200", rec.Code)
	}
	other := fx.CreateUser(ctx, "Eve", "Out", "eve@test.com", models.RoleTeacher)
	if rec := get(testutil.AsUser(other)); rec.Code != http.StatusForbidden {
		t.Errorf("third party read status = %d, want 403", rec.Code)
	}

	// the recipient cannot revoke their own award
	req = testutil.NewAuthenticatedRequest(http.MethodDelete,
		"/certificates/"+cert.ID.Hex(), testutil.AsUser(student))
	req = testutil.WithChiURLParam(req, "certificateID", cert.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleRevoke(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("recipient revoke status = %d, want 403", rec.Code)
	}

	// the issuer can
	req = testutil.NewAuthenticatedRequest(http.MethodDelete,
		"/certificates/"+cert.ID.Hex(), testutil.AsUser(teacher))
	req = testutil.WithChiURLParam(req, "certificateID", cert.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleRevoke(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("issuer revoke status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestPublicVerification(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := certificates.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	teacher := fx.CreateUser(ctx, "Tess", "Teach", "tess@test.com", models.RoleTeacher)
	student := fx.CreateUser(ctx, "Sam", "Stud", "sam@test.com", models.RoleStudent)

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/certificates",
		issueBody(student.ID.Hex()), testutil.AsUser(teacher))
	rec := httptest.NewRecorder()
	h.HandleIssue(rec, req)
	var cert models.Certificate
	testutil.DecodeJSON(t, rec, &cert)

	// anyone with the code can verify
	req = testutil.NewRequest(http.MethodGet, "/certificates/verify/"+cert.VerificationCode)
	req = testutil.WithChiURLParam(req, "code", cert.VerificationCode)
	rec = httptest.NewRecorder()
	h.ServeVerify(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got models.Certificate
	testutil.DecodeJSON(t, rec, &got)
	if got.ID != cert.ID {
		t.Error("verification resolved the wrong certificate")
	}

	req = testutil.NewRequest(http.MethodGet, "/certificates/verify/bogus")
	req = testutil.WithChiURLParam(req, "code", "bogus")
	rec = httptest.NewRecorder()
	h.ServeVerify(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("bogus code status = %d, want 404", rec.Code)
	}
}

func TestMineAndIssuedListings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := certificates.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	teacher := fx.CreateUser(ctx, "Tess", "Teach", "tess@test.com", models.RoleTeacher)
	student := fx.CreateUser(ctx, "Sam", "Stud", "sam@test.com", models.RoleStudent)

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/certificates",
		issueBody(student.ID.Hex()), testutil.AsUser(teacher))
	rec := httptest.NewRecorder()
	h.HandleIssue(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("issue status = %d", rec.Code)
	}

	var resp struct {
		Certificates []models.Certificate `json:"certificates"`
	}

	req = testutil.NewAuthenticatedRequest(http.MethodGet, "/certificates/mine", testutil.AsUser(student))
	rec = httptest.NewRecorder()
	h.ServeMine(rec, req)
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Certificates) != 1 {
		t.Errorf("recipient mine = %d, want 1", len(resp.Certificates))
	}

	req = testutil.NewAuthenticatedRequest(http.MethodGet, "/certificates/issued", testutil.AsUser(teacher))
	rec = httptest.NewRecorder()
	h.ServeIssued(rec, req)
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Certificates) != 1 {
		t.Errorf("issuer issued = %d, want 1", len(resp.Certificates))
	}

	req = testutil.NewAuthenticatedRequest(http.MethodGet, "/certificates/mine", testutil.AsUser(teacher))
	rec = httptest.NewRecorder()
	h.ServeMine(rec, req)
	testutil.DecodeJSON(t, rec, &resp)
	if len(resp.Certificates) != 0 {
		t.Errorf("issuer mine = %d, want 0", len(resp.Certificates))
	}
}
