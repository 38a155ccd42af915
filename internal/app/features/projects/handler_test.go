package projects_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/features/projects"
	"github.com/globalclassrooms/classhub/internal/domain/models"
	"github.com/globalclassrooms/classhub/internal/testutil"
)

func projectBody(title, leadSchoolID string) map[string]any {
	start := time.Now().UTC().Truncate(time.Second)
	return map[string]any{
		"title":                title,
		"short_description":    "A short description",
		"detailed_description": "A much longer detailed description of the project.",
		"environmental_themes": []string{"water_conservation"},
		"start_date":           start,
		"end_date":             start.AddDate(0, 3, 0),
		"lead_school_id":       leadSchoolID,
		"contact_person_name":  "Tess Teach",
		"contact_person_email": "tess@test.com",
		"contact_person_role":  "teacher",
		"contact_country":      "Testland",
		"contact_city":         "Test City",
	}
}

func TestCreateProjectRequiresLeadSchoolRelationship(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := projects.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, "Alice", "Admin", "alice@test.com", models.RoleSchoolAdmin)
	sc := fx.CreateSchool(ctx, "Riverside", admin.ID)

	// an elevated role alone is not enough without a membership at the
	// lead school
	outsider := fx.CreateUser(ctx, "Eve", "Out", "eve@test.com", models.RoleTeacher)
	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/projects",
		projectBody("River Cleanup", sc.ID.Hex()), testutil.AsUser(outsider))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("outsider create status = %d, want 403", rec.Code)
	}

	teacher := fx.CreateUser(ctx, "Tess", "Teach", "tess@test.com", models.RoleTeacher)
	fx.CreateMembership(ctx, teacher.ID, sc.ID)
	req = testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/projects",
		projectBody("River Cleanup", sc.ID.Hex()), testutil.AsUser(teacher))
	rec = httptest.NewRecorder()
	h.HandleCreate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("teacher create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var p models.Project
	testutil.DecodeJSON(t, rec, &p)
	if p.Status != models.ProjectDraft {
		t.Errorf("new project status = %q, want draft", p.Status)
	}
	if p.CreatedBy != teacher.ID {
		t.Error("creator not recorded")
	}
}

func TestTransitionApprovalStaffOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := projects.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, "Alice", "Admin", "alice@test.com", models.RoleSchoolAdmin)
	sc := fx.CreateSchool(ctx, "Riverside", admin.ID)
	teacher := fx.CreateUser(ctx, "Tess", "Teach", "tess@test.com", models.RoleTeacher)
	fx.CreateMembership(ctx, teacher.ID, sc.ID)

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/projects",
		projectBody("River Cleanup", sc.ID.Hex()), testutil.AsUser(teacher))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var p models.Project
	testutil.DecodeJSON(t, rec, &p)

	transition := func(user testutil.TestUser, status string) *httptest.ResponseRecorder {
		req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost,
			"/projects/"+p.ID.Hex()+"/status", map[string]any{"status": status}, user)
		req = testutil.WithChiURLParam(req, "projectID", p.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleTransition(rec, req)
		return rec
	}

	if rec := transition(testutil.AsUser(teacher), models.ProjectPendingApproval); rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body %s", rec.Code, rec.Body.String())
	}

	// only staff may approve into active
	if rec := transition(testutil.AsUser(teacher), models.ProjectActive); rec.Code != http.StatusForbidden {
		t.Errorf("teacher approve status = %d, want 403", rec.Code)
	}
	if rec := transition(testutil.StaffUser(), models.ProjectActive); rec.Code != http.StatusOK {
		t.Fatalf("staff approve status = %d, body %s", rec.Code, rec.Body.String())
	}

	// active cannot fall back to draft
	if rec := transition(testutil.AsUser(teacher), models.ProjectDraft); rec.Code != http.StatusConflict {
		t.Errorf("illegal transition status = %d, want 409", rec.Code)
	}
}

func TestJoinOpenCollaboration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := projects.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, "Alice", "Admin", "alice@test.com", models.RoleSchoolAdmin)
	lead := fx.CreateSchool(ctx, "Riverside", admin.ID)
	p := fx.CreateProject(ctx, "River Cleanup", lead.ID, admin.ID)

	otherAdmin := fx.CreateUser(ctx, "Olive", "Admin", "olive@test.com", models.RoleSchoolAdmin)
	other := fx.CreateSchool(ctx, "Lakeside", otherAdmin.ID)
	teacher := fx.CreateUser(ctx, "Tess", "Teach", "tess@test.com", models.RoleTeacher)
	fx.CreateMembership(ctx, teacher.ID, other.ID)

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/projects/"+p.ID.Hex()+"/join",
		map[string]any{"school_id": other.ID.Hex(), "contribution_description": "water testing"},
		testutil.AsUser(teacher))
	req = testutil.WithChiURLParam(req, "projectID", p.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleJoin(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("join status = %d, body %s", rec.Code, rec.Body.String())
	}

	var part models.ProjectParticipation
	testutil.DecodeJSON(t, rec, &part)
	if !part.IsActive || part.SchoolID != other.ID {
		t.Error("participation not recorded for the joining school")
	}

	// the lead school cannot join its own project
	fx.CreateMembership(ctx, admin.ID, lead.ID)
	req = testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/projects/"+p.ID.Hex()+"/join",
		map[string]any{"school_id": lead.ID.Hex()}, testutil.AsUser(admin))
	req = testutil.WithChiURLParam(req, "projectID", p.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleJoin(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("lead school join status = %d, want 400", rec.Code)
	}
}

func TestAddParticipantLeadSchoolManagesRoster(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := projects.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, "Alice", "Admin", "alice@test.com", models.RoleSchoolAdmin)
	lead := fx.CreateSchool(ctx, "Riverside", admin.ID)
	p := fx.CreateProject(ctx, "River Cleanup", lead.ID, admin.ID)

	oliveAdmin := fx.CreateUser(ctx, "Olive", "Admin", "olive@test.com", models.RoleSchoolAdmin)
	lakeside := fx.CreateSchool(ctx, "Lakeside", oliveAdmin.ID)
	fx.CreateParticipation(ctx, p.ID, lakeside.ID)
	pineAdmin := fx.CreateUser(ctx, "Pia", "Admin", "pia@test.com", models.RoleSchoolAdmin)
	pinewood := fx.CreateSchool(ctx, "Pinewood", pineAdmin.ID)
	fx.CreateParticipation(ctx, p.ID, pinewood.ID)

	student := fx.CreateUser(ctx, "Sam", "Stud", "sam@test.com", models.RoleStudent)
	fx.CreateMembership(ctx, student.ID, lakeside.ID)

	add := func(u testutil.TestUser) *httptest.ResponseRecorder {
		req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost,
			"/projects/"+p.ID.Hex()+"/participants",
			map[string]any{"student_id": student.ID.Hex(), "class_id": primitive.NewObjectID().Hex()}, u)
		req = testutil.WithChiURLParam(req, "projectID", p.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleAddParticipant(rec, req)
		return rec
	}

	// a teacher at another participating school shares no school with the
	// student and may not add them
	pineTeacher := fx.CreateUser(ctx, "Pete", "Pine", "pete@test.com", models.RoleTeacher)
	fx.CreateMembership(ctx, pineTeacher.ID, pinewood.ID)
	if rec := add(testutil.AsUser(pineTeacher)); rec.Code != http.StatusForbidden {
		t.Errorf("cross-school add status = %d, want 403", rec.Code)
	}

	// a lead-school teacher manages the roster across every school
	leadTeacher := fx.CreateUser(ctx, "Tess", "Teach", "tess@test.com", models.RoleTeacher)
	fx.CreateMembership(ctx, leadTeacher.ID, lead.ID)
	rec := add(testutil.AsUser(leadTeacher))
	if rec.Code != http.StatusOK {
		t.Fatalf("lead teacher add status = %d, body %s", rec.Code, rec.Body.String())
	}
	var part models.ProjectParticipant
	testutil.DecodeJSON(t, rec, &part)
	if part.StudentID != student.ID || part.AddedBy != leadTeacher.ID {
		t.Error("participant not recorded with student and adder")
	}
}

func TestStudentUpdateRequiresParticipation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := projects.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, "Alice", "Admin", "alice@test.com", models.RoleSchoolAdmin)
	sc := fx.CreateSchool(ctx, "Riverside", admin.ID)
	p := fx.CreateProject(ctx, "River Cleanup", sc.ID, admin.ID)

	student := fx.CreateUser(ctx, "Sam", "Stud", "sam@test.com", models.RoleStudent)
	fx.CreateMembership(ctx, student.ID, sc.ID)

	body := map[string]any{
		"school_id":   sc.ID.Hex(),
		"description": "We cleaned the river bank today.",
	}

	// a student member who is not a project participant may not post
	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost,
		"/projects/"+p.ID.Hex()+"/updates", body, testutil.AsUser(student))
	req = testutil.WithChiURLParam(req, "projectID", p.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleCreateUpdate(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-participant student status = %d, want 403", rec.Code)
	}

	fx.CreateParticipant(ctx, p.ID, student.ID, primitive.NewObjectID(), admin.ID)
	req = testutil.NewAuthenticatedJSONRequest(t, http.MethodPost,
		"/projects/"+p.ID.Hex()+"/updates", body, testutil.AsUser(student))
	req = testutil.WithChiURLParam(req, "projectID", p.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleCreateUpdate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("participant student status = %d, body %s", rec.Code, rec.Body.String())
	}

	var u models.ProjectUpdate
	testutil.DecodeJSON(t, rec, &u)
	if u.UploadedBy != student.ID {
		t.Error("uploader not recorded")
	}

	// a teacher member posts without a participant record
	teacher := fx.CreateUser(ctx, "Tess", "Teach", "tess@test.com", models.RoleTeacher)
	fx.CreateMembership(ctx, teacher.ID, sc.ID)
	req = testutil.NewAuthenticatedJSONRequest(t, http.MethodPost,
		"/projects/"+p.ID.Hex()+"/updates", body, testutil.AsUser(teacher))
	req = testutil.WithChiURLParam(req, "projectID", p.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleCreateUpdate(rec, req)
	if rec.Code != http.StatusCreated {
		t.Errorf("teacher update status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestImpactCreateAndVerify(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := projects.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, "Alice", "Admin", "alice@test.com", models.RoleSchoolAdmin)
	sc := fx.CreateSchool(ctx, "Riverside", admin.ID)
	p := fx.CreateProject(ctx, "River Cleanup", sc.ID, admin.ID)
	teacher := fx.CreateUser(ctx, "Tess", "Teach", "tess@test.com", models.RoleTeacher)
	fx.CreateMembership(ctx, teacher.ID, sc.ID)

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost,
		"/projects/"+p.ID.Hex()+"/impacts",
		map[string]any{
			"school_id":   sc.ID.Hex(),
			"impact_type": models.ImpactTreesPlanted,
			"value":       25,
			"unit":        "trees",
		}, testutil.AsUser(teacher))
	req = testutil.WithChiURLParam(req, "projectID", p.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleCreateImpact(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create impact status = %d, body %s", rec.Code, rec.Body.String())
	}

	var im models.EnvironmentalImpact
	testutil.DecodeJSON(t, rec, &im)
	if im.Verified {
		t.Error("new impact should start unverified")
	}

	verify := func(user testutil.TestUser) *httptest.ResponseRecorder {
		req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost,
			"/projects/"+p.ID.Hex()+"/impacts/"+im.ID.Hex()+"/verify",
			map[string]any{"verified": true}, user)
		req = testutil.WithChiURLParam(req, "projectID", p.ID.Hex())
		req = testutil.WithChiURLParam(req, "impactID", im.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleVerifyImpact(rec, req)
		return rec
	}

	if rec := verify(testutil.AsUser(teacher)); rec.Code != http.StatusForbidden {
		t.Errorf("teacher verify status = %d, want 403", rec.Code)
	}
	if rec := verify(testutil.StaffUser()); rec.Code != http.StatusNoContent {
		t.Fatalf("staff verify status = %d, body %s", rec.Code, rec.Body.String())
	}

	req = testutil.NewRequest(http.MethodGet, "/projects/"+p.ID.Hex()+"/impacts?verified=true")
	req = testutil.WithChiURLParam(req, "projectID", p.ID.Hex())
	rec = httptest.NewRecorder()
	h.ServeImpacts(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list impacts status = %d", rec.Code)
	}
	var out []models.EnvironmentalImpact
	testutil.DecodeJSON(t, rec, &out)
	if len(out) != 1 || !out[0].Verified {
		t.Errorf("verified impacts = %d, want 1 verified entry", len(out))
	}
}
