package search_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/features/search"
	"github.com/globalclassrooms/classhub/internal/domain/models"
	"github.com/globalclassrooms/classhub/internal/testutil"
)

type searchResponse struct {
	Projects *struct {
		Items []models.Project `json:"items"`
		Total int64            `json:"total"`
	} `json:"projects"`
	Schools *struct {
		Items []models.School `json:"items"`
		Total int64           `json:"total"`
	} `json:"schools"`
	Users *struct {
		Items []struct {
			ID        string `json:"id"`
			FirstName string `json:"first_name"`
		} `json:"items"`
		Total int64 `json:"total"`
	} `json:"users"`
}

func TestSearchFansOut(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := search.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, "Alice", "Admin", "alice@test.com", models.RoleSchoolAdmin)
	sc := fx.CreateSchool(ctx, "Riverside High", admin.ID)
	fx.CreateProject(ctx, "Riverside Cleanup", sc.ID, admin.ID)
	fx.CreateUser(ctx, "River", "Jones", "river@test.com", models.RoleStudent)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/search?q=river", testutil.AsUser(admin))
	rec := httptest.NewRecorder()
	h.ServeSearch(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp searchResponse
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Projects == nil || resp.Projects.Total != 1 {
		t.Error("expected one project match")
	}
	if resp.Schools == nil || resp.Schools.Total != 1 {
		t.Error("expected one school match")
	}
	if resp.Users == nil || resp.Users.Total != 1 {
		t.Error("expected one user match")
	}
}

func TestSearchAnonymousHidesUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := search.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateUser(ctx, "River", "Jones", "river@test.com", models.RoleStudent)

	req := testutil.NewRequest(http.MethodGet, "/search?q=river")
	rec := httptest.NewRecorder()
	h.ServeSearch(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d", rec.Code)
	}

	var resp searchResponse
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Users != nil {
		t.Error("anonymous search should not include users")
	}
}

func TestSearchEmailPivot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := search.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	target := fx.CreateUser(ctx, "River", "Jones", "river@test.com", models.RoleStudent)
	caller := fx.CreateUser(ctx, "Tess", "Teach", "tess@test.com", models.RoleTeacher)

	req := testutil.NewAuthenticatedRequest(http.MethodGet,
		"/search?q=river@test.com&types=users", testutil.AsUser(caller))
	rec := httptest.NewRecorder()
	h.ServeSearch(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp searchResponse
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Users == nil || resp.Users.Total != 1 {
		t.Fatal("expected one email match")
	}
	if resp.Users.Items[0].ID != target.ID.Hex() {
		t.Error("email pivot resolved the wrong user")
	}
	if resp.Projects != nil {
		t.Error("types=users should not include projects")
	}
}

func TestSearchRejectsShortQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := search.NewHandler(db, zap.NewNop())

	req := testutil.NewRequest(http.MethodGet, "/search?q=a")
	rec := httptest.NewRecorder()
	h.ServeSearch(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("short query status = %d, want 400", rec.Code)
	}
}
