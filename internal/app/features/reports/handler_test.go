package reports_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/features/reports"
	"github.com/globalclassrooms/classhub/internal/app/store/donationstore"
	"github.com/globalclassrooms/classhub/internal/app/store/impactstore"
	"github.com/globalclassrooms/classhub/internal/domain/models"
	"github.com/globalclassrooms/classhub/internal/testutil"
)

func TestDashboardStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := reports.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, "Alice", "Admin", "alice@test.com", models.RoleSchoolAdmin)
	sc := fx.CreateSchool(ctx, "Riverside", admin.ID)
	p := fx.CreateProject(ctx, "River Cleanup", sc.ID, admin.ID)

	impacts := impactstore.New(db)
	im, err := impacts.Create(ctx, models.EnvironmentalImpact{
		ProjectID:       p.ID,
		SchoolID:        sc.ID,
		ImpactType:      models.ImpactTreesPlanted,
		Value:           10,
		Unit:            "trees",
		MeasurementDate: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create impact: %v", err)
	}
	if err := impacts.SetVerified(ctx, im.ID, true); err != nil {
		t.Fatalf("verify impact: %v", err)
	}

	donationsStore := donationstore.New(db)
	d, err := donationsStore.Create(ctx, models.Donation{
		DonorName:     "Dana Donor",
		DonorEmail:    "dana@test.com",
		Amount:        75,
		PaymentMethod: "card",
		Purpose:       "trees",
	})
	if err != nil {
		t.Fatalf("create donation: %v", err)
	}
	if err := donationsStore.Transition(ctx, d.ID, models.PaymentCompleted, "pay_1"); err != nil {
		t.Fatalf("complete donation: %v", err)
	}

	req := testutil.NewRequest(http.MethodGet, "/reports/dashboard")
	rec := httptest.NewRecorder()
	h.ServeDashboardStats(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, body %s", rec.Code, rec.Body.String())
	}

	var stats struct {
		ActiveUsers int64            `json:"active_users"`
		Projects    map[string]int64 `json:"projects_by_status"`
		Donations   struct {
			TotalAmount float64 `json:"total_amount"`
		} `json:"donations"`
		Impacts []struct {
			ImpactType string  `json:"impact_type"`
			Total      float64 `json:"total"`
		} `json:"verified_impacts"`
	}
	testutil.DecodeJSON(t, rec, &stats)
	if stats.ActiveUsers != 1 {
		t.Errorf("active_users = %d, want 1", stats.ActiveUsers)
	}
	if stats.Projects[models.ProjectActive] != 1 {
		t.Errorf("active projects = %d, want 1", stats.Projects[models.ProjectActive])
	}
	if stats.Donations.TotalAmount != 75 {
		t.Errorf("donation total = %v, want 75", stats.Donations.TotalAmount)
	}
	if len(stats.Impacts) != 1 || stats.Impacts[0].Total != 10 {
		t.Errorf("verified impacts = %+v, want one trees_planted total of 10", stats.Impacts)
	}
}

func TestImpactStatsScopedToProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := reports.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, "Alice", "Admin", "alice@test.com", models.RoleSchoolAdmin)
	sc := fx.CreateSchool(ctx, "Riverside", admin.ID)
	p1 := fx.CreateProject(ctx, "River Cleanup", sc.ID, admin.ID)
	p2 := fx.CreateProject(ctx, "Tree Planting", sc.ID, admin.ID)

	impacts := impactstore.New(db)
	for _, tc := range []struct {
		project models.Project
		value   float64
	}{
		{p1, 5},
		{p2, 7},
	} {
		im, err := impacts.Create(ctx, models.EnvironmentalImpact{
			ProjectID:       tc.project.ID,
			SchoolID:        sc.ID,
			ImpactType:      models.ImpactTreesPlanted,
			Value:           tc.value,
			Unit:            "trees",
			MeasurementDate: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("create impact: %v", err)
		}
		if err := impacts.SetVerified(ctx, im.ID, true); err != nil {
			t.Fatalf("verify impact: %v", err)
		}
	}

	req := testutil.NewRequest(http.MethodGet, "/reports/impacts?project="+p1.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeImpactStats(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("impact stats status = %d", rec.Code)
	}

	var totals []struct {
		ImpactType string  `json:"impact_type"`
		Total      float64 `json:"total"`
	}
	testutil.DecodeJSON(t, rec, &totals)
	if len(totals) != 1 || totals[0].Total != 5 {
		t.Errorf("totals = %+v, want one row with total 5", totals)
	}
}

func TestImpactsCSVStaffOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := reports.NewHandler(db, zap.NewNop())
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, "Alice", "Admin", "alice@test.com", models.RoleSchoolAdmin)
	sc := fx.CreateSchool(ctx, "Riverside", admin.ID)
	p := fx.CreateProject(ctx, "River Cleanup", sc.ID, admin.ID)

	impacts := impactstore.New(db)
	if _, err := impacts.Create(ctx, models.EnvironmentalImpact{
		ProjectID:       p.ID,
		SchoolID:        sc.ID,
		ImpactType:      models.ImpactWaterSaved,
		Value:           120,
		Unit:            "liters",
		MeasurementDate: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("create impact: %v", err)
	}

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/reports/impacts.csv", testutil.AsUser(admin))
	rec := httptest.NewRecorder()
	h.ServeImpactsCSV(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-staff csv status = %d, want 403", rec.Code)
	}

	req = testutil.NewAuthenticatedRequest(http.MethodGet, "/reports/impacts.csv", testutil.StaffUser())
	rec = httptest.NewRecorder()
	h.ServeImpactsCSV(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("staff csv status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q, want text/csv", ct)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %d, want header plus one row", len(lines))
	}
	if !strings.Contains(lines[1], models.ImpactWaterSaved) {
		t.Errorf("csv row %q missing impact type", lines[1])
	}
}
