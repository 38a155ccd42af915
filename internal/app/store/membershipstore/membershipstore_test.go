package membershipstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globalclassrooms/classhub/internal/app/store/membershipstore"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/domain/models"
	"github.com/globalclassrooms/classhub/internal/testutil"
)

func TestJoinAndDeactivate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Ada", "Admin", "ada@test.com", models.RoleSchoolAdmin)
	school := fx.CreateSchool(ctx, "Green Valley", admin.ID)
	student := fx.CreateUser(ctx, "Sam", "Student", "sam@test.com", models.RoleStudent)

	store := membershipstore.New(db)

	m, err := store.Join(ctx, student.ID, school.ID)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !m.IsActive {
		t.Error("new membership should be active")
	}

	if err := store.Deactivate(ctx, student.ID, school.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	got, err := store.Get(ctx, student.ID, school.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.IsActive {
		t.Error("membership should be inactive after Deactivate")
	}
}

func TestJoinReactivatesExistingRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Ada", "Admin", "ada@test.com", models.RoleSchoolAdmin)
	school := fx.CreateSchool(ctx, "Green Valley", admin.ID)
	student := fx.CreateUser(ctx, "Sam", "Student", "sam@test.com", models.RoleStudent)

	store := membershipstore.New(db)

	first, err := store.Join(ctx, student.ID, school.ID)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := store.Deactivate(ctx, student.ID, school.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	second, err := store.Join(ctx, student.ID, school.ID)
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("rejoin created a new document: %s != %s", second.ID.Hex(), first.ID.Hex())
	}
	if !second.IsActive {
		t.Error("rejoined membership should be active")
	}

	n, err := db.Collection("school_memberships").CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("membership documents = %d, want 1", n)
	}
}

func TestDeactivateMissingMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Ada", "Admin", "ada@test.com", models.RoleSchoolAdmin)
	school := fx.CreateSchool(ctx, "Green Valley", admin.ID)
	student := fx.CreateUser(ctx, "Sam", "Student", "sam@test.com", models.RoleStudent)

	store := membershipstore.New(db)
	if err := store.Deactivate(ctx, student.ID, school.ID); !errors.Is(err, membershipstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Ada", "Admin", "ada@test.com", models.RoleSchoolAdmin)
	school := fx.CreateSchool(ctx, "Green Valley", admin.ID)

	store := membershipstore.New(db)
	for _, email := range []string{"a@test.com", "b@test.com", "c@test.com"} {
		u := fx.CreateUser(ctx, "Member", "User", email, models.RoleStudent)
		if _, err := store.Join(ctx, u.ID, school.ID); err != nil {
			t.Fatalf("Join: %v", err)
		}
	}

	members, total, err := store.ListMembers(ctx, school.ID, paging.Page{Number: 1, Size: 2})
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(members) != 2 {
		t.Errorf("page size = %d, want 2", len(members))
	}
}

func TestResolverActiveSchoolIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Ada", "Admin", "ada@test.com", models.RoleSchoolAdmin)
	s1 := fx.CreateSchool(ctx, "Green Valley", admin.ID)
	s2 := fx.CreateSchool(ctx, "Blue River", admin.ID)
	teacher := fx.CreateUser(ctx, "Tina", "Teacher", "tina@test.com", models.RoleTeacher)

	store := membershipstore.New(db)
	if _, err := store.Join(ctx, teacher.ID, s1.ID); err != nil {
		t.Fatalf("Join s1: %v", err)
	}
	if _, err := store.Join(ctx, teacher.ID, s2.ID); err != nil {
		t.Fatalf("Join s2: %v", err)
	}
	if err := store.Deactivate(ctx, teacher.ID, s2.ID); err != nil {
		t.Fatalf("Deactivate s2: %v", err)
	}

	resolver := membershipstore.NewResolver(db)
	ids, err := resolver.ActiveSchoolIDs(ctx, teacher.ID)
	if err != nil {
		t.Fatalf("ActiveSchoolIDs: %v", err)
	}
	if _, ok := ids[s1.ID]; !ok {
		t.Error("active membership missing from set")
	}
	if _, ok := ids[s2.ID]; ok {
		t.Error("deactivated membership leaked into set")
	}
}

func TestResolverRoleInSchool(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Ada", "Admin", "ada@test.com", models.RoleSchoolAdmin)
	school := fx.CreateSchool(ctx, "Green Valley", admin.ID)
	student := fx.CreateUser(ctx, "Sam", "Student", "sam@test.com", models.RoleStudent)
	outsider := fx.CreateUser(ctx, "Olive", "Outsider", "olive@test.com", models.RoleStudent)

	store := membershipstore.New(db)
	if _, err := store.Join(ctx, student.ID, school.ID); err != nil {
		t.Fatalf("Join: %v", err)
	}

	resolver := membershipstore.NewResolver(db)

	// admin standing comes from the school document, no membership row needed
	role, err := resolver.RoleInSchool(ctx, admin.ID, school.ID)
	if err != nil {
		t.Fatalf("RoleInSchool admin: %v", err)
	}
	if role != membershipstore.SchoolRoleAdmin {
		t.Errorf("admin role = %q, want admin", role)
	}

	role, err = resolver.RoleInSchool(ctx, student.ID, school.ID)
	if err != nil {
		t.Fatalf("RoleInSchool member: %v", err)
	}
	if role != membershipstore.SchoolRoleMember {
		t.Errorf("member role = %q, want member", role)
	}

	role, err = resolver.RoleInSchool(ctx, outsider.ID, school.ID)
	if err != nil {
		t.Fatalf("RoleInSchool outsider: %v", err)
	}
	if role != membershipstore.SchoolRoleNone {
		t.Errorf("outsider role = %q, want none", role)
	}
}

func TestResolverIsProjectParticipant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Ada", "Admin", "ada@test.com", models.RoleSchoolAdmin)
	school := fx.CreateSchool(ctx, "Green Valley", admin.ID)
	teacher := fx.CreateUser(ctx, "Tina", "Teacher", "tina@test.com", models.RoleTeacher)
	student := fx.CreateUser(ctx, "Sam", "Student", "sam@test.com", models.RoleStudent)
	project := fx.CreateProject(ctx, "River Cleanup", school.ID, teacher.ID)

	fx.CreateParticipant(ctx, project.ID, student.ID, primitive.NewObjectID(), teacher.ID)

	resolver := membershipstore.NewResolver(db)
	ok, err := resolver.IsProjectParticipant(ctx, student.ID, project.ID)
	if err != nil {
		t.Fatalf("IsProjectParticipant: %v", err)
	}
	if !ok {
		t.Error("explicit participant not recognized")
	}

	ok, err = resolver.IsProjectParticipant(ctx, teacher.ID, project.ID)
	if err != nil {
		t.Fatalf("IsProjectParticipant: %v", err)
	}
	if ok {
		t.Error("non-participant recognized as participant")
	}
}
