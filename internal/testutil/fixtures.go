package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Chained calls accumulate parameters on the same route context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, firstName, lastName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Username:     email,
		FirstName:    firstName,
		LastName:     lastName,
		FullNameCI:   text.Fold(firstName + " " + lastName),
		Role:         role,
		IsActive:     true,
		SignupMethod: models.SignupEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateStaffUser creates a platform staff user.
func (f *Fixtures) CreateStaffUser(ctx context.Context, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Username:     email,
		FirstName:    "Staff",
		LastName:     "User",
		FullNameCI:   text.Fold("Staff User"),
		Role:         models.RoleSuperAdmin,
		IsStaff:      true,
		IsActive:     true,
		SignupMethod: models.SignupEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create staff user: %v", err)
	}
	return user
}

// CreateSchool creates a verified test school administered by adminID.
func (f *Fixtures) CreateSchool(ctx context.Context, name string, adminID primitive.ObjectID) models.School {
	f.t.Helper()

	now := time.Now().UTC()
	school := models.School{
		ID:                  primitive.NewObjectID(),
		Name:                name,
		NameCI:              text.Fold(name),
		InstitutionType:     models.InstitutionSecondary,
		Affiliation:         "government",
		RegistrationNumber:  "REG-" + primitive.NewObjectID().Hex(),
		YearOfEstablishment: 1990,
		AddressLine1:        "1 Test Street",
		City:                "Test City",
		CityCI:              text.Fold("Test City"),
		State:               "TS",
		PostalCode:          "00000",
		Country:             "Testland",
		CountryCI:           text.Fold("Testland"),
		PhoneNumber:         "+1000000000",
		Email:               "school@test.com",
		PrincipalName:       "Test Principal",
		PrincipalEmail:      "principal@test.com",
		PrincipalPhone:      "+1000000001",
		NumberOfStudents:    100,
		NumberOfTeachers:    10,
		MediumOfInstruction: "English",
		IsVerified:          true,
		IsActive:            true,
		AdminID:             adminID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if _, err := f.db.Collection("schools").InsertOne(ctx, school); err != nil {
		f.t.Fatalf("failed to create test school: %v", err)
	}
	return school
}

// CreateMembership links a user to a school with an active membership.
func (f *Fixtures) CreateMembership(ctx context.Context, userID, schoolID primitive.ObjectID) models.SchoolMembership {
	f.t.Helper()

	m := models.SchoolMembership{
		ID:       primitive.NewObjectID(),
		UserID:   userID,
		SchoolID: schoolID,
		IsActive: true,
		JoinedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("school_memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateProject creates an active project led by the given school.
func (f *Fixtures) CreateProject(ctx context.Context, title string, leadSchoolID, createdBy primitive.ObjectID) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:                     primitive.NewObjectID(),
		Title:                  title,
		TitleCI:                text.Fold(title),
		ShortDescription:       "A test project",
		DetailedDescription:    "A longer description of a test project.",
		EnvironmentalThemes:    []string{"water_conservation"},
		StartDate:              now,
		EndDate:                now.AddDate(0, 3, 0),
		IsOpenForCollaboration: true,
		LeadSchoolID:           leadSchoolID,
		ContactPersonName:      "Test Contact",
		ContactPersonEmail:     "contact@test.com",
		ContactPersonRole:      "teacher",
		ContactCountry:         "Testland",
		ContactCity:            "Test City",
		Status:                 models.ProjectActive,
		CreatedBy:              createdBy,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateParticipation records a school joining a project.
func (f *Fixtures) CreateParticipation(ctx context.Context, projectID, schoolID primitive.ObjectID) models.ProjectParticipation {
	f.t.Helper()

	p := models.ProjectParticipation{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		SchoolID:  schoolID,
		IsActive:  true,
		JoinedAt:  time.Now().UTC(),
	}

	if _, err := f.db.Collection("project_participations").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test participation: %v", err)
	}
	return p
}

// CreateParticipant adds a student to a project.
func (f *Fixtures) CreateParticipant(ctx context.Context, projectID, studentID, classID, addedBy primitive.ObjectID) models.ProjectParticipant {
	f.t.Helper()

	p := models.ProjectParticipant{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		StudentID: studentID,
		ClassID:   classID,
		AddedBy:   addedBy,
		IsActive:  true,
		JoinedAt:  time.Now().UTC(),
	}

	if _, err := f.db.Collection("project_participants").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test participant: %v", err)
	}
	return p
}
