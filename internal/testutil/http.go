package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globalclassrooms/classhub/internal/app/system/auth"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// TestUser represents the token identity injected into handler tests.
type TestUser struct {
	ID      primitive.ObjectID
	Role    string
	IsStaff bool
}

// StaffUser returns a TestUser with the staff flag set.
func StaffUser() TestUser {
	return TestUser{ID: primitive.NewObjectID(), Role: models.RoleSuperAdmin, IsStaff: true}
}

// TeacherUser returns a TestUser with the teacher role.
func TeacherUser() TestUser {
	return TestUser{ID: primitive.NewObjectID(), Role: models.RoleTeacher}
}

// StudentUser returns a TestUser with the student role.
func StudentUser() TestUser {
	return TestUser{ID: primitive.NewObjectID(), Role: models.RoleStudent}
}

// SchoolAdminUser returns a TestUser with the school_admin role.
func SchoolAdminUser() TestUser {
	return TestUser{ID: primitive.NewObjectID(), Role: models.RoleSchoolAdmin}
}

// AsUser converts a stored user into the matching TestUser identity.
func AsUser(u models.User) TestUser {
	return TestUser{ID: u.ID, Role: u.Role, IsStaff: u.IsStaff}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the bearer middleware and injects the identity
// directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.TokenUser{
		ID:      user.ID,
		Role:    user.Role,
		IsStaff: user.IsStaff,
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// NewJSONRequest creates a request with a JSON-encoded body and content type.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedJSONRequest combines NewJSONRequest and WithUser.
func NewAuthenticatedJSONRequest(t *testing.T, method, target string, body any, user TestUser) *http.Request {
	t.Helper()
	return WithUser(NewJSONRequest(t, method, target, body), user)
}

// DecodeJSON unmarshals a recorded response body into out.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response body %q: %v", rec.Body.String(), err)
	}
}
