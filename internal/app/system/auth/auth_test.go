package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globalclassrooms/classhub/internal/app/system/auth"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

const testSecret = "test-secret-at-least-32-characters!!"

func TestIssueAndParseRoundTrip(t *testing.T) {
	issuer := auth.NewIssuer(testSecret, 0, 0)
	user := models.User{ID: primitive.NewObjectID(), Role: models.RoleTeacher, IsStaff: false}

	pair, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatal("expected both tokens to be set")
	}

	claims, err := issuer.Parse(pair.Access, auth.TokenAccess)
	if err != nil {
		t.Fatalf("Parse access: %v", err)
	}
	if claims.Role != models.RoleTeacher {
		t.Errorf("role = %q, want %q", claims.Role, models.RoleTeacher)
	}
	uid, err := claims.UserID()
	if err != nil {
		t.Fatalf("UserID: %v", err)
	}
	if uid != user.ID {
		t.Errorf("subject = %s, want %s", uid.Hex(), user.ID.Hex())
	}
}

func TestParseRejectsWrongTokenType(t *testing.T) {
	issuer := auth.NewIssuer(testSecret, 0, 0)
	pair, err := issuer.Issue(models.User{ID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := issuer.Parse(pair.Refresh, auth.TokenAccess); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := issuer.Parse(pair.Access, auth.TokenRefresh); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := auth.NewIssuer(testSecret, -time.Minute, 0)
	pair, err := issuer.Issue(models.User{ID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Parse(pair.Access, auth.TokenAccess); err == nil {
		t.Error("expired token accepted")
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	issuer := auth.NewIssuer(testSecret, 0, 0)
	other := auth.NewIssuer("a-completely-different-signing-key!!", 0, 0)

	pair, err := other.Issue(models.User{ID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Parse(pair.Access, auth.TokenAccess); err == nil {
		t.Error("token signed with a different key accepted")
	}
}

func TestLoadBearerUser(t *testing.T) {
	issuer := auth.NewIssuer(testSecret, 0, 0)
	user := models.User{ID: primitive.NewObjectID(), Role: models.RoleStudent}
	pair, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var got *auth.TokenUser
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})
	handler := auth.LoadBearerUser(issuer)(inner)

	// Valid token populates the context.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if got == nil || got.ID != user.ID {
		t.Fatalf("expected user %s in context, got %+v", user.ID.Hex(), got)
	}

	// No header passes through anonymously.
	got = nil
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got != nil {
		t.Errorf("anonymous request got user %+v", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous request status = %d, want 200", rec.Code)
	}

	// Garbage token is rejected, not downgraded to anonymous.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := auth.RequireRole(models.RoleTeacher, models.RoleSchoolAdmin)(ok)

	cases := []struct {
		name string
		user *auth.TokenUser
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"teacher", &auth.TokenUser{ID: primitive.NewObjectID(), Role: models.RoleTeacher}, http.StatusNoContent},
		{"student", &auth.TokenUser{ID: primitive.NewObjectID(), Role: models.RoleStudent}, http.StatusForbidden},
		{"staff student", &auth.TokenUser{ID: primitive.NewObjectID(), Role: models.RoleStudent, IsStaff: true}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.user != nil {
				req = auth.WithTestUser(req, tc.user)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
