// internal/app/features/schools/handler.go
package schools

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/store/classstore"
	"github.com/globalclassrooms/classhub/internal/app/store/membershipstore"
	"github.com/globalclassrooms/classhub/internal/app/store/profilestore"
	"github.com/globalclassrooms/classhub/internal/app/store/projectstore"
	"github.com/globalclassrooms/classhub/internal/app/store/schoolstore"
	"github.com/globalclassrooms/classhub/internal/app/store/userstore"
	"github.com/globalclassrooms/classhub/internal/app/system/authz"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
)

// Handler is the shared dependency container for the schools feature:
// school CRUD, membership (join/leave/member management), classes, the
// per-school teacher and student profiles, and the school dashboard.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	Schools     *schoolstore.Store
	Memberships *membershipstore.Store
	Classes     *classstore.Store
	Profiles    *profilestore.Store
	Projects    *projectstore.Store
	Users       *userstore.Store
	Engine      *policy.Engine
	Resolver    *membershipstore.Resolver
}

// NewHandler constructs the schools Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	resolver := membershipstore.NewResolver(db)
	return &Handler{
		DB:          db,
		Log:         logger,
		Schools:     schoolstore.New(db),
		Memberships: membershipstore.New(db),
		Classes:     classstore.New(db),
		Profiles:    profilestore.New(db),
		Projects:    projectstore.New(db),
		Users:       userstore.New(db),
		Engine:      policy.NewEngine(resolver),
		Resolver:    resolver,
	}
}

// authorize runs a policy check and writes the 403 itself on deny. The
// caller proceeds only on true.
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

// pathID parses an ObjectID route parameter, writing the 404 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		httpjson.NotFound(w)
		return primitive.NilObjectID, false
	}
	return id, true
}
