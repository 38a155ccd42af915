// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/policy"
	"github.com/globalclassrooms/classhub/internal/app/store/impactstore"
	"github.com/globalclassrooms/classhub/internal/app/store/membershipstore"
	"github.com/globalclassrooms/classhub/internal/app/store/participantstore"
	"github.com/globalclassrooms/classhub/internal/app/store/participationstore"
	"github.com/globalclassrooms/classhub/internal/app/store/projectstore"
	"github.com/globalclassrooms/classhub/internal/app/store/updatestore"
	"github.com/globalclassrooms/classhub/internal/app/system/authz"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

// Handler is the shared dependency container for the projects feature:
// project lifecycle, school participation, student participants, progress
// updates, and environmental impact records.
type Handler struct {
	DB             *mongo.Database
	Log            *zap.Logger
	Projects       *projectstore.Store
	Participations *participationstore.Store
	Participants   *participantstore.Store
	Updates        *updatestore.Store
	Impacts        *impactstore.Store
	Engine         *policy.Engine
	Resolver       *membershipstore.Resolver
}

// NewHandler constructs the projects Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	resolver := membershipstore.NewResolver(db)
	return &Handler{
		DB:             db,
		Log:            logger,
		Projects:       projectstore.New(db),
		Participations: participationstore.New(db),
		Participants:   participantstore.New(db),
		Updates:        updatestore.New(db),
		Impacts:        impactstore.New(db),
		Engine:         policy.NewEngine(resolver),
		Resolver:       resolver,
	}
}

// authorize runs a policy check and writes the 403 itself on deny.
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

// loadProject fetches the project named in the URL together with its
// school scope, writing the 404 itself when it does not exist.
func (h *Handler) loadProject(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.Project, policy.ProjectScope, bool) {
	id, ok := pathID(w, r, "projectID")
	if !ok {
		return nil, policy.ProjectScope{}, false
	}

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			httpjson.NotFound(w)
			return nil, policy.ProjectScope{}, false
		}
		httpjson.Internal(w, h.Log, err)
		return nil, policy.ProjectScope{}, false
	}

	scope, err := h.Projects.Scope(ctx, id)
	if err != nil {
		httpjson.Internal(w, h.Log, err)
		return nil, policy.ProjectScope{}, false
	}
	return p, scope, true
}
