// Package search is the cross-entity search endpoint. One query fans out
// to projects, schools, and users; user matches are reserved for signed-in
// callers.
package search

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/globalclassrooms/classhub/internal/app/store/projectstore"
	"github.com/globalclassrooms/classhub/internal/app/store/schoolstore"
	"github.com/globalclassrooms/classhub/internal/app/store/userstore"
	"github.com/globalclassrooms/classhub/internal/app/system/authz"
	"github.com/globalclassrooms/classhub/internal/app/system/httpjson"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	sysearch "github.com/globalclassrooms/classhub/internal/app/system/search"
	"github.com/globalclassrooms/classhub/internal/app/system/timeouts"
	"github.com/globalclassrooms/classhub/internal/domain/models"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Projects *projectstore.Store
	Schools  *schoolstore.Store
	Users    *userstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Projects: projectstore.New(db),
		Schools:  schoolstore.New(db),
		Users:    userstore.New(db),
	}
}

type section[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

type response struct {
	Query    string                   `json:"query"`
	Projects *section[models.Project] `json:"projects,omitempty"`
	Schools  *section[models.School]  `json:"schools,omitempty"`
	Users    *section[userResult]     `json:"users,omitempty"`
	Meta     paging.Meta              `json:"meta"`
}

// userResult strips a user down to the fields safe to show in search.
type userResult struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// ServeSearch runs one query across the requested entity kinds.
//
// GET /search?q=...&types=projects,schools,users
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(q) < 2 {
		httpjson.BadRequest(w, "query must be at least 2 characters")
		return
	}
	kinds := sysearch.ParseKinds(r.URL.Query().Get("types"))
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	resp := response{Query: q, Meta: paging.Meta{Page: page.Number, PageSize: page.Size}}

	if kinds[sysearch.KindProjects] {
		items, total, err := h.Projects.List(ctx, projectstore.ListFilter{Query: q}, page)
		if err != nil {
			httpjson.Internal(w, h.Log, err)
			return
		}
		if items == nil {
			items = []models.Project{}
		}
		resp.Projects = &section[models.Project]{Items: items, Total: total}
	}

	if kinds[sysearch.KindSchools] {
		items, total, err := h.Schools.List(ctx, schoolstore.ListFilter{Query: q}, page)
		if err != nil {
			httpjson.Internal(w, h.Log, err)
			return
		}
		if items == nil {
			items = []models.School{}
		}
		resp.Schools = &section[models.School]{Items: items, Total: total}
	}

	// user search is never anonymous
	if kinds[sysearch.KindUsers] {
		if _, _, ok := authz.UserCtx(r); ok {
			users, total, err := h.searchUsers(ctx, q, page)
			if err != nil {
				httpjson.Internal(w, h.Log, err)
				return
			}
			resp.Users = &section[userResult]{Items: users, Total: total}
		}
	}

	httpjson.Respond(w, http.StatusOK, resp)
}

func (h *Handler) searchUsers(ctx context.Context, q string, page paging.Page) ([]userResult, int64, error) {
	if sysearch.EmailPivotOK(q) {
		u, err := h.Users.GetByEmail(ctx, q)
		if err != nil {
			if err == userstore.ErrNotFound {
				return []userResult{}, 0, nil
			}
			return nil, 0, err
		}
		return []userResult{asResult(*u)}, 1, nil
	}

	users, total, err := h.Users.List(ctx, userstore.ListFilter{Query: q}, page)
	if err != nil {
		return nil, 0, err
	}
	out := make([]userResult, 0, len(users))
	for _, u := range users {
		out = append(out, asResult(u))
	}
	return out, total, nil
}

func asResult(u models.User) userResult {
	return userResult{
		ID:        u.ID.Hex(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}
