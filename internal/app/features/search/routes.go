// internal/app/features/search/routes.go
package search

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeSearch)
	return r
}
