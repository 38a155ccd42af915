// internal/app/features/subjects/routes.go
package subjects

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/globalclassrooms/classhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/{subjectID}", h.ServeSubject)

	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)
		pr.Post("/", h.HandleCreate)
		pr.Delete("/{subjectID}", h.HandleDeactivate)
	})

	return r
}
