// internal/app/features/donations/routes.go
package donations

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/globalclassrooms/classhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// donations can be created anonymously; reads are filtered by status
	r.Post("/", h.HandleCreate)
	r.Get("/", h.ServeList)
	r.Get("/stats", h.ServeStats)

	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)

		pr.Get("/mine", h.ServeMine)
		pr.Post("/{donationID}/status", h.HandleTransition)
	})

	r.Get("/{donationID}", h.ServeDonation)

	return r
}
