// internal/app/features/certificates/routes.go
package certificates

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/globalclassrooms/classhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// verification is public; the code is the credential
	r.Get("/verify/{code}", h.ServeVerify)

	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)

		pr.Post("/", h.HandleIssue)
		pr.Get("/mine", h.ServeMine)
		pr.Get("/issued", h.ServeIssued)
		pr.Get("/{certificateID}", h.ServeCertificate)
		pr.Delete("/{certificateID}", h.HandleRevoke)
	})

	return r
}
