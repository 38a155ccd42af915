// internal/app/features/reports/routes.go
package reports

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/globalclassrooms/classhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// aggregate numbers are public
	r.Get("/dashboard", h.ServeDashboardStats)
	r.Get("/impacts", h.ServeImpactStats)

	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)
		pr.Get("/impacts.csv", h.ServeImpactsCSV)
	})

	return r
}
