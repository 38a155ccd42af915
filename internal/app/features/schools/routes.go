// internal/app/features/schools/routes.go
package schools

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/globalclassrooms/classhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// public reads
	r.Get("/", h.ServeList)
	r.Get("/{schoolID}", h.ServeSchool)

	// everything else needs a signed-in user
	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)

		pr.Post("/", h.HandleCreate)
		pr.Put("/{schoolID}", h.HandleUpdate)
		pr.Delete("/{schoolID}", h.HandleDeactivate)
		pr.Post("/{schoolID}/verify", h.HandleVerify)

		pr.Post("/{schoolID}/join", h.HandleJoin)
		pr.Post("/{schoolID}/leave", h.HandleLeave)
		pr.Get("/{schoolID}/members", h.ServeMembers)
		pr.Delete("/{schoolID}/members/{userID}", h.HandleRemoveMember)
		pr.Get("/{schoolID}/dashboard", h.ServeDashboard)

		pr.Post("/{schoolID}/classes", h.HandleCreateClass)
		pr.Get("/{schoolID}/classes", h.ServeClasses)
		pr.Put("/{schoolID}/classes/{classID}", h.HandleUpdateClass)
		pr.Delete("/{schoolID}/classes/{classID}", h.HandleDeleteClass)

		pr.Post("/{schoolID}/teachers", h.HandleCreateTeacherProfile)
		pr.Get("/{schoolID}/teachers", h.ServeTeacherProfiles)
		pr.Put("/{schoolID}/teachers/{userID}", h.HandleUpdateTeacherProfile)
		pr.Post("/teachers/join/{joinLink}", h.HandleTeacherJoin)

		pr.Post("/{schoolID}/students", h.HandleCreateStudentProfile)
		pr.Get("/{schoolID}/students", h.ServeStudentProfiles)
		pr.Post("/{schoolID}/students/{userID}/class", h.HandleAssignClass)
	})

	return r
}
