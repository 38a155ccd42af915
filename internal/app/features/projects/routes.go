// internal/app/features/projects/routes.go
package projects

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/globalclassrooms/classhub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// public reads
	r.Get("/", h.ServeList)
	r.Get("/{projectID}", h.ServeProject)
	r.Get("/{projectID}/goals", h.ServeGoals)
	r.Get("/{projectID}/files", h.ServeFiles)
	r.Get("/{projectID}/participations", h.ServeParticipations)
	r.Get("/{projectID}/updates", h.ServeUpdates)
	r.Get("/{projectID}/impacts", h.ServeImpacts)

	// everything else needs a signed-in user
	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)

		pr.Post("/", h.HandleCreate)
		pr.Put("/{projectID}", h.HandleUpdate)
		pr.Post("/{projectID}/status", h.HandleTransition)
		pr.Post("/{projectID}/feature", h.HandleFeature)

		pr.Post("/{projectID}/goals", h.HandleAddGoal)
		pr.Post("/{projectID}/goals/{goalID}/complete", h.HandleCompleteGoal)
		pr.Post("/{projectID}/files", h.HandleAddFile)
		pr.Delete("/{projectID}/files/{fileID}", h.HandleRemoveFile)

		pr.Post("/{projectID}/join", h.HandleJoin)
		pr.Post("/{projectID}/withdraw", h.HandleWithdraw)

		pr.Get("/{projectID}/participants", h.ServeParticipants)
		pr.Post("/{projectID}/participants", h.HandleAddParticipant)
		pr.Delete("/{projectID}/participants/{studentID}", h.HandleRemoveParticipant)

		pr.Post("/{projectID}/updates", h.HandleCreateUpdate)
		pr.Delete("/{projectID}/updates/{updateID}", h.HandleDeleteUpdate)

		pr.Post("/{projectID}/impacts", h.HandleCreateImpact)
		pr.Put("/{projectID}/impacts/{impactID}", h.HandleUpdateImpact)
		pr.Post("/{projectID}/impacts/{impactID}/verify", h.HandleVerifyImpact)
	})

	return r
}
