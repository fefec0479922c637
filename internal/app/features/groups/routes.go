// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes registers the study-group endpoints directly on r. Their paths
// are top-level, so they cannot share a mount point.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/view_studygroups", h.ServeList)
		pr.Post("/create_group", h.HandleCreate)
		pr.Post("/join_group", h.HandleJoin)
		pr.Post("/leave_group", h.HandleLeave)
	})
}
