// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes registers the user endpoints directly on r.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/view_users", h.ServeList)
		pr.Get("/clear_users", h.HandleClear)
	})
}
