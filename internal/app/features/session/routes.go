// internal/app/features/session/routes.go
package session

import "github.com/go-chi/chi/v5"

// Routes is mounted at /session.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{groupID}", h.ServeSession)
	return r
}
