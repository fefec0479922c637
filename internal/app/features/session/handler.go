// internal/app/features/session/handler.go
package session

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/membership"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/app/system/viewdata"
	"github.com/dalemusser/studyhub/internal/domain/errs"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Svc    *membership.Service
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(svc *membership.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, ErrLog: errLog, Log: logger}
}

type sessionData struct {
	viewdata.BaseVM
	Group   models.StudyGroup
	Members []models.User
}

// ServeSession handles GET /session/{groupID}. The page is public.
func (h *Handler) ServeSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "groupID")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Svc.Group(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "That study group does not exist.", "/")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load group failed", err, "A database error occurred.", "/")
		return
	}

	members, err := h.Svc.Members(ctx, g.Name)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members failed", err, "A database error occurred.", "/")
		return
	}

	templates.Render(w, r, "session", sessionData{
		BaseVM:  viewdata.NewBaseVM(r, g.Name+" session"),
		Group:   g,
		Members: members,
	})
}
