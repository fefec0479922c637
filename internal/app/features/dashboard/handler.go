// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/membership"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/app/system/viewdata"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type Handler struct {
	Svc        *membership.Service
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(svc *membership.Service, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:        svc,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
	}
}

type dashboardData struct {
	viewdata.BaseVM
	Groups []models.StudyGroup
}

// ServeDashboard shows the signed-in user's groups, the create/join/leave
// forms and any queued flash messages.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Svc.GroupsFor(ctx, u.Identity())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups for user failed", err, "A database error occurred.", "/")
		return
	}

	data := dashboardData{
		BaseVM: viewdata.NewBaseVM(r, "Dashboard"),
		Groups: groups,
	}
	data.Flashes = h.SessionMgr.Flashes(w, r)

	templates.Render(w, r, "dashboard", data)
}
