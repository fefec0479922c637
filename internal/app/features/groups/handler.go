// internal/app/features/groups/handler.go
package groups

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/membership"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/app/system/viewdata"
	"github.com/dalemusser/studyhub/internal/domain/errs"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Flash messages shown on the dashboard after a rejected mutation.
const (
	msgGroupExists   = "A group with that name already exists!"
	msgGroupNotFound = "Group not found!"
	msgAlreadyMember = "You are already a member of this group!"
	msgNotMember     = "You are not a member of this group!"
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

/*─────────────────────────────────────────────────────────────────────────────*
| GET /view_studygroups                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

type listData struct {
	viewdata.BaseVM
	Groups []models.GroupWithMembers
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Svc.Groups(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list study groups failed", err, "A database error occurred.", "/dashboard")
		return
	}

	templates.Render(w, r, "view_studygroups", listData{
		BaseVM: viewdata.NewBaseVM(r, "Study groups"),
		Groups: groups,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /create_group, /join_group, /leave_group                               |
*─────────────────────────────────────────────────────────────────────────────*/

// flashFor maps a rejected mutation to its dashboard message.
func flashFor(err error) (string, bool) {
	switch {
	case errors.Is(err, errs.ErrGroupExists):
		return msgGroupExists, true
	case errors.Is(err, errs.ErrGroupNotFound):
		return msgGroupNotFound, true
	case errors.Is(err, errs.ErrAlreadyMember):
		return msgAlreadyMember, true
	case errors.Is(err, errs.ErrNotMember):
		return msgNotMember, true
	}
	return "", false
}

// mutate runs op for the current user with the posted group_name and
// redirects to the dashboard, queueing a flash when op is rejected.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, action string, op func(ctx context.Context, actor models.Identity, name string) error) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/dashboard")
		return
	}
	name := r.PostFormValue("group_name")
	u, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := op(ctx, u.Identity(), name); err != nil {
		msg, ok := flashFor(err)
		if !ok {
			h.ErrLog.LogServerError(w, r, action+" failed", err, "A database error occurred.", "/dashboard")
			return
		}
		h.Log.Debug(action+" rejected", zap.String("group_name", name), zap.String("user_id", u.ID), zap.Error(err))
		if err := h.SessionMgr.AddFlash(w, r, "error", msg); err != nil {
			h.Log.Warn("save flash failed", zap.Error(err))
		}
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "create group", func(ctx context.Context, actor models.Identity, name string) error {
		_, err := h.Svc.CreateGroup(ctx, actor, name)
		return err
	})
}

func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "join group", h.Svc.JoinGroup)
}

func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "leave group", h.Svc.LeaveGroup)
}
