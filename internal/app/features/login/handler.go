// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/membership"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/app/system/viewdata"
	"github.com/dalemusser/studyhub/internal/domain/errs"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// badCredentials is shown for an unknown username and for a wrong password.
const badCredentials = "Username or password is incorrect"

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
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Username  string
	ReturnURL string
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, data loginFormData) {
	data.BaseVM = viewdata.NewBaseVM(r, "Log in")
	templates.Render(w, r, "login", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeLogin renders the login form. It also serves GET /.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, loginFormData{ReturnURL: r.URL.Query().Get("return")})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login form failed", err, "Invalid form data.", "/login")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	ret := strings.TrimSpace(r.PostFormValue("return"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Svc.Authenticate(ctx, username, password)
	if errors.Is(err, errs.ErrAuth) {
		h.Log.Info("login failed", zap.String("username", username))
		h.renderForm(w, r, loginFormData{Error: badCredentials, Username: username, ReturnURL: ret})
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "authenticate failed", err, "A database error occurred.", "/login")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Could not sign you in.", "/login")
		return
	}
	h.Log.Info("login succeeded", zap.String("user_id", u.ID), zap.String("username", u.Username))
	http.Redirect(w, r, auth.SafeReturn(ret, "/dashboard"), http.StatusSeeOther)
}
