// internal/app/features/register/handler.go
package register

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/membership"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/app/system/viewdata"
	"github.com/dalemusser/studyhub/internal/domain/errs"
	"github.com/dalemusser/waffle/pantry/templates"
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

type registerFormData struct {
	viewdata.BaseVM
	Error    string
	Username string
	Email    string
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, data registerFormData) {
	data.BaseVM = viewdata.NewBaseVM(r, "Register")
	templates.Render(w, r, "register", data)
}

// formError maps a registration conflict to the message shown on the form.
func formError(err error) (string, bool) {
	switch {
	case errors.Is(err, errs.ErrUsernameTaken):
		return "Username already exists.", true
	case errors.Is(err, errs.ErrEmailTaken):
		return "Email already registered.", true
	}
	return "", false
}

// GET /register
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, registerFormData{})
}

// POST /register
func (h *Handler) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse register form failed", err, "Invalid form data.", "/register")
		return
	}
	username := r.PostFormValue("username")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Svc.Register(ctx, username, email, password); err != nil {
		if msg, ok := formError(err); ok {
			h.renderForm(w, r, registerFormData{Error: msg, Username: username, Email: email})
			return
		}
		h.ErrLog.LogServerError(w, r, "register failed", err, "A database error occurred.", "/register")
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
