// internal/app/features/users/handler.go
package users

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/membership"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
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

// listing renders one line per user, joined by <br>. User-supplied fields
// are stripped of markup.
func listing(users []models.User) string {
	lines := make([]string, 0, len(users))
	for _, u := range users {
		lines = append(lines, fmt.Sprintf("ID: %s, Username: %s, Email: %s",
			u.ID, htmlsanitize.PlainText(u.Username), htmlsanitize.PlainText(u.Email)))
	}
	return strings.Join(lines, "<br>")
}

// ServeList handles GET /view_users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Svc.Users(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err, "A database error occurred.", "/dashboard")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, listing(all))
}

// HandleClear handles GET /clear_users. Any signed-in user may call it.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, err := h.Svc.ClearUsers(ctx, u.Identity()); err != nil {
		h.ErrLog.LogServerError(w, r, "clear users failed", err, "A database error occurred.", "/dashboard")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "All users deleted")
}
