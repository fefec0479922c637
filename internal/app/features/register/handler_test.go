package register_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/features/register"
	"github.com/dalemusser/studyhub/internal/app/membership"
	"github.com/dalemusser/studyhub/internal/app/system/passwords"
	"github.com/dalemusser/studyhub/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestHandler(t *testing.T) (*register.Handler, *membership.Service) {
	t.Helper()
	logger := zap.NewNop()
	svc, _ := testutil.NewService(t)
	return register.NewHandler(svc, uierrors.NewErrorLogger(logger), logger), svc
}

func post(h *register.Handler, username, email string) *httptest.ResponseRecorder {
	return postPassword(h, username, email, "pw")
}

func postPassword(h *register.Handler, username, email, password string) *httptest.ResponseRecorder {
	req := testutil.NewFormRequest("/register", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	})
	rec := httptest.NewRecorder()

	// Conflicts re-render the form, which panics without initialized templates
	func() {
		defer func() { recover() }()
		h.HandleRegisterPost(rec, req)
	}()
	return rec
}

func TestHandleRegisterPost_Success(t *testing.T) {
	handler, svc := newTestHandler(t)

	rec := post(handler, "alice", "a@x.com")

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/login" {
		t.Errorf("Location: got %q, want %q", location, "/login")
	}

	// No automatic sign-in
	for _, c := range rec.Result().Cookies() {
		if c.Name == testutil.SessionName {
			t.Error("registration should not set a session cookie")
		}
	}

	users, err := svc.Users(context.Background())
	if err != nil {
		t.Fatalf("Users failed: %v", err)
	}
	if len(users) != 1 || users[0].Username != "alice" {
		t.Errorf("expected alice registered, got %+v", users)
	}
}

func TestHandleRegisterPost_Conflicts(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"duplicate username", "alice", "b@x.com"},
		{"duplicate email", "bob", "a@x.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, svc := newTestHandler(t)
			if rec := post(handler, "alice", "a@x.com"); rec.Code != http.StatusSeeOther {
				t.Fatalf("first registration: got %d", rec.Code)
			}

			rec := post(handler, tt.username, tt.email)
			if rec.Code == http.StatusSeeOther {
				t.Error("conflicting registration should not redirect")
			}

			users, _ := svc.Users(context.Background())
			if len(users) != 1 {
				t.Errorf("expected 1 user, got %d", len(users))
			}
		})
	}
}

func TestHandleRegisterPost_LongPasswordWithBcrypt(t *testing.T) {
	logger := zap.NewNop()
	st := testutil.SetupSQLite(t)
	svc := membership.New(st.Users(), st.Groups(), st.Memberships(), passwords.Bcrypt{Cost: bcrypt.MinCost}, logger)
	handler := register.NewHandler(svc, uierrors.NewErrorLogger(logger), logger)

	long := strings.Repeat("p", 80)
	rec := postPassword(handler, "alice", "a@x.com", long)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/login" {
		t.Errorf("Location: got %q, want %q", location, "/login")
	}
	if _, err := svc.Authenticate(context.Background(), "alice", long); err != nil {
		t.Errorf("Authenticate with the long password failed: %v", err)
	}
}
