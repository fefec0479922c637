package groups_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	uierrors "github.com/dalemusser/studyhub/internal/app/features/errors"
	"github.com/dalemusser/studyhub/internal/app/features/groups"
	"github.com/dalemusser/studyhub/internal/app/membership"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type env struct {
	router http.Handler
	sm     *auth.SessionManager
	svc    *membership.Service
	alice  models.User
	bob    models.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := zap.NewNop()
	svc, _ := testutil.NewService(t)
	sm := testutil.NewSessionManager(t)

	r := chi.NewRouter()
	groups.Routes(r, groups.NewHandler(svc, sm, uierrors.NewErrorLogger(logger), logger), sm)

	ctx := context.Background()
	alice, err := svc.Register(ctx, "alice", "a@x.com", "pw")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	bob, err := svc.Register(ctx, "bob", "b@x.com", "pw")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return &env{router: r, sm: sm, svc: svc, alice: alice, bob: bob}
}

// post submits group_name as u and returns the recorder.
func (e *env) post(t *testing.T, u models.User, path, name string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.WithUser(testutil.NewFormRequest(path, url.Values{"group_name": {name}}), u)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("%s: expected status %d, got %d", path, http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/dashboard" {
		t.Fatalf("%s: Location: got %q, want %q", path, location, "/dashboard")
	}
	return rec
}

// flashes replays the response cookies and pops the queued messages.
func (e *env) flashes(rec *httptest.ResponseRecorder) []string {
	req := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	var out []string
	for _, f := range e.sm.Flashes(httptest.NewRecorder(), req) {
		out = append(out, f.Message)
	}
	return out
}

func (e *env) members(t *testing.T, name string) []string {
	t.Helper()
	users, err := e.svc.Members(context.Background(), name)
	if err != nil {
		t.Fatalf("Members(%q) failed: %v", name, err)
	}
	var out []string
	for _, u := range users {
		out = append(out, u.Username)
	}
	return out
}

func assertFlash(t *testing.T, got []string, want string) {
	t.Helper()
	if len(got) != 1 || got[0] != want {
		t.Errorf("flashes: got %q, want [%q]", got, want)
	}
}

func TestCreateGroup(t *testing.T) {
	e := newEnv(t)

	rec := e.post(t, e.alice, "/create_group", "Math")
	if got := e.flashes(rec); len(got) != 0 {
		t.Errorf("expected no flashes, got %q", got)
	}
	if got := e.members(t, "Math"); len(got) != 1 || got[0] != "alice" {
		t.Errorf("members: got %q, want [alice]", got)
	}

	rec = e.post(t, e.bob, "/create_group", "Math")
	assertFlash(t, e.flashes(rec), "A group with that name already exists!")
}

func TestJoinGroup(t *testing.T) {
	e := newEnv(t)
	e.post(t, e.alice, "/create_group", "Math")

	rec := e.post(t, e.bob, "/join_group", "Math")
	if got := e.flashes(rec); len(got) != 0 {
		t.Errorf("expected no flashes, got %q", got)
	}
	if got := e.members(t, "Math"); len(got) != 2 || got[1] != "bob" {
		t.Errorf("members: got %q, want [alice bob]", got)
	}

	rec = e.post(t, e.bob, "/join_group", "Math")
	assertFlash(t, e.flashes(rec), "You are already a member of this group!")

	rec = e.post(t, e.bob, "/join_group", "nope")
	assertFlash(t, e.flashes(rec), "Group not found!")
}

func TestLeaveGroup(t *testing.T) {
	e := newEnv(t)
	e.post(t, e.alice, "/create_group", "Math")

	rec := e.post(t, e.bob, "/leave_group", "Math")
	assertFlash(t, e.flashes(rec), "You are not a member of this group!")

	rec = e.post(t, e.alice, "/leave_group", "Math")
	if got := e.flashes(rec); len(got) != 0 {
		t.Errorf("expected no flashes, got %q", got)
	}
	if got := e.members(t, "Math"); len(got) != 0 {
		t.Errorf("members: got %q, want none", got)
	}

	rec = e.post(t, e.alice, "/leave_group", "nope")
	assertFlash(t, e.flashes(rec), "Group not found!")
}

func TestGroupRoutes_RequireSignIn(t *testing.T) {
	e := newEnv(t)

	req := testutil.NewFormRequest("/create_group", url.Values{"group_name": {"Math"}})
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/login?return=%2Fcreate_group" {
		t.Errorf("Location: got %q", location)
	}
	if _, err := e.svc.Members(context.Background(), "Math"); err == nil {
		t.Error("anonymous create should not create a group")
	}
}
