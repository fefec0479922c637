package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type harness struct {
	t      *testing.T
	router chi.Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zap.NewNop()
	svc, st := testutil.NewService(t)
	sm := testutil.NewSessionManager(t)
	sm.SetUserFetcher(auth.StoreFetcher{Users: st.Users(), Log: logger})
	return &harness{t: t, router: newRouter(svc, sm, st, BackendSQLite, logger)}
}

func (h *harness) do(method, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	h.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Accept", "text/html")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookies(t *testing.T, rec *httptest.ResponseRecorder) []*http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testutil.SessionName {
			return []*http.Cookie{c}
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestRouter_Health(t *testing.T) {
	h := newHarness(t)
	rec := h.do("GET", "/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"database":"connected"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestRouter_ProtectedRoutesRedirectAnonymous(t *testing.T) {
	h := newHarness(t)
	for _, path := range []string{"/dashboard", "/view_studygroups", "/view_users", "/clear_users", "/logout"} {
		rec := h.do("GET", path, nil, nil)
		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s: status = %d, want %d", path, rec.Code, http.StatusSeeOther)
			continue
		}
		want := "/login?return=" + url.QueryEscape(path)
		if got := rec.Header().Get("Location"); got != want {
			t.Errorf("%s: Location = %q, want %q", path, got, want)
		}
	}
}

func TestRouter_RegisterLoginAndClear(t *testing.T) {
	h := newHarness(t)

	rec := h.do("POST", "/register", url.Values{
		"username": {"alice"},
		"email":    {"alice@x.com"},
		"password": {"pw1"},
	}, nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("register: status %d, Location %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = h.do("POST", "/login", url.Values{"username": {"alice"}, "password": {"pw1"}}, nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("login: status %d, Location %q", rec.Code, rec.Header().Get("Location"))
	}
	cookies := sessionCookies(t, rec)

	rec = h.do("POST", "/create_group", url.Values{"group_name": {"Math"}}, cookies)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("create_group: status %d, Location %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = h.do("GET", "/view_users", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("view_users: status %d", rec.Code)
	}
	if body := rec.Body.String(); body != "ID: 1, Username: alice, Email: alice@x.com" {
		t.Errorf("view_users body = %q", body)
	}

	rec = h.do("GET", "/clear_users", nil, cookies)
	if rec.Code != http.StatusOK || rec.Body.String() != "All users deleted" {
		t.Fatalf("clear_users: status %d, body %q", rec.Code, rec.Body.String())
	}

	// The session's user is gone, so the same cookie no longer authenticates.
	rec = h.do("GET", "/view_users", nil, cookies)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("view_users after clear: status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}

func TestRouter_LogoutEndsSession(t *testing.T) {
	h := newHarness(t)
	h.do("POST", "/register", url.Values{"username": {"bob"}, "email": {"b@x.com"}, "password": {"pw"}}, nil)
	rec := h.do("POST", "/login", url.Values{"username": {"bob"}, "password": {"pw"}}, nil)
	cookies := sessionCookies(t, rec)

	rec = h.do("POST", "/logout", url.Values{}, cookies)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("logout: status %d, Location %q", rec.Code, rec.Header().Get("Location"))
	}
	expired := sessionCookies(t, rec)
	if expired[0].MaxAge >= 0 {
		t.Errorf("expected expired cookie, MaxAge = %d", expired[0].MaxAge)
	}

	rec = h.do("GET", "/view_users", nil, expired)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("view_users after logout: status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
}
