package reqlog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMiddleware_AssignsID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	var seen string
	h := Middleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/view_users", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected a uuid request id, got %q", seen)
	}
	if rec.Header().Get(HeaderName) != seen {
		t.Errorf("response header %q != context id %q", rec.Header().Get(HeaderName), seen)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("logged status = %v", fields["status"])
	}
	if fields["path"] != "/view_users" {
		t.Errorf("logged path = %v", fields["path"])
	}
}

func TestMiddleware_ReusesInboundID(t *testing.T) {
	inbound := uuid.NewString()

	var seen string
	h := Middleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderName, inbound)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != inbound {
		t.Errorf("expected inbound id %q, got %q", inbound, seen)
	}
}

func TestMiddleware_ReplacesMalformedID(t *testing.T) {
	var seen string
	h := Middleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderName, "<script>")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen == "<script>" {
		t.Error("malformed inbound id was reused")
	}
}
