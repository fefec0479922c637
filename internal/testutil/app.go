package testutil

import (
	"testing"
	"time"

	"github.com/dalemusser/studyhub/internal/app/membership"
	sqlitestore "github.com/dalemusser/studyhub/internal/app/store/sqlite"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/passwords"
	"go.uber.org/zap"
)

// SessionName is the cookie name used by NewSessionManager.
const SessionName = "test-session"

// NewSessionManager returns a dev-mode session manager for handler tests.
func NewSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only!", SessionName, "", 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

// NewService wires a membership service to a fresh SQLite store. Passwords
// are stored verbatim so tests stay fast.
func NewService(t *testing.T) (*membership.Service, *sqlitestore.Store) {
	t.Helper()
	st := SetupSQLite(t)
	svc := membership.New(st.Users(), st.Groups(), st.Memberships(), passwords.Plain{}, zap.NewNop())
	return svc, st
}
