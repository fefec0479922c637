// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	dashboardfeature "github.com/dalemusser/studyhub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/studyhub/internal/app/features/errors"
	groupsfeature "github.com/dalemusser/studyhub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/studyhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/studyhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/studyhub/internal/app/features/logout"
	registerfeature "github.com/dalemusser/studyhub/internal/app/features/register"
	sessionfeature "github.com/dalemusser/studyhub/internal/app/features/session"
	_ "github.com/dalemusser/studyhub/internal/app/features/shared"
	usersfeature "github.com/dalemusser/studyhub/internal/app/features/users"
	"github.com/dalemusser/studyhub/internal/app/membership"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/passwords"
	"github.com/dalemusser/studyhub/internal/app/system/reqlog"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. StudyHub builds the membership service
// over the configured backend, boots the template engine, and mounts the
// feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	hasher, err := passwords.New(appCfg.PasswordStorage)
	if err != nil {
		return nil, err
	}

	st := deps.stores(logger)

	// LoadSessionUser re-reads the user on every request, so a cleared
	// account is signed out immediately.
	sessionMgr.SetUserFetcher(auth.StoreFetcher{Users: st.users, Log: logger})

	svc := membership.New(st.users, st.groups, st.members, hasher, logger)

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	return newRouter(svc, sessionMgr, st.pinger, deps.Backend, logger), nil
}

// newRouter mounts every feature. It does not touch the template engine.
func newRouter(svc *membership.Service, sessionMgr *auth.SessionManager, pinger healthfeature.Pinger, backend string, logger *zap.Logger) chi.Router {
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(reqlog.Middleware(logger))

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	r.NotFound(errorsfeature.NotFound)

	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(pinger, backend, logger)))

	loginHandler := loginfeature.NewHandler(svc, sessionMgr, errLog, logger)
	r.Get("/", loginHandler.ServeLogin)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/register", registerfeature.Routes(registerfeature.NewHandler(svc, errLog, logger)))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(sessionMgr, logger), sessionMgr))
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardfeature.NewHandler(svc, sessionMgr, errLog, logger), sessionMgr))

	// Group and user actions live at top-level paths, so they register
	// directly on the root router.
	groupsfeature.Routes(r, groupsfeature.NewHandler(svc, sessionMgr, errLog, logger), sessionMgr)
	usersfeature.Routes(r, usersfeature.NewHandler(svc, errLog, logger), sessionMgr)

	r.Mount("/session", sessionfeature.Routes(sessionfeature.NewHandler(svc, errLog, logger)))

	return r
}
