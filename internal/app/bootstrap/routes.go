// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authapifeature "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/features/authapi"
	chatsfeature "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/features/chats"
	healthfeature "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/features/health"
	wsfeature "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/features/ws"
	userstore "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/store/users"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. The service exposes a JSON API
// plus the websocket push endpoint; there are no HTML pages.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh user data on each request so role
	// changes and disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication (login is the only unauthenticated API route).
	authHandler := authapifeature.NewHandler(deps.MongoDatabase, sessionMgr, logger)
	r.Route("/api/auth", authHandler.MountRoutes)

	// Chat API.
	chatsHandler := chatsfeature.NewHandler(deps.MongoDatabase, deps.Hub, logger)
	r.Route("/api/chats", func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		chatsHandler.MountRoutes(r)
	})

	// Realtime push. The session cookie authenticates the upgrade.
	wsHandler := wsfeature.NewHandler(deps.Hub, appCfg.AllowedOrigin, logger)
	r.Route("/api/ws", func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		wsHandler.MountRoutes(r)
	})

	return r, nil
}
