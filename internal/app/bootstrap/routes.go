// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	groupsfeature "github.com/jowpereira/mcp-server/internal/app/features/groups"
	healthfeature "github.com/jowpereira/mcp-server/internal/app/features/health"
	loginfeature "github.com/jowpereira/mcp-server/internal/app/features/login"
	requestsfeature "github.com/jowpereira/mcp-server/internal/app/features/requests"
	toolcatalogfeature "github.com/jowpereira/mcp-server/internal/app/features/toolcatalog"
	usersfeature "github.com/jowpereira/mcp-server/internal/app/features/users"
	"github.com/jowpereira/mcp-server/internal/app/system/auth"
	"github.com/jowpereira/mcp-server/internal/app/system/httpjson"
)

// BuildHandler constructs the root HTTP handler for the gateway.
//
// WAFFLE calls this after configuration, store connections, schema
// setup, and Startup have completed. Every API route lives under
// /tools, the prefix the frontend has always used; the root path
// answers with a small banner so probes get a 200.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.JWTExpiry, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Global auth middleware: verifies a Bearer token when one is
	// presented and loads the user into context.
	r.Use(tokens.LoadTokenUser)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		httpjson.Respond(w, http.StatusOK, map[string]string{"message": "MCP Gateway em execução"})
	})

	// Static assets for the bundled frontend, when present.
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	loginHandler := loginfeature.NewHandler(deps.Dir, tokens, appCfg.MigratePlaintext, logger)
	healthHandler := healthfeature.NewHandler(deps.Dir, deps.MongoClient, logger)
	groupsHandler := groupsfeature.NewHandler(deps.Dir, logger)
	usersHandler := usersfeature.NewHandler(deps.Dir, logger)
	toolsHandler := toolcatalogfeature.NewHandler(deps.Dir, logger)
	requestsHandler := requestsfeature.NewHandler(deps.Flow, deps.Dir, logger)

	r.Route("/tools", func(tr chi.Router) {
		tr.Mount("/", loginfeature.Routes(loginHandler))
		tr.Mount("/health", healthfeature.Routes(healthHandler))
		tr.Mount("/grupos", groupsfeature.Routes(groupsHandler))
		tr.Mount("/usuarios", usersfeature.Routes(usersHandler))
		tr.Mount("/ferramentas", toolcatalogfeature.Routes(toolsHandler))
		tr.Mount("/requests", requestsfeature.Routes(requestsHandler))
	})

	return r, nil
}
