// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the gateway.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: store_backend, jwt_secret, etc.
//   - Environment variables: MCPSERVER_STORE_BACKEND, MCPSERVER_JWT_SECRET, etc.
//   - Command-line flags: --store_backend, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: "file", Desc: "Snapshot backend: 'file' or 'mongo'"},
	{Name: "rbac_file", Default: "data/rbac.json", Desc: "Path of the RBAC snapshot file (file backend)"},
	{Name: "requests_file", Default: "data/requests.json", Desc: "Path of the access-request log file (file backend)"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI (mongo backend)"},
	{Name: "mongo_database", Default: "mcp_gateway", Desc: "MongoDB database name (mongo backend)"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "jwt_secret", Default: "dev-only-change-me-0123456789ABCDEF", Desc: "JWT signing secret (must be strong in production)"},
	{Name: "jwt_expiry", Default: "1h", Desc: "Access token lifetime (e.g., 30m, 1h)"},

	{Name: "bootstrap_admin_user", Default: "", Desc: "Username of the bootstrap global admin (created/promoted on startup)"},
	{Name: "bootstrap_admin_password", Default: "", Desc: "Password for the bootstrap global admin (only used when the user is created)"},

	{Name: "migrate_plaintext", Default: true, Desc: "Upgrade legacy plaintext passwords to bcrypt on first login"},

	{Name: "cors_origins", Default: "*", Desc: "Comma-separated list of allowed CORS origins"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, MCPSERVER_* for app), and
// command-line flags, merged with precedence flags > env > files >
// defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "MCPSERVER", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend: appValues.String("store_backend"),
		RBACFile:     appValues.String("rbac_file"),
		RequestsFile: appValues.String("requests_file"),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTExpiry: appValues.Duration("jwt_expiry", time.Hour),

		BootstrapAdminUser:     appValues.String("bootstrap_admin_user"),
		BootstrapAdminPassword: appValues.String("bootstrap_admin_password"),

		MigratePlaintext: appValues.Bool("migrate_plaintext"),

		CORSOrigins: splitOrigins(appValues.String("cors_origins")),
	}
	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before any
// backend is touched.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreBackend {
	case "file":
		if appCfg.RBACFile == "" || appCfg.RequestsFile == "" {
			return fmt.Errorf("file backend requires rbac_file and requests_file")
		}
	case "mongo":
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	default:
		return fmt.Errorf("unknown store_backend %q (want 'file' or 'mongo')", appCfg.StoreBackend)
	}

	if len(appCfg.JWTSecret) < 16 {
		return fmt.Errorf("jwt_secret must be at least 16 characters")
	}
	if coreCfg.Env == "prod" && strings.HasPrefix(appCfg.JWTSecret, "dev-only-") {
		return fmt.Errorf("jwt_secret must be changed from the dev default in production")
	}
	if appCfg.BootstrapAdminUser != "" && appCfg.BootstrapAdminPassword == "" {
		return fmt.Errorf("bootstrap_admin_user requires bootstrap_admin_password")
	}
	return nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
