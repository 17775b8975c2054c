// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/jowpereira/mcp-server/internal/app/directory"
	"github.com/jowpereira/mcp-server/internal/app/requestflow"
	"github.com/jowpereira/mcp-server/internal/app/store/rbacstore"
	"github.com/jowpereira/mcp-server/internal/app/store/requeststore"
	"github.com/jowpereira/mcp-server/internal/app/system/password"
)

// ConnectDB builds the snapshot stores for the configured backend and
// the services on top of them.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	switch appCfg.StoreBackend {
	case "file":
		deps.RBAC = rbacstore.NewFileStore(appCfg.RBACFile, logger)
		deps.Requests = requeststore.NewFileStore(appCfg.RequestsFile, logger)
		logger.Info("using file store backend",
			zap.String("rbac_file", appCfg.RBACFile),
			zap.String("requests_file", appCfg.RequestsFile))

	case "mongo":
		opts := options.Client().
			ApplyURI(appCfg.MongoURI).
			SetMaxPoolSize(appCfg.MongoMaxPoolSize).
			SetMinPoolSize(appCfg.MongoMinPoolSize)
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
		}
		deps.MongoClient = client
		deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
		deps.RBAC = rbacstore.NewMongoStore(deps.MongoDatabase)
		deps.Requests = requeststore.NewMongoStore(deps.MongoDatabase)
		logger.Info("using mongo store backend", zap.String("database", appCfg.MongoDatabase))

	default:
		return DBDeps{}, fmt.Errorf("unknown store_backend %q", appCfg.StoreBackend)
	}

	deps.Dir = directory.New(deps.RBAC, logger)
	deps.Flow = requestflow.New(deps.Requests, deps.Dir, logger)
	return deps, nil
}

// EnsureSchema runs the startup migrations: the legacy join-request
// queue is converted into pending access requests, and the bootstrap
// global admin is created or promoted when configured.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := deps.Flow.MigrateLegacy(ctx); err != nil {
		return fmt.Errorf("migrate legacy join requests: %w", err)
	}

	if appCfg.BootstrapAdminUser != "" {
		hash, err := password.Hash(appCfg.BootstrapAdminPassword)
		if err != nil {
			return fmt.Errorf("hash bootstrap admin password: %w", err)
		}
		if err := deps.Dir.EnsureGlobalAdmin(ctx, appCfg.BootstrapAdminUser, hash); err != nil {
			return fmt.Errorf("ensure bootstrap admin: %w", err)
		}
		logger.Info("bootstrap global admin ensured", zap.String("username", appCfg.BootstrapAdminUser))
	}
	return nil
}
