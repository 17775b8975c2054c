// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/jowpereira/mcp-server/internal/app/system/timeouts"
)

// Startup runs one-time initialization after the stores are connected
// and migrations have run, but before the HTTP handler is built. The
// snapshot is loaded once here so a corrupt or unreadable store fails
// startup instead of the first request.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long)
	defer cancel()

	snap, err := deps.Dir.Snapshot(ctx)
	if err != nil {
		return err
	}
	logger.Info("snapshot loaded",
		zap.Int("grupos", len(snap.Groups)),
		zap.Int("usuarios", len(snap.Users)),
		zap.Int("ferramentas", len(snap.Tools)))
	return nil
}
