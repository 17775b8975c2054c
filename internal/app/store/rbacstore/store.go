// internal/app/store/rbacstore/store.go
package rbacstore

import (
	"context"

	"github.com/jowpereira/mcp-server/internal/domain/models"
)

// Store persists the relationship snapshot. Load returns the latest
// committed snapshot; Commit atomically replaces it with a new one.
// The directory service serializes all Commit calls behind its own
// lock, so implementations only need to make a single Commit atomic,
// not to coordinate concurrent writers.
type Store interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Commit(ctx context.Context, snap models.Snapshot) error
}
