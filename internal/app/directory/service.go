// internal/app/directory/service.go

// Package directory owns every mutation of the relationship snapshot:
// groups, group membership and admin designation, the tool catalog,
// and user records. All writes run as read-validate-mutate-commit
// transactions behind a single lock, because user records span groups
// (a rename or cascading delete touches many entries at once) and two
// mutations must never interleave between load and commit.
package directory

import (
	"context"
	"sync"

	"github.com/jowpereira/mcp-server/internal/app/store/rbacstore"
	"github.com/jowpereira/mcp-server/internal/domain/models"
	"go.uber.org/zap"
)

// RenameHook is notified after a group rename commits, so collaborators
// holding group references (the access-request store) can re-key them.
type RenameHook func(ctx context.Context, oldName, newName string) error

type Service struct {
	store rbacstore.Store
	log   *zap.Logger

	mu          sync.Mutex
	renameHooks []RenameHook
}

func New(store rbacstore.Store, logger *zap.Logger) *Service {
	return &Service{store: store, log: logger}
}

// OnRename registers a hook invoked after a successful group rename.
// Must be called during wiring, before the service handles traffic.
func (s *Service) OnRename(h RenameHook) {
	s.renameHooks = append(s.renameHooks, h)
}

// Snapshot returns a deep copy of the latest committed snapshot for
// read-only use. Callers may inspect it freely; it shares nothing with
// the store.
func (s *Service) Snapshot(ctx context.Context) (models.Snapshot, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	return snap.Clone(), nil
}

// update runs one mutation transaction: load the latest snapshot,
// apply fn to a deep copy, check invariants, commit. On any error the
// committed snapshot is left untouched.
func (s *Service) update(ctx context.Context, op string, fn func(*models.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	work := snap.Clone()
	if err := fn(&work); err != nil {
		return err
	}
	if err := work.Validate(); err != nil {
		s.log.Error("operation produced inconsistent snapshot, refusing to commit",
			zap.String("op", op), zap.Error(err))
		return err
	}
	if err := s.store.Commit(ctx, work); err != nil {
		return err
	}
	return nil
}
