// internal/app/store/rbacstore/filestore.go
package rbacstore

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"github.com/jowpereira/mcp-server/internal/domain/models"
	"go.uber.org/zap"
)

// FileStore keeps the snapshot in a single JSON document (rbac.json),
// the format the gateway has always used. Commits go through a temp
// file plus rename in the same directory, so a crash mid-write never
// leaves a torn snapshot behind.
type FileStore struct {
	path string
	log  *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, log: logger}
}

func (s *FileStore) Load(ctx context.Context) (models.Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Info("rbac file not found, starting empty", zap.String("path", s.path))
		return models.NewSnapshot(), nil
	}
	if err != nil {
		return models.Snapshot{}, fault.Internal("falha ao ler base RBAC", err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return models.Snapshot{}, fault.Internal("base RBAC corrompida", err)
	}
	snap.Normalize()
	return snap, nil
}

func (s *FileStore) Commit(ctx context.Context, snap models.Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fault.Internal("falha ao serializar base RBAC", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fault.Internal("falha ao criar diretório de dados", err)
	}
	tmp, err := os.CreateTemp(dir, ".rbac-*.json")
	if err != nil {
		return fault.Internal("falha ao criar arquivo temporário", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fault.Internal("falha ao gravar base RBAC", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fault.Internal("falha ao gravar base RBAC", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fault.Internal("falha ao gravar base RBAC", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fault.Internal("falha ao publicar base RBAC", err)
	}
	return nil
}
