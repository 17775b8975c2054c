// internal/app/store/requeststore/filestore.go
package requeststore

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

// requestsFile is the persisted document shape ({"requests": [...]}),
// kept from the original requests.json.
type requestsFile struct {
	Requests []models.AccessRequest `json:"requests"`
}

// FileStore keeps the request history in a single JSON file, rewritten
// whole via temp-file rename on every mutation.
type FileStore struct {
	path string
	log  *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, log: logger}
}

func (s *FileStore) List(ctx context.Context) ([]models.AccessRequest, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Requests, nil
}

func (s *FileStore) Insert(ctx context.Context, req models.AccessRequest) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Requests = append(doc.Requests, req)
	return s.save(doc)
}

func (s *FileStore) Update(ctx context.Context, req models.AccessRequest) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	for i := range doc.Requests {
		if doc.Requests[i].ID == req.ID {
			doc.Requests[i] = req
			return s.save(doc)
		}
	}
	return fault.NotFound("solicitação %q não encontrada", req.ID)
}

func (s *FileStore) load() (requestsFile, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return requestsFile{Requests: []models.AccessRequest{}}, nil
	}
	if err != nil {
		return requestsFile{}, fault.Internal("falha ao ler solicitações", err)
	}
	var doc requestsFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return requestsFile{}, fault.Internal("arquivo de solicitações corrompido", err)
	}
	if doc.Requests == nil {
		doc.Requests = []models.AccessRequest{}
	}
	return doc, nil
}

func (s *FileStore) save(doc requestsFile) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fault.Internal("falha ao serializar solicitações", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fault.Internal("falha ao criar diretório de dados", err)
	}
	tmp, err := os.CreateTemp(dir, ".requests-*.json")
	if err != nil {
		return fault.Internal("falha ao criar arquivo temporário", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fault.Internal("falha ao gravar solicitações", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fault.Internal("falha ao gravar solicitações", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fault.Internal("falha ao gravar solicitações", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fault.Internal("falha ao publicar solicitações", err)
	}
	return nil
}
