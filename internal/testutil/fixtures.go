package testutil

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"github.com/jowpereira/mcp-server/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that call handlers directly instead of
// going through a router.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// MemRBACStore is an in-memory snapshot store for tests. Load and
// Commit deep-copy, so tests observe the same isolation the file and
// mongo stores provide.
type MemRBACStore struct {
	mu      sync.Mutex
	snap    models.Snapshot
	Commits int

	FailLoad   error // when set, Load returns this error
	FailCommit error // when set, Commit returns this error
}

func NewMemRBACStore(snap models.Snapshot) *MemRBACStore {
	snap.Normalize()
	return &MemRBACStore{snap: snap.Clone()}
}

func (s *MemRBACStore) Load(ctx context.Context) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailLoad != nil {
		return models.Snapshot{}, s.FailLoad
	}
	return s.snap.Clone(), nil
}

func (s *MemRBACStore) Commit(ctx context.Context, snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCommit != nil {
		return s.FailCommit
	}
	s.snap = snap.Clone()
	s.Commits++
	return nil
}

// Current returns a copy of the last committed snapshot.
func (s *MemRBACStore) Current() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// MemRequestStore is an in-memory access-request store for tests.
type MemRequestStore struct {
	mu   sync.Mutex
	reqs []models.AccessRequest
}

func NewMemRequestStore(reqs ...models.AccessRequest) *MemRequestStore {
	return &MemRequestStore{reqs: append([]models.AccessRequest(nil), reqs...)}
}

func (s *MemRequestStore) List(ctx context.Context) ([]models.AccessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AccessRequest(nil), s.reqs...), nil
}

func (s *MemRequestStore) Insert(ctx context.Context, req models.AccessRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs = append(s.reqs, req)
	return nil
}

func (s *MemRequestStore) Update(ctx context.Context, req models.AccessRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reqs {
		if s.reqs[i].ID == req.ID {
			s.reqs[i] = req
			return nil
		}
	}
	return fault.NotFound("solicitação '%s' não encontrada", req.ID)
}

// SeedSnapshot builds the standard fixture: a global admin, a group
// admin, a plain member, two groups, and a small tool catalog with one
// attachment.
//
//	admin  global_admin, no groups
//	maria  admin of "vendas", member of "vendas"
//	joao   user, member of "vendas"
//	ana    user, member of "engenharia"
//
// Passwords are stored as legacy plaintext so login tests can exercise
// the migration path; tests that need a bcrypt hash set one themselves.
func SeedSnapshot() models.Snapshot {
	snap := models.NewSnapshot()

	snap.Tools["ferramenta_x"] = &models.Tool{
		Name:        "Ferramenta X",
		BaseURL:     "http://ferramenta-x.internal",
		Description: "Consulta de clientes",
	}
	snap.Tools["ferramenta_y"] = &models.Tool{
		Name:        "Ferramenta Y",
		BaseURL:     "http://ferramenta-y.internal",
		Description: "Relatórios",
	}

	snap.Groups["vendas"] = &models.Group{
		Description: "Equipe de vendas",
		Admins:      []string{"maria"},
		Members:     []string{"maria", "joao"},
		Tools:       []string{"ferramenta_x"},
	}
	snap.Groups["engenharia"] = &models.Group{
		Description: "Equipe de engenharia",
		Admins:      []string{},
		Members:     []string{"ana"},
		Tools:       []string{},
	}

	snap.Users["admin"] = &models.User{Role: models.RoleGlobalAdmin, Groups: []string{}, PasswordHash: "admin123senha"}
	snap.Users["maria"] = &models.User{Role: models.RoleAdmin, Groups: []string{"vendas"}, PasswordHash: "maria123senha"}
	snap.Users["joao"] = &models.User{Role: models.RoleUser, Groups: []string{"vendas"}, PasswordHash: "joao123senha"}
	snap.Users["ana"] = &models.User{Role: models.RoleUser, Groups: []string{"engenharia"}, PasswordHash: "ana123senha"}

	return snap
}
