// internal/app/requestflow/requestflow.go

// Package requestflow runs the access-request state machine: a user
// submits a request to join a group, a group admin (or global admin)
// reviews it, and an approved review is applied as a membership grant.
// Requests move pending → approved|rejected and are never deleted.
package requestflow

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jowpereira/mcp-server/internal/app/directory"
	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"github.com/jowpereira/mcp-server/internal/domain/models"
	"go.uber.org/zap"
)

const (
	justificationMin = 5
	justificationMax = 500
)

type Service struct {
	store requeststore
	dir   *directory.Service
	log   *zap.Logger

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

// requeststore is the persistence surface the workflow needs; it
// matches requeststore.Store and is redeclared here so tests can stub
// it without a real backend.
type requeststore interface {
	List(ctx context.Context) ([]models.AccessRequest, error)
	Insert(ctx context.Context, req models.AccessRequest) error
	Update(ctx context.Context, req models.AccessRequest) error
}

// New wires the workflow to its request store and the directory
// service, and registers the rename hook that re-keys pending requests
// when a group is renamed.
func New(store requeststore, dir *directory.Service, logger *zap.Logger) *Service {
	s := &Service{
		store: store,
		dir:   dir,
		log:   logger,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	dir.OnRename(s.renameGroup)
	return s
}

// Submit creates a pending request for (username, group). The group
// must exist; users who already belong to the group, or already have a
// pending request for it, get a conflict.
func (s *Service) Submit(ctx context.Context, username, group, justification string) (models.AccessRequest, error) {
	justification = strings.TrimSpace(justification)
	if n := utf8.RuneCountInString(justification); n < justificationMin || n > justificationMax {
		return models.AccessRequest{}, fault.Invalid("justificativa deve ter entre %d e %d caracteres", justificationMin, justificationMax)
	}

	snap, err := s.dir.Snapshot(ctx)
	if err != nil {
		return models.AccessRequest{}, err
	}
	if _, ok := snap.Users[username]; !ok {
		return models.AccessRequest{}, fault.NotFound("usuário %q não encontrado", username)
	}
	g, ok := snap.Groups[group]
	if !ok {
		return models.AccessRequest{}, fault.NotFound("grupo %q não encontrado", group)
	}
	if g.HasMember(username) || g.HasAdmin(username) {
		return models.AccessRequest{}, fault.Conflict("você já pertence ao grupo %q", group)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.List(ctx)
	if err != nil {
		return models.AccessRequest{}, err
	}
	for _, r := range existing {
		if r.Username == username && r.Group == group && r.Status == models.StatusPending {
			return models.AccessRequest{}, fault.Conflict("já existe solicitação pendente para o grupo %q", group)
		}
	}

	req := models.AccessRequest{
		ID:            s.newID(),
		Username:      username,
		Group:         group,
		Status:        models.StatusPending,
		Justification: justification,
		CreatedAt:     s.now(),
	}
	if err := s.store.Insert(ctx, req); err != nil {
		return models.AccessRequest{}, err
	}
	s.log.Info("access request submitted", zap.String("request_id", req.ID),
		zap.String("user", username), zap.String("group", group))
	return req, nil
}

// Review records the decision on a pending request. Terminal requests
// cannot be re-reviewed. Decision must be approved or rejected; a
// request whose group has since been deleted can only be rejected.
func (s *Service) Review(ctx context.Context, requestID, reviewer string, decision models.RequestStatus, comment string) (models.AccessRequest, error) {
	if decision != models.StatusApproved && decision != models.StatusRejected {
		return models.AccessRequest{}, fault.Invalid("decisão deve ser approved ou rejected")
	}
	if utf8.RuneCountInString(comment) > justificationMax {
		return models.AccessRequest{}, fault.Invalid("comentário deve ter no máximo %d caracteres", justificationMax)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req, err := s.findLocked(ctx, requestID)
	if err != nil {
		return models.AccessRequest{}, err
	}
	if req.Status.Terminal() {
		return models.AccessRequest{}, fault.Conflict("solicitação já foi %s", req.Status)
	}
	if decision == models.StatusApproved {
		// An approval is only recorded when the grant can still be
		// applied; otherwise the request stays pending.
		snap, err := s.dir.Snapshot(ctx)
		if err != nil {
			return models.AccessRequest{}, err
		}
		if _, ok := snap.Groups[req.Group]; !ok {
			return models.AccessRequest{}, fault.NotFound("grupo %q não encontrado", req.Group)
		}
	}

	now := s.now()
	req.Status = decision
	req.UpdatedAt = &now
	req.ReviewedBy = &reviewer
	if comment != "" {
		req.ReviewComment = &comment
	}
	if err := s.store.Update(ctx, req); err != nil {
		return models.AccessRequest{}, err
	}
	s.log.Info("access request reviewed", zap.String("request_id", requestID),
		zap.String("reviewer", reviewer), zap.String("decision", string(decision)))
	return req, nil
}

// Apply grants the membership of an approved request. Adding a member
// is idempotent, so a user who joined through another path in the
// meantime still yields success. Calling Apply on a request that is
// not approved is a programming error, reported as internal.
func (s *Service) Apply(ctx context.Context, requestID string) error {
	s.mu.Lock()
	req, err := s.findLocked(ctx, requestID)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if req.Status != models.StatusApproved {
		return fault.Internal("apply chamado para solicitação não aprovada",
			fault.Invalid("solicitação %q está %s", requestID, req.Status))
	}
	return s.dir.AddMember(ctx, req.Group, req.Username)
}

// Get returns one request by id.
func (s *Service) Get(ctx context.Context, requestID string) (models.AccessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(ctx, requestID)
}

// ListByUser returns every request the user has submitted, any status,
// oldest first.
func (s *Service) ListByUser(ctx context.Context, username string) ([]models.AccessRequest, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.AccessRequest{}
	for _, r := range all {
		if r.Username == username {
			out = append(out, r)
		}
	}
	sortByCreated(out)
	return out, nil
}

// ListPendingForAdmin returns pending requests for every group the
// reviewer administers; a global admin sees pending requests for all
// groups.
func (s *Service) ListPendingForAdmin(ctx context.Context, username string) ([]models.AccessRequest, error) {
	snap, err := s.dir.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	u, ok := snap.Users[username]
	if !ok {
		return nil, fault.NotFound("usuário %q não encontrado", username)
	}
	global := u.Role == models.RoleGlobalAdmin

	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.AccessRequest{}
	for _, r := range all {
		if r.Status != models.StatusPending {
			continue
		}
		if global {
			out = append(out, r)
			continue
		}
		if g, ok := snap.Groups[r.Group]; ok && g.HasAdmin(username) {
			out = append(out, r)
		}
	}
	sortByCreated(out)
	return out, nil
}

// MigrateLegacy drains the old join_requests queue from the snapshot
// into pending access requests, then clears the queue. Entries for
// vanished groups or users, for users who already joined, or that
// already have a pending request are skipped.
func (s *Service) MigrateLegacy(ctx context.Context) error {
	queue, err := s.dir.JoinRequestQueue(ctx)
	if err != nil {
		return err
	}
	if len(queue) == 0 {
		return nil
	}
	migrated := 0
	for group, usernames := range queue {
		for _, username := range usernames {
			_, err := s.Submit(ctx, username, group, "migrado da fila legada de solicitações")
			switch {
			case err == nil:
				migrated++
			case fault.Is(err, fault.KindConflict), fault.Is(err, fault.KindNotFound):
				// Stale legacy entry; nothing to carry over.
			default:
				return err
			}
		}
	}
	s.log.Info("legacy join queue migrated", zap.Int("migrated", migrated))
	return s.dir.ClearJoinRequests(ctx)
}

// renameGroup re-keys pending requests after a group rename. Terminal
// requests keep the historical name.
func (s *Service) renameGroup(ctx context.Context, oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	for _, r := range all {
		if r.Group == oldName && r.Status == models.StatusPending {
			r.Group = newName
			if err := s.store.Update(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) findLocked(ctx context.Context, requestID string) (models.AccessRequest, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return models.AccessRequest{}, err
	}
	for _, r := range all {
		if r.ID == requestID {
			return r, nil
		}
	}
	return models.AccessRequest{}, fault.NotFound("solicitação não encontrada")
}

func sortByCreated(reqs []models.AccessRequest) {
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.Before(reqs[j].CreatedAt) })
}
