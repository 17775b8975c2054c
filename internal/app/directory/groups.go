// internal/app/directory/groups.go
package directory

import (
	"context"
	"sort"
	"strings"

	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"github.com/jowpereira/mcp-server/internal/domain/models"
	"go.uber.org/zap"
)

// CreateGroup inserts a new, empty group.
func (s *Service) CreateGroup(ctx context.Context, name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fault.Invalid("nome do grupo é obrigatório")
	}
	err := s.update(ctx, "create_group", func(snap *models.Snapshot) error {
		if _, ok := snap.Groups[name]; ok {
			return fault.Conflict("grupo %q já existe", name)
		}
		snap.Groups[name] = &models.Group{
			Description: description,
			Admins:      []string{},
			Members:     []string{},
			Tools:       []string{},
		}
		return nil
	})
	if err == nil {
		s.log.Info("group created", zap.String("group", name))
	}
	return err
}

// UpdateGroup renames a group and/or replaces its description. A nil
// pointer leaves the field unchanged. Rename atomically re-keys the
// group and rewrites the groups set of every affected user; registered
// rename hooks then re-key pending access requests.
func (s *Service) UpdateGroup(ctx context.Context, name string, newName, description *string) error {
	var renamedTo string
	err := s.update(ctx, "update_group", func(snap *models.Snapshot) error {
		g, ok := snap.Groups[name]
		if !ok {
			return fault.NotFound("grupo %q não encontrado", name)
		}
		if description != nil {
			g.Description = *description
		}
		if newName == nil {
			return nil
		}
		target := strings.TrimSpace(*newName)
		if target == "" {
			return fault.Invalid("novo nome do grupo não pode ser vazio")
		}
		if target == name {
			return nil
		}
		if _, taken := snap.Groups[target]; taken {
			return fault.Conflict("grupo %q já existe", target)
		}
		delete(snap.Groups, name)
		snap.Groups[target] = g
		for _, u := range snap.Users {
			if u.InGroup(name) {
				u.RemoveGroup(name)
				u.AddGroup(target)
			}
		}
		if snap.JoinRequests != nil {
			if q, ok := snap.JoinRequests[name]; ok {
				delete(snap.JoinRequests, name)
				snap.JoinRequests[target] = q
			}
		}
		renamedTo = target
		return nil
	})
	if err != nil {
		return err
	}
	if renamedTo != "" {
		s.log.Info("group renamed", zap.String("from", name), zap.String("to", renamedTo))
		for _, hook := range s.renameHooks {
			if hookErr := hook(ctx, name, renamedTo); hookErr != nil {
				s.log.Error("rename hook failed", zap.String("from", name),
					zap.String("to", renamedTo), zap.Error(hookErr))
				return hookErr
			}
		}
	}
	return nil
}

// DeleteGroup removes the group and strips its name from every user's
// membership and role records. Stale references are dropped silently,
// so deleting twice only fails on the missing group itself.
func (s *Service) DeleteGroup(ctx context.Context, name string) error {
	err := s.update(ctx, "delete_group", func(snap *models.Snapshot) error {
		if _, ok := snap.Groups[name]; !ok {
			return fault.NotFound("grupo %q não encontrado", name)
		}
		delete(snap.Groups, name)
		for username, u := range snap.Users {
			if u.InGroup(name) {
				u.RemoveGroup(name)
				recomputeRole(snap, username)
			}
		}
		delete(snap.JoinRequests, name)
		return nil
	})
	if err == nil {
		s.log.Info("group deleted", zap.String("group", name))
	}
	return err
}

// ListGroups returns all group names, sorted.
func (s *Service) ListGroups(ctx context.Context) ([]string, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(snap.Groups))
	for name := range snap.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetGroup returns a copy of one group record.
func (s *Service) GetGroup(ctx context.Context, name string) (models.Group, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return models.Group{}, err
	}
	g, ok := snap.Groups[name]
	if !ok {
		return models.Group{}, fault.NotFound("grupo %q não encontrado", name)
	}
	return models.Group{
		Description: g.Description,
		Admins:      append([]string{}, g.Admins...),
		Members:     append([]string{}, g.Members...),
		Tools:       append([]string{}, g.Tools...),
	}, nil
}
