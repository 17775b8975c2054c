// internal/app/directory/users.go
package directory

import (
	"context"
	"sort"
	"strings"

	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"github.com/jowpereira/mcp-server/internal/domain/models"
	"go.uber.org/zap"
)

// CreateUser inserts a user record with an already-hashed credential
// and optional initial group memberships. Every named group must
// exist; memberships are recorded on both sides of the relation.
func (s *Service) CreateUser(ctx context.Context, username, passwordHash string, role models.Role, groups []string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fault.Invalid("username é obrigatório")
	}
	if passwordHash == "" {
		return fault.Invalid("senha é obrigatória")
	}
	if !role.Valid() {
		return fault.Invalid("papel inválido: %q", role)
	}
	if role == models.RoleAdmin && len(groups) == 0 {
		return fault.Invalid("papel admin exige ao menos um grupo inicial")
	}
	err := s.update(ctx, "create_user", func(snap *models.Snapshot) error {
		if _, ok := snap.Users[username]; ok {
			return fault.Conflict("username já existe")
		}
		for _, g := range groups {
			if _, ok := snap.Groups[g]; !ok {
				return fault.NotFound("grupo %q não encontrado", g)
			}
		}
		u := &models.User{Role: role, Groups: []string{}, PasswordHash: passwordHash}
		snap.Users[username] = u
		for _, g := range groups {
			snap.Groups[g].AddMember(username)
			u.AddGroup(g)
		}
		return nil
	})
	if err == nil {
		s.log.Info("user created", zap.String("user", username), zap.String("role", string(role)))
	}
	return err
}

// DeleteUser removes the user and cascades them out of every group's
// member and admin lists.
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	err := s.update(ctx, "delete_user", func(snap *models.Snapshot) error {
		if _, ok := snap.Users[username]; !ok {
			return fault.NotFound("usuário %q não encontrado", username)
		}
		delete(snap.Users, username)
		for _, g := range snap.Groups {
			g.RemoveMember(username)
		}
		for group, queue := range snap.JoinRequests {
			out := queue[:0]
			for _, name := range queue {
				if name != username {
					out = append(out, name)
				}
			}
			snap.JoinRequests[group] = out
		}
		return nil
	})
	if err == nil {
		s.log.Info("user deleted", zap.String("user", username))
	}
	return err
}

// GetUser returns a copy of one user record.
func (s *Service) GetUser(ctx context.Context, username string) (models.User, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return models.User{}, err
	}
	u, ok := snap.Users[username]
	if !ok {
		return models.User{}, fault.NotFound("usuário %q não encontrado", username)
	}
	return models.User{
		Role:         u.Role,
		Groups:       append([]string{}, u.Groups...),
		PasswordHash: u.PasswordHash,
	}, nil
}

// ListUsernames returns all usernames, sorted.
func (s *Service) ListUsernames(ctx context.Context) ([]string, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(snap.Users))
	for name := range snap.Users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// SetPasswordHash replaces a user's stored credential. Also used by
// the login path to upgrade legacy plaintext entries to bcrypt.
func (s *Service) SetPasswordHash(ctx context.Context, username, passwordHash string) error {
	if passwordHash == "" {
		return fault.Invalid("senha é obrigatória")
	}
	return s.update(ctx, "set_password", func(snap *models.Snapshot) error {
		u, ok := snap.Users[username]
		if !ok {
			return fault.NotFound("usuário %q não encontrado", username)
		}
		u.PasswordHash = passwordHash
		return nil
	})
}

// EnsureGlobalAdmin guarantees a global_admin account exists at
// startup. An existing user is promoted; a missing one is created with
// the given hash. No-op when the username is empty.
func (s *Service) EnsureGlobalAdmin(ctx context.Context, username, passwordHash string) error {
	if username == "" {
		return nil
	}
	return s.update(ctx, "ensure_global_admin", func(snap *models.Snapshot) error {
		if u, ok := snap.Users[username]; ok {
			if u.Role != models.RoleGlobalAdmin {
				s.log.Info("promoting bootstrap user to global_admin", zap.String("user", username))
				u.Role = models.RoleGlobalAdmin
			}
			return nil
		}
		if passwordHash == "" {
			return fault.Invalid("senha do admin de bootstrap é obrigatória para criar a conta")
		}
		s.log.Info("creating bootstrap global_admin", zap.String("user", username))
		snap.Users[username] = &models.User{
			Role:         models.RoleGlobalAdmin,
			Groups:       []string{},
			PasswordHash: passwordHash,
		}
		return nil
	})
}

// JoinRequestQueue returns the legacy join_requests queue, if any.
func (s *Service) JoinRequestQueue(ctx context.Context) (map[string][]string, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(snap.JoinRequests) == 0 {
		return nil, nil
	}
	out := make(map[string][]string, len(snap.JoinRequests))
	for g, names := range snap.JoinRequests {
		out[g] = append([]string{}, names...)
	}
	return out, nil
}

// ClearJoinRequests drops the legacy queue after it has been drained
// into proper access requests.
func (s *Service) ClearJoinRequests(ctx context.Context) error {
	return s.update(ctx, "clear_join_requests", func(snap *models.Snapshot) error {
		snap.JoinRequests = nil
		return nil
	})
}
