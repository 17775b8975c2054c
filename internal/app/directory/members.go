// internal/app/directory/members.go
package directory

import (
	"context"

	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"github.com/jowpereira/mcp-server/internal/domain/models"
	"go.uber.org/zap"
)

// AddMember puts the user in the group. Adding an existing member is a
// success, not a conflict; applying the operation twice yields the
// same snapshot as once.
func (s *Service) AddMember(ctx context.Context, group, username string) error {
	err := s.update(ctx, "add_member", func(snap *models.Snapshot) error {
		g, ok := snap.Groups[group]
		if !ok {
			return fault.NotFound("grupo %q não encontrado", group)
		}
		u, ok := snap.Users[username]
		if !ok {
			return fault.NotFound("usuário %q não encontrado", username)
		}
		g.AddMember(username)
		u.AddGroup(group)
		return nil
	})
	if err == nil {
		s.log.Info("member added", zap.String("group", group), zap.String("user", username))
	}
	return err
}

// RemoveMember takes the user out of the group, revoking group admin
// status in the same group if held. When the user's last group goes,
// their role drops back to user unless they are a global admin.
func (s *Service) RemoveMember(ctx context.Context, group, username string) error {
	err := s.update(ctx, "remove_member", func(snap *models.Snapshot) error {
		g, ok := snap.Groups[group]
		if !ok {
			return fault.NotFound("grupo %q não encontrado", group)
		}
		if _, ok := snap.Users[username]; !ok {
			return fault.NotFound("usuário %q não encontrado", username)
		}
		if !g.HasMember(username) {
			return fault.NotFound("usuário %q não está no grupo %q", username, group)
		}
		g.RemoveMember(username)
		snap.Users[username].RemoveGroup(group)
		recomputeRole(snap, username)
		return nil
	})
	if err == nil {
		s.log.Info("member removed", zap.String("group", group), zap.String("user", username))
	}
	return err
}

// DesignateAdmin promotes an existing member to group admin. Becoming
// a member first is a hard precondition; the user is never auto-added.
func (s *Service) DesignateAdmin(ctx context.Context, group, username string) error {
	err := s.update(ctx, "designate_admin", func(snap *models.Snapshot) error {
		g, ok := snap.Groups[group]
		if !ok {
			return fault.NotFound("grupo %q não encontrado", group)
		}
		if _, ok := snap.Users[username]; !ok {
			return fault.NotFound("usuário %q não encontrado", username)
		}
		if !g.HasMember(username) {
			return fault.Precondition("usuário %q precisa ser membro do grupo %q antes de ser admin", username, group)
		}
		if g.HasAdmin(username) {
			return fault.Conflict("usuário %q já é admin do grupo %q", username, group)
		}
		g.AddAdmin(username)
		recomputeRole(snap, username)
		return nil
	})
	if err == nil {
		s.log.Info("admin designated", zap.String("group", group), zap.String("user", username))
	}
	return err
}

// RevokeAdmin strips group admin status. Removing the last admin of a
// group that still has members is refused unless force is set, which
// only a global authority may do.
func (s *Service) RevokeAdmin(ctx context.Context, group, username string, force bool) error {
	err := s.update(ctx, "revoke_admin", func(snap *models.Snapshot) error {
		g, ok := snap.Groups[group]
		if !ok {
			return fault.NotFound("grupo %q não encontrado", group)
		}
		if !g.HasAdmin(username) {
			return fault.NotFound("usuário %q não é admin do grupo %q", username, group)
		}
		if !force && len(g.Admins) == 1 && len(g.Members) > 0 {
			return fault.Precondition("grupo %q ficaria sem admins; apenas o admin global pode forçar", group)
		}
		g.RemoveAdmin(username)
		recomputeRole(snap, username)
		return nil
	})
	if err == nil {
		s.log.Info("admin revoked", zap.String("group", group),
			zap.String("user", username), zap.Bool("forced", force))
	}
	return err
}

// recomputeRole applies the per-group scoping rule: a user's role is
// admin exactly while they administer at least one group, otherwise
// user. Global admins are never touched.
func recomputeRole(snap *models.Snapshot, username string) {
	u, ok := snap.Users[username]
	if !ok || u.Role == models.RoleGlobalAdmin {
		return
	}
	for _, g := range snap.Groups {
		if g.HasAdmin(username) {
			u.Role = models.RoleAdmin
			return
		}
	}
	u.Role = models.RoleUser
}
