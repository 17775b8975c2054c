// internal/domain/models/role.go
package models

import "github.com/jowpereira/mcp-server/internal/domain/fault"

// Role is the gateway-wide role of a user. Group-scoped authority
// (who administers which group) lives on the Group record; Role only
// distinguishes plain users, users who administer at least one group,
// and global administrators.
type Role string

const (
	RoleUser        Role = "user"
	RoleAdmin       Role = "admin"
	RoleGlobalAdmin Role = "global_admin"
)

// ParseRole validates a wire-level role string. Free-form values are
// rejected at the boundary; the core only ever sees the three constants.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleGlobalAdmin:
		return Role(s), nil
	default:
		return "", fault.Invalid("papel inválido: %q (esperado user, admin ou global_admin)", s)
	}
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleGlobalAdmin
}
