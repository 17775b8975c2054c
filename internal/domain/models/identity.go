// internal/domain/models/identity.go
package models

// Identity is the already-authenticated caller the core receives from
// the credential layer: the token's subject, role, and group claims.
// The core never sees raw credentials.
type Identity struct {
	Username string
	Role     Role
	Groups   []string
}

// IsGlobalAdmin reports whether the identity holds global authority.
func (id Identity) IsGlobalAdmin() bool {
	return id.Role == RoleGlobalAdmin
}
