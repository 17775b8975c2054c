// internal/app/system/authz/authz.go

// Package authz holds small request-level helpers over the
// authenticated user. Real decisions live in policy/grouppolicy; these
// only answer "who is calling".
package authz

import (
	"net/http"

	"github.com/jowpereira/mcp-server/internal/app/system/auth"
	"github.com/jowpereira/mcp-server/internal/domain/models"
)

// UserCtx returns the caller's identity and a found flag. ok=false
// means the request is anonymous.
func UserCtx(r *http.Request) (models.Identity, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return models.Identity{}, false
	}
	return u.Identity(), true
}

// IsGlobalAdmin reports whether the caller holds global authority.
func IsGlobalAdmin(r *http.Request) bool {
	id, ok := UserCtx(r)
	return ok && id.Role == models.RoleGlobalAdmin
}

// IsAdmin reports whether the caller is an admin of any kind. Global
// admins count as admins for permission purposes.
func IsAdmin(r *http.Request) bool {
	id, ok := UserCtx(r)
	return ok && (id.Role == models.RoleAdmin || id.Role == models.RoleGlobalAdmin)
}
