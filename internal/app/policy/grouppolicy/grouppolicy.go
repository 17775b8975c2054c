// internal/app/policy/grouppolicy/grouppolicy.go

// Package grouppolicy is the authorization engine: stateless decision
// functions over a verified identity and a relationship snapshot.
// Precedence is fixed: global_admin allows everything; group-scoped
// admin actions require being in the group's admins; group-scoped
// member actions additionally accept plain membership; self actions
// are always allowed on one's own resources; everything else is
// denied. Existence of the target is checked by callers before
// permission, never here.
package grouppolicy

import "github.com/jowpereira/mcp-server/internal/domain/models"

// CanManageGroup reports whether the identity may manage the group's
// members, admins, and tools, and review its access requests.
func CanManageGroup(id models.Identity, snap models.Snapshot, group string) bool {
	if id.IsGlobalAdmin() {
		return true
	}
	g, ok := snap.Groups[group]
	return ok && g.HasAdmin(id.Username)
}

// CanViewMembers reports whether the identity may read the group's
// member list: managers plus ordinary members.
func CanViewMembers(id models.Identity, snap models.Snapshot, group string) bool {
	if CanManageGroup(id, snap, group) {
		return true
	}
	g, ok := snap.Groups[group]
	return ok && g.HasMember(id.Username)
}

// CanViewRequest reports whether the identity may read one access
// request: the requester themselves, a global admin, or an admin of
// the request's group. Denial here must not leak more about other
// users' requests than the role permits.
func CanViewRequest(id models.Identity, snap models.Snapshot, req models.AccessRequest) bool {
	if req.Username == id.Username {
		return true
	}
	return CanManageGroup(id, snap, req.Group)
}

// CanUseTool reports whether the identity may invoke a tool: global
// admins always, otherwise membership in any group with the tool
// attached.
func CanUseTool(id models.Identity, snap models.Snapshot, toolID string) bool {
	if id.IsGlobalAdmin() {
		return true
	}
	for _, g := range snap.Groups {
		if g.HasTool(toolID) && g.HasMember(id.Username) {
			return true
		}
	}
	return false
}

// CanManageUser reports whether the identity may act on a user's
// account record: themselves, or global authority for anyone.
func CanManageUser(id models.Identity, username string) bool {
	return id.IsGlobalAdmin() || id.Username == username
}
