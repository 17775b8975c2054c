// internal/domain/models/group.go
package models

// Group is one entry of the snapshot's "grupos" map, keyed by group
// name (rename re-keys the map). Admins is always a subset of Members.
// Tools holds catalog ids; an id missing from the catalog is tolerated
// and surfaced as "definition missing" rather than failing.
type Group struct {
	Description string   `bson:"descricao" json:"descricao"`
	Admins      []string `bson:"admins" json:"admins"`
	Members     []string `bson:"users" json:"users"`
	Tools       []string `bson:"ferramentas" json:"ferramentas"`
}

// HasMember reports whether username is a member of the group.
func (g *Group) HasMember(username string) bool {
	return contains(g.Members, username)
}

// HasAdmin reports whether username administers the group.
func (g *Group) HasAdmin(username string) bool {
	return contains(g.Admins, username)
}

// HasTool reports whether the tool id is attached to the group.
func (g *Group) HasTool(toolID string) bool {
	return contains(g.Tools, toolID)
}

// AddMember records membership without duplicating.
func (g *Group) AddMember(username string) {
	if !g.HasMember(username) {
		g.Members = append(g.Members, username)
	}
}

// RemoveMember drops username from both Members and Admins, keeping
// the admins-are-members invariant.
func (g *Group) RemoveMember(username string) {
	g.Members = remove(g.Members, username)
	g.Admins = remove(g.Admins, username)
}

// AddAdmin records admin status without duplicating. Callers must
// ensure the user is already a member.
func (g *Group) AddAdmin(username string) {
	if !g.HasAdmin(username) {
		g.Admins = append(g.Admins, username)
	}
}

// RemoveAdmin drops admin status only; membership is untouched.
func (g *Group) RemoveAdmin(username string) {
	g.Admins = remove(g.Admins, username)
}

// AddTool attaches a tool id without duplicating.
func (g *Group) AddTool(toolID string) {
	if !g.HasTool(toolID) {
		g.Tools = append(g.Tools, toolID)
	}
}

// RemoveTool detaches a tool id; no-op when absent.
func (g *Group) RemoveTool(toolID string) {
	g.Tools = remove(g.Tools, toolID)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
