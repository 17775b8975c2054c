// internal/domain/models/snapshot.go
package models

import "github.com/jowpereira/mcp-server/internal/domain/fault"

// Snapshot is the in-memory image of the whole relationship store, in
// the shape of the persisted rbac.json document. Services operate on
// deep copies and commit a full new snapshot; nothing mutates a
// snapshot that another goroutine can observe.
//
// JoinRequests is the legacy simple queue ({group: [username]}) from
// older snapshots. It is tolerated on load and drained into proper
// AccessRequests at startup; the core never appends to it.
type Snapshot struct {
	Groups       map[string]*Group   `bson:"grupos" json:"grupos"`
	Users        map[string]*User    `bson:"usuarios" json:"usuarios"`
	Tools        map[string]*Tool    `bson:"ferramentas" json:"ferramentas"`
	JoinRequests map[string][]string `bson:"join_requests,omitempty" json:"join_requests,omitempty"`
}

// NewSnapshot returns an empty snapshot with all maps allocated.
func NewSnapshot() Snapshot {
	return Snapshot{
		Groups: map[string]*Group{},
		Users:  map[string]*User{},
		Tools:  map[string]*Tool{},
	}
}

// Normalize allocates any nil maps and nil slices so decoded snapshots
// behave like freshly built ones.
func (s *Snapshot) Normalize() {
	if s.Groups == nil {
		s.Groups = map[string]*Group{}
	}
	if s.Users == nil {
		s.Users = map[string]*User{}
	}
	if s.Tools == nil {
		s.Tools = map[string]*Tool{}
	}
	for _, g := range s.Groups {
		if g.Admins == nil {
			g.Admins = []string{}
		}
		if g.Members == nil {
			g.Members = []string{}
		}
		if g.Tools == nil {
			g.Tools = []string{}
		}
	}
	for _, u := range s.Users {
		if u.Groups == nil {
			u.Groups = []string{}
		}
	}
}

// Clone returns a deep copy. Mutating the copy never affects the
// original, which is what lets read paths share a snapshot without a
// lock and write paths build the replacement before committing.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Groups: make(map[string]*Group, len(s.Groups)),
		Users:  make(map[string]*User, len(s.Users)),
		Tools:  make(map[string]*Tool, len(s.Tools)),
	}
	for name, g := range s.Groups {
		cp := Group{
			Description: g.Description,
			Admins:      append([]string{}, g.Admins...),
			Members:     append([]string{}, g.Members...),
			Tools:       append([]string{}, g.Tools...),
		}
		out.Groups[name] = &cp
	}
	for name, u := range s.Users {
		cp := User{
			Role:         u.Role,
			Groups:       append([]string{}, u.Groups...),
			PasswordHash: u.PasswordHash,
		}
		out.Users[name] = &cp
	}
	for id, t := range s.Tools {
		cp := *t
		out.Tools[id] = &cp
	}
	if s.JoinRequests != nil {
		out.JoinRequests = make(map[string][]string, len(s.JoinRequests))
		for g, names := range s.JoinRequests {
			out.JoinRequests[g] = append([]string{}, names...)
		}
	}
	return out
}

// Validate checks the relationship invariants that must hold after
// every operation:
//
//   - g ∈ u.grupos  ⇔  u ∈ grupos[g].users
//   - grupos[g].admins ⊆ grupos[g].users
//   - every papel is a known role
//   - a user with no groups is not role admin
//
// A violation means the snapshot is corrupt and the operation that
// produced it must not commit.
func (s Snapshot) Validate() error {
	for username, u := range s.Users {
		if !u.Role.Valid() {
			return fault.Internal("snapshot corrompido", fault.Invalid("papel desconhecido %q para usuário %q", u.Role, username))
		}
		if len(u.Groups) == 0 && u.Role == RoleAdmin {
			return fault.Internal("snapshot corrompido", fault.Invalid("usuário %q é admin sem grupos", username))
		}
		for _, g := range u.Groups {
			grp, ok := s.Groups[g]
			if !ok || !grp.HasMember(username) {
				return fault.Internal("snapshot corrompido", fault.Invalid("usuário %q referencia grupo %q sem vínculo recíproco", username, g))
			}
		}
	}
	for name, g := range s.Groups {
		for _, m := range g.Members {
			u, ok := s.Users[m]
			if !ok || !u.InGroup(name) {
				return fault.Internal("snapshot corrompido", fault.Invalid("grupo %q referencia usuário %q sem vínculo recíproco", name, m))
			}
		}
		for _, a := range g.Admins {
			if !g.HasMember(a) {
				return fault.Internal("snapshot corrompido", fault.Invalid("admin %q do grupo %q não é membro", a, name))
			}
		}
	}
	return nil
}
