// internal/domain/models/user.go
package models

// User is one entry of the snapshot's "usuarios" map. The username is
// the map key and is not repeated inside the record, matching the
// persisted rbac.json layout.
//
// PasswordHash holds either a bcrypt hash or, on legacy snapshots, a
// plaintext password that the credential layer migrates on first
// successful login. The core never interprets it.
type User struct {
	Role         Role     `bson:"papel" json:"papel"`
	Groups       []string `bson:"grupos" json:"grupos"`
	PasswordHash string   `bson:"senha,omitempty" json:"senha,omitempty"`
}

// InGroup reports whether the user belongs to the named group.
func (u *User) InGroup(group string) bool {
	return contains(u.Groups, group)
}

// AddGroup records membership without duplicating.
func (u *User) AddGroup(group string) {
	if !u.InGroup(group) {
		u.Groups = append(u.Groups, group)
	}
}

// RemoveGroup drops membership; no-op when absent.
func (u *User) RemoveGroup(group string) {
	u.Groups = remove(u.Groups, group)
}
