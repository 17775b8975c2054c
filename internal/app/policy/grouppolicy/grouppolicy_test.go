package grouppolicy_test

import (
	"testing"

	"github.com/jowpereira/mcp-server/internal/app/policy/grouppolicy"
	"github.com/jowpereira/mcp-server/internal/domain/models"
	"github.com/jowpereira/mcp-server/internal/testutil"
)

var (
	globalAdmin = models.Identity{Username: "admin", Role: models.RoleGlobalAdmin}
	groupAdmin  = models.Identity{Username: "maria", Role: models.RoleAdmin, Groups: []string{"vendas"}}
	member      = models.Identity{Username: "joao", Role: models.RoleUser, Groups: []string{"vendas"}}
	outsider    = models.Identity{Username: "ana", Role: models.RoleUser, Groups: []string{"engenharia"}}
)

func TestCanManageGroup(t *testing.T) {
	snap := testutil.SeedSnapshot()
	tests := []struct {
		name  string
		id    models.Identity
		group string
		want  bool
	}{
		{"global admin any group", globalAdmin, "vendas", true},
		{"global admin missing group", globalAdmin, "inexistente", true},
		{"group admin own group", groupAdmin, "vendas", true},
		{"group admin other group", groupAdmin, "engenharia", false},
		{"member", member, "vendas", false},
		{"outsider", outsider, "vendas", false},
		{"group admin missing group", groupAdmin, "inexistente", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grouppolicy.CanManageGroup(tt.id, snap, tt.group); got != tt.want {
				t.Errorf("CanManageGroup = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanViewMembers(t *testing.T) {
	snap := testutil.SeedSnapshot()
	tests := []struct {
		name  string
		id    models.Identity
		group string
		want  bool
	}{
		{"global admin", globalAdmin, "vendas", true},
		{"group admin", groupAdmin, "vendas", true},
		{"member", member, "vendas", true},
		{"outsider", outsider, "vendas", false},
		{"member of other group", member, "engenharia", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grouppolicy.CanViewMembers(tt.id, snap, tt.group); got != tt.want {
				t.Errorf("CanViewMembers = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanViewRequest(t *testing.T) {
	snap := testutil.SeedSnapshot()
	req := models.AccessRequest{ID: "r1", Username: "ana", Group: "vendas", Status: models.StatusPending}
	tests := []struct {
		name string
		id   models.Identity
		want bool
	}{
		{"requester", outsider, true},
		{"global admin", globalAdmin, true},
		{"admin of the group", groupAdmin, true},
		{"unrelated member", member, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grouppolicy.CanViewRequest(tt.id, snap, req); got != tt.want {
				t.Errorf("CanViewRequest = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanUseTool(t *testing.T) {
	snap := testutil.SeedSnapshot()
	tests := []struct {
		name string
		id   models.Identity
		tool string
		want bool
	}{
		{"global admin any tool", globalAdmin, "ferramenta_y", true},
		{"member of group with tool", member, "ferramenta_x", true},
		{"group admin counts as member", groupAdmin, "ferramenta_x", true},
		{"member without attachment", member, "ferramenta_y", false},
		{"outsider", outsider, "ferramenta_x", false},
		{"unknown tool", member, "inexistente", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grouppolicy.CanUseTool(tt.id, snap, tt.tool); got != tt.want {
				t.Errorf("CanUseTool = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanManageUser(t *testing.T) {
	if !grouppolicy.CanManageUser(globalAdmin, "joao") {
		t.Error("global admin should manage any user")
	}
	if !grouppolicy.CanManageUser(member, "joao") {
		t.Error("users should manage their own account")
	}
	if grouppolicy.CanManageUser(groupAdmin, "joao") {
		t.Error("group admin has no authority over user accounts")
	}
}
