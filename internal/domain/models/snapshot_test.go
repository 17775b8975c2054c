package models_test

import (
	"testing"

	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"github.com/jowpereira/mcp-server/internal/domain/models"
)

func validSnapshot() models.Snapshot {
	snap := models.NewSnapshot()
	snap.Tools["ferramenta_x"] = &models.Tool{Name: "Ferramenta X", BaseURL: "http://x"}
	snap.Groups["vendas"] = &models.Group{
		Admins:  []string{"maria"},
		Members: []string{"maria", "joao"},
		Tools:   []string{"ferramenta_x"},
	}
	snap.Users["maria"] = &models.User{Role: models.RoleAdmin, Groups: []string{"vendas"}}
	snap.Users["joao"] = &models.User{Role: models.RoleUser, Groups: []string{"vendas"}}
	return snap
}

func TestValidateAcceptsConsistentSnapshot(t *testing.T) {
	snap := validSnapshot()
	if err := snap.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsAdminOutsideMembers(t *testing.T) {
	snap := validSnapshot()
	snap.Groups["vendas"].Admins = append(snap.Groups["vendas"].Admins, "intruso")
	if err := snap.Validate(); !fault.Is(err, fault.KindInternal) {
		t.Fatalf("Validate() = %v, want KindInternal", err)
	}
}

func TestValidateRejectsOneSidedMembership(t *testing.T) {
	snap := validSnapshot()
	// joao listed in the group but the group missing from joao.
	snap.Users["joao"].Groups = nil
	if err := snap.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for one-sided membership")
	}
}

func TestValidateRejectsUnknownRole(t *testing.T) {
	snap := validSnapshot()
	snap.Users["joao"].Role = "root"
	if err := snap.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for unknown role")
	}
}

func TestValidateRejectsGrouplessAdmin(t *testing.T) {
	snap := validSnapshot()
	snap.Users["carlos"] = &models.User{Role: models.RoleAdmin, Groups: []string{}}
	if err := snap.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for admin with no groups")
	}
}

func TestCloneIsDeep(t *testing.T) {
	snap := validSnapshot()
	snap.JoinRequests = map[string][]string{"vendas": {"pedro"}}

	clone := snap.Clone()
	clone.Groups["vendas"].Members = append(clone.Groups["vendas"].Members, "novo")
	clone.Users["maria"].Role = models.RoleUser
	clone.Tools["ferramenta_x"].Name = "changed"
	clone.JoinRequests["vendas"][0] = "outro"

	if len(snap.Groups["vendas"].Members) != 2 {
		t.Error("clone mutation leaked into original group members")
	}
	if snap.Users["maria"].Role != models.RoleAdmin {
		t.Error("clone mutation leaked into original user role")
	}
	if snap.Tools["ferramenta_x"].Name != "Ferramenta X" {
		t.Error("clone mutation leaked into original tool")
	}
	if snap.JoinRequests["vendas"][0] != "pedro" {
		t.Error("clone mutation leaked into original join requests")
	}
}

func TestNormalizeFillsNilMaps(t *testing.T) {
	var snap models.Snapshot
	snap.Normalize()
	if snap.Groups == nil || snap.Users == nil || snap.Tools == nil {
		t.Fatal("Normalize left a nil map")
	}
}
