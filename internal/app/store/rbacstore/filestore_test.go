package rbacstore_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/jowpereira/mcp-server/internal/app/store/rbacstore"
	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"github.com/jowpereira/mcp-server/internal/testutil"
)

func TestFileStoreMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rbac.json")
	store := rbacstore.NewFileStore(path, zap.NewNop())

	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Groups) != 0 || len(snap.Users) != 0 || len(snap.Tools) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
	if snap.Groups == nil || snap.Users == nil || snap.Tools == nil {
		t.Error("maps must be initialized on empty load")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rbac.json")
	store := rbacstore.NewFileStore(path, zap.NewNop())
	ctx := context.Background()

	if err := store.Commit(ctx, testutil.SeedSnapshot()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	g := got.Groups["vendas"]
	if g == nil || !g.HasAdmin("maria") || !g.HasMember("joao") || !g.HasTool("ferramenta_x") {
		t.Errorf("vendas did not survive the round trip: %+v", g)
	}
	u := got.Users["maria"]
	if u == nil || u.PasswordHash != "maria123senha" || !u.InGroup("vendas") {
		t.Errorf("maria did not survive the round trip: %+v", u)
	}
	if got.Tools["ferramenta_x"] == nil || got.Tools["ferramenta_x"].BaseURL != "http://ferramenta-x.internal" {
		t.Errorf("tool catalog did not survive the round trip: %+v", got.Tools)
	}
}

func TestFileStoreUsesLegacyFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rbac.json")
	store := rbacstore.NewFileStore(path, zap.NewNop())

	if err := store.Commit(context.Background(), testutil.SeedSnapshot()); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("stored file is not JSON: %v", err)
	}
	for _, key := range []string{"grupos", "usuarios", "ferramentas"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("stored file missing %q section", key)
		}
	}
	if !strings.Contains(string(raw), `"papel"`) || !strings.Contains(string(raw), `"senha"`) {
		t.Error("user records must keep papel/senha field names")
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rbac.json")
	if err := os.WriteFile(path, []byte("{torn"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := rbacstore.NewFileStore(path, zap.NewNop())
	if _, err := store.Load(context.Background()); !fault.Is(err, fault.KindInternal) {
		t.Errorf("Load corrupt file = %v, want KindInternal", err)
	}
}

func TestFileStoreCommitLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := rbacstore.NewFileStore(filepath.Join(dir, "rbac.json"), zap.NewNop())
	if err := store.Commit(context.Background(), testutil.SeedSnapshot()); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "rbac.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contains %v, want only rbac.json", names)
	}
}

func TestFileStoreCreatesDataDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "rbac.json")
	store := rbacstore.NewFileStore(path, zap.NewNop())
	if err := store.Commit(context.Background(), testutil.SeedSnapshot()); err != nil {
		t.Fatalf("Commit into missing directory: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot file not created: %v", err)
	}
}
