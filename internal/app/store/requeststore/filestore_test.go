package requeststore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jowpereira/mcp-server/internal/app/store/requeststore"
	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"github.com/jowpereira/mcp-server/internal/domain/models"
)

func pendingRequest(id string) models.AccessRequest {
	return models.AccessRequest{
		ID:            id,
		Username:      "ana",
		Group:         "vendas",
		Status:        models.StatusPending,
		Justification: "preciso de acesso ao grupo",
		CreatedAt:     time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestFileStoreEmptyList(t *testing.T) {
	store := requeststore.NewFileStore(filepath.Join(t.TempDir(), "requests.json"), zap.NewNop())
	reqs, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(reqs) != 0 {
		t.Errorf("List = %+v, want empty", reqs)
	}
}

func TestFileStoreInsertAndUpdate(t *testing.T) {
	store := requeststore.NewFileStore(filepath.Join(t.TempDir(), "requests.json"), zap.NewNop())
	ctx := context.Background()

	if err := store.Insert(ctx, pendingRequest("r1")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := store.Insert(ctx, pendingRequest("r2")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	updated := pendingRequest("r1")
	updated.Status = models.StatusApproved
	reviewer := "maria"
	updated.ReviewedBy = &reviewer
	if err := store.Update(ctx, updated); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reqs, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(reqs) != 2 {
		t.Fatalf("List returned %d requests, want 2", len(reqs))
	}
	var r1 models.AccessRequest
	for _, r := range reqs {
		if r.ID == "r1" {
			r1 = r
		}
	}
	if r1.Status != models.StatusApproved {
		t.Errorf("r1 status = %q, want approved", r1.Status)
	}
	if r1.ReviewedBy == nil || *r1.ReviewedBy != "maria" {
		t.Errorf("r1 ReviewedBy = %v, want maria", r1.ReviewedBy)
	}
	if !r1.CreatedAt.Equal(pendingRequest("r1").CreatedAt) {
		t.Errorf("CreatedAt did not survive the round trip: %v", r1.CreatedAt)
	}
}

func TestFileStoreUpdateUnknownID(t *testing.T) {
	store := requeststore.NewFileStore(filepath.Join(t.TempDir(), "requests.json"), zap.NewNop())
	err := store.Update(context.Background(), pendingRequest("nope"))
	if !fault.Is(err, fault.KindNotFound) {
		t.Errorf("Update unknown id = %v, want KindNotFound", err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := requeststore.NewFileStore(path, zap.NewNop())
	if _, err := store.List(context.Background()); !fault.Is(err, fault.KindInternal) {
		t.Errorf("List corrupt file = %v, want KindInternal", err)
	}
}
