package requestflow_test

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/jowpereira/mcp-server/internal/app/directory"
	"github.com/jowpereira/mcp-server/internal/app/requestflow"
	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"github.com/jowpereira/mcp-server/internal/domain/models"
	"github.com/jowpereira/mcp-server/internal/testutil"
)

func newFlow(t *testing.T) (*requestflow.Service, *directory.Service, *testutil.MemRequestStore) {
	t.Helper()
	rbac := testutil.NewMemRBACStore(testutil.SeedSnapshot())
	dir := directory.New(rbac, zap.NewNop())
	reqs := testutil.NewMemRequestStore()
	return requestflow.New(reqs, dir, zap.NewNop()), dir, reqs
}

func TestSubmit(t *testing.T) {
	flow, _, _ := newFlow(t)
	ctx := context.Background()

	req, err := flow.Submit(ctx, "ana", "vendas", "preciso acessar os relatórios de vendas")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if req.ID == "" {
		t.Error("submitted request has no id")
	}
	if req.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", req.Status)
	}
	if req.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	// A second pending request for the same pair conflicts.
	if _, err := flow.Submit(ctx, "ana", "vendas", "mesmo pedido de novo"); !fault.Is(err, fault.KindConflict) {
		t.Errorf("duplicate pending = %v, want KindConflict", err)
	}
}

func TestSubmitValidations(t *testing.T) {
	flow, _, _ := newFlow(t)
	ctx := context.Background()

	if _, err := flow.Submit(ctx, "ana", "vendas", "oi"); !fault.Is(err, fault.KindInvalid) {
		t.Errorf("short justification = %v, want KindInvalid", err)
	}
	if _, err := flow.Submit(ctx, "ana", "vendas", strings.Repeat("x", 501)); !fault.Is(err, fault.KindInvalid) {
		t.Errorf("long justification = %v, want KindInvalid", err)
	}
	if _, err := flow.Submit(ctx, "ana", "vendas", strings.Repeat("x", 500)); err != nil {
		t.Errorf("500-char justification = %v, want ok", err)
	}
	if _, err := flow.Submit(ctx, "ana", "inexistente", "não"); !fault.Is(err, fault.KindInvalid) {
		t.Errorf("3-rune accented justification = %v, want KindInvalid", err)
	}
	if _, err := flow.Submit(ctx, "maria", "engenharia", strings.Repeat("ã", 500)); err != nil {
		// 500 runes even though each is two bytes.
		t.Errorf("500-rune accented justification = %v, want ok", err)
	}
	if _, err := flow.Submit(ctx, "ana", "inexistente", "grupo que não existe"); !fault.Is(err, fault.KindNotFound) {
		t.Errorf("unknown group = %v, want KindNotFound", err)
	}
	// joao is already a member of vendas.
	if _, err := flow.Submit(ctx, "joao", "vendas", "já sou membro na verdade"); !fault.Is(err, fault.KindConflict) {
		t.Errorf("member submit = %v, want KindConflict", err)
	}
}

func TestReviewApproveAndApply(t *testing.T) {
	flow, dir, _ := newFlow(t)
	ctx := context.Background()

	req, err := flow.Submit(ctx, "ana", "vendas", "quero participar das vendas")
	if err != nil {
		t.Fatal(err)
	}

	got, err := flow.Review(ctx, req.ID, "maria", models.StatusApproved, "bem-vinda")
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if got.Status != models.StatusApproved {
		t.Errorf("status = %q, want approved", got.Status)
	}
	if got.ReviewedBy == nil || *got.ReviewedBy != "maria" {
		t.Errorf("ReviewedBy = %v, want maria", got.ReviewedBy)
	}
	if got.ReviewComment == nil || *got.ReviewComment != "bem-vinda" {
		t.Errorf("ReviewComment = %v, want bem-vinda", got.ReviewComment)
	}
	if got.UpdatedAt == nil {
		t.Error("UpdatedAt not set")
	}

	if err := flow.Apply(ctx, req.ID); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	snap, err := dir.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !snap.Groups["vendas"].HasMember("ana") {
		t.Error("ana not added to vendas after Apply")
	}

	// Terminal requests cannot be re-reviewed.
	if _, err := flow.Review(ctx, req.ID, "admin", models.StatusRejected, ""); !fault.Is(err, fault.KindConflict) {
		t.Errorf("re-review = %v, want KindConflict", err)
	}
}

func TestReviewReject(t *testing.T) {
	flow, dir, _ := newFlow(t)
	ctx := context.Background()

	req, err := flow.Submit(ctx, "ana", "vendas", "quero participar das vendas")
	if err != nil {
		t.Fatal(err)
	}
	got, err := flow.Review(ctx, req.ID, "maria", models.StatusRejected, "")
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if got.Status != models.StatusRejected {
		t.Errorf("status = %q, want rejected", got.Status)
	}
	if got.ReviewComment != nil {
		t.Errorf("ReviewComment = %v, want nil for empty comment", got.ReviewComment)
	}
	snap, _ := dir.Snapshot(ctx)
	if snap.Groups["vendas"].HasMember("ana") {
		t.Error("rejection must not grant membership")
	}
}

func TestReviewValidations(t *testing.T) {
	flow, _, _ := newFlow(t)
	ctx := context.Background()

	if _, err := flow.Review(ctx, "qualquer", "maria", models.StatusPending, ""); !fault.Is(err, fault.KindInvalid) {
		t.Errorf("pending decision = %v, want KindInvalid", err)
	}
	if _, err := flow.Review(ctx, "inexistente", "maria", models.StatusApproved, ""); !fault.Is(err, fault.KindNotFound) {
		t.Errorf("unknown request = %v, want KindNotFound", err)
	}

	req, err := flow.Submit(ctx, "ana", "vendas", "pedido para validar o comentário")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := flow.Review(ctx, req.ID, "maria", models.StatusApproved, strings.Repeat("ã", 501)); !fault.Is(err, fault.KindInvalid) {
		t.Errorf("501-rune comment = %v, want KindInvalid", err)
	}
	if _, err := flow.Review(ctx, req.ID, "maria", models.StatusApproved, strings.Repeat("ã", 500)); err != nil {
		t.Errorf("500-rune comment = %v, want ok", err)
	}
}

func TestReviewAfterGroupDeleted(t *testing.T) {
	flow, dir, _ := newFlow(t)
	ctx := context.Background()

	req, err := flow.Submit(ctx, "ana", "vendas", "quero participar das vendas")
	if err != nil {
		t.Fatal(err)
	}
	if err := dir.DeleteGroup(ctx, "vendas"); err != nil {
		t.Fatal(err)
	}

	// The grant can no longer be applied, so no approval is recorded.
	if _, err := flow.Review(ctx, req.ID, "admin", models.StatusApproved, ""); !fault.Is(err, fault.KindNotFound) {
		t.Errorf("approve for deleted group = %v, want KindNotFound", err)
	}
	got, err := flow.Get(ctx, req.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusPending {
		t.Errorf("status after failed approve = %q, want pending", got.Status)
	}

	// Rejecting the stranded request still works.
	if _, err := flow.Review(ctx, req.ID, "admin", models.StatusRejected, "grupo removido"); err != nil {
		t.Errorf("reject for deleted group = %v, want ok", err)
	}
}

func TestApplyRequiresApproval(t *testing.T) {
	flow, _, _ := newFlow(t)
	ctx := context.Background()

	req, err := flow.Submit(ctx, "ana", "vendas", "quero participar das vendas")
	if err != nil {
		t.Fatal(err)
	}
	if err := flow.Apply(ctx, req.ID); !fault.Is(err, fault.KindInternal) {
		t.Errorf("Apply on pending = %v, want KindInternal", err)
	}
}

func TestListByUser(t *testing.T) {
	flow, _, _ := newFlow(t)
	ctx := context.Background()

	if _, err := flow.Submit(ctx, "ana", "vendas", "primeiro pedido da ana"); err != nil {
		t.Fatal(err)
	}
	if _, err := flow.Submit(ctx, "joao", "engenharia", "pedido do joao para engenharia"); err != nil {
		t.Fatal(err)
	}

	mine, err := flow.ListByUser(ctx, "ana")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].Username != "ana" {
		t.Errorf("ListByUser(ana) = %+v, want ana's single request", mine)
	}
	none, err := flow.ListByUser(ctx, "maria")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("ListByUser(maria) = %+v, want empty", none)
	}
}

func TestListPendingForAdminScoping(t *testing.T) {
	flow, _, _ := newFlow(t)
	ctx := context.Background()

	reqVendas, err := flow.Submit(ctx, "ana", "vendas", "quero entrar em vendas")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := flow.Submit(ctx, "joao", "engenharia", "quero entrar em engenharia"); err != nil {
		t.Fatal(err)
	}

	// maria administers only vendas.
	forMaria, err := flow.ListPendingForAdmin(ctx, "maria")
	if err != nil {
		t.Fatal(err)
	}
	if len(forMaria) != 1 || forMaria[0].Group != "vendas" {
		t.Errorf("maria sees %+v, want only vendas requests", forMaria)
	}

	// The global admin sees everything.
	forAdmin, err := flow.ListPendingForAdmin(ctx, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if len(forAdmin) != 2 {
		t.Errorf("global admin sees %d requests, want 2", len(forAdmin))
	}

	// Reviewed requests drop off the pending queue.
	if _, err := flow.Review(ctx, reqVendas.ID, "maria", models.StatusRejected, ""); err != nil {
		t.Fatal(err)
	}
	forMaria, err = flow.ListPendingForAdmin(ctx, "maria")
	if err != nil {
		t.Fatal(err)
	}
	if len(forMaria) != 0 {
		t.Errorf("maria still sees %+v after review", forMaria)
	}
}

func TestRenameRekeysPendingOnly(t *testing.T) {
	flow, dir, _ := newFlow(t)
	ctx := context.Background()

	pending, err := flow.Submit(ctx, "ana", "vendas", "pedido que segue o rename")
	if err != nil {
		t.Fatal(err)
	}
	rejected, err := flow.Submit(ctx, "joao", "engenharia", "pedido histórico encerrado")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := flow.Review(ctx, rejected.ID, "admin", models.StatusRejected, ""); err != nil {
		t.Fatal(err)
	}

	newName := "comercial"
	if err := dir.UpdateGroup(ctx, "vendas", &newName, nil); err != nil {
		t.Fatalf("rename: %v", err)
	}
	newEng := "plataforma"
	if err := dir.UpdateGroup(ctx, "engenharia", &newEng, nil); err != nil {
		t.Fatalf("rename: %v", err)
	}

	got, err := flow.Get(ctx, pending.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Group != "comercial" {
		t.Errorf("pending request group = %q, want comercial", got.Group)
	}
	hist, err := flow.Get(ctx, rejected.ID)
	if err != nil {
		t.Fatal(err)
	}
	if hist.Group != "engenharia" {
		t.Errorf("terminal request group = %q, want historical engenharia", hist.Group)
	}
}

func TestMigrateLegacy(t *testing.T) {
	snap := testutil.SeedSnapshot()
	snap.JoinRequests = map[string][]string{
		"vendas":      {"ana", "joao", "fantasma"}, // joao is already a member, fantasma no longer exists
		"inexistente": {"ana"},
	}
	rbac := testutil.NewMemRBACStore(snap)
	dir := directory.New(rbac, zap.NewNop())
	flow := requestflow.New(testutil.NewMemRequestStore(), dir, zap.NewNop())
	ctx := context.Background()

	if err := flow.MigrateLegacy(ctx); err != nil {
		t.Fatalf("MigrateLegacy: %v", err)
	}

	anas, err := flow.ListByUser(ctx, "ana")
	if err != nil {
		t.Fatal(err)
	}
	if len(anas) != 1 || anas[0].Group != "vendas" || anas[0].Status != models.StatusPending {
		t.Errorf("ana's migrated requests = %+v, want one pending for vendas", anas)
	}
	if joaos, _ := flow.ListByUser(ctx, "joao"); len(joaos) != 0 {
		t.Errorf("joao's requests = %+v, want none (already a member)", joaos)
	}
	if ghosts, _ := flow.ListByUser(ctx, "fantasma"); len(ghosts) != 0 {
		t.Errorf("fantasma's requests = %+v, want none (user is gone)", ghosts)
	}

	queue, err := dir.JoinRequestQueue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 0 {
		t.Errorf("legacy queue not cleared: %+v", queue)
	}

	// Re-running is a no-op.
	if err := flow.MigrateLegacy(ctx); err != nil {
		t.Fatalf("second MigrateLegacy: %v", err)
	}
	if anas, _ := flow.ListByUser(ctx, "ana"); len(anas) != 1 {
		t.Errorf("migration not idempotent: %+v", anas)
	}
}
