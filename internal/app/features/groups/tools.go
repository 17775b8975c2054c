// internal/app/features/groups/tools.go
package groups

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jowpereira/mcp-server/internal/app/policy/grouppolicy"
	"github.com/jowpereira/mcp-server/internal/app/system/authz"
	"github.com/jowpereira/mcp-server/internal/app/system/httpjson"
	"github.com/jowpereira/mcp-server/internal/app/system/timeouts"
)

type attachToolRequest struct {
	ID string `json:"id"`
}

// toolRefResponse is one attached tool. When the catalog entry behind
// an attachment is gone, only the id and the missing flag are set.
type toolRefResponse struct {
	ID                string `json:"id"`
	Nome              string `json:"nome,omitempty"`
	BaseURL           string `json:"url_base,omitempty"`
	Descricao         string `json:"descricao,omitempty"`
	DefinitionMissing bool   `json:"definition_missing,omitempty"`
}

// ListTools handles GET /tools/grupos/{grupo}/ferramentas. Visible to
// the group's members and admins, and to global admins.
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	grupo := chi.URLParam(r, "grupo")
	id, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Fail(w, http.StatusForbidden, detailGroupAdmin)
		return
	}
	snap, err := h.Dir.Snapshot(ctx)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if !grouppolicy.CanViewMembers(id, snap, grupo) {
		httpjson.Fail(w, http.StatusForbidden, detailGroupAdmin)
		return
	}
	refs, err := h.Dir.GroupTools(ctx, grupo)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	out := make([]toolRefResponse, 0, len(refs))
	for _, ref := range refs {
		item := toolRefResponse{ID: ref.ID}
		if ref.Definition == nil {
			item.DefinitionMissing = true
		} else {
			item.Nome = ref.Definition.Name
			item.BaseURL = ref.Definition.BaseURL
			item.Descricao = ref.Definition.Description
		}
		out = append(out, item)
	}
	httpjson.Respond(w, http.StatusOK, map[string][]toolRefResponse{"ferramentas": out})
}

// AttachTool handles POST /tools/grupos/{grupo}/ferramentas. Group
// admin or global; the tool must exist in the catalog.
func (h *Handler) AttachTool(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	grupo := chi.URLParam(r, "grupo")
	id, ok := h.requireManage(w, r, grupo)
	if !ok {
		return
	}
	var req attachToolRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		httpjson.Fail(w, http.StatusBadRequest, "Nome da ferramenta é obrigatório.")
		return
	}
	if err := h.Dir.AttachTool(ctx, grupo, req.ID); err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("tool attached", zap.String("grupo", grupo), zap.String("ferramenta", req.ID), zap.String("by", id.Username))
	httpjson.Message(w, http.StatusOK, fmt.Sprintf("Ferramenta '%s' adicionada ao grupo '%s'", req.ID, grupo))
}

// DetachTool handles DELETE /tools/grupos/{grupo}/ferramentas/{ferramenta}.
// Group admin or global.
func (h *Handler) DetachTool(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	grupo := chi.URLParam(r, "grupo")
	ferramenta := chi.URLParam(r, "ferramenta")
	id, ok := h.requireManage(w, r, grupo)
	if !ok {
		return
	}
	if err := h.Dir.DetachTool(ctx, grupo, ferramenta); err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("tool detached", zap.String("grupo", grupo), zap.String("ferramenta", ferramenta), zap.String("by", id.Username))
	httpjson.Message(w, http.StatusOK, fmt.Sprintf("Ferramenta '%s' removida do grupo '%s'", ferramenta, grupo))
}
