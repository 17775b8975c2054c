// internal/app/features/groups/groups.go
package groups

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jowpereira/mcp-server/internal/app/system/htmlsanitize"
	"github.com/jowpereira/mcp-server/internal/app/system/httpjson"
	"github.com/jowpereira/mcp-server/internal/app/system/timeouts"
)

type createGroupRequest struct {
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
}

type updateGroupRequest struct {
	Nome      *string `json:"nome"`
	Descricao *string `json:"descricao"`
}

// List handles GET /tools/grupos. Any signed-in user: the body is
// names only, and users need the names to request access to a group.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	names, err := h.Dir.ListGroups(ctx)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string][]string{"grupos": names})
}

// Create handles POST /tools/grupos. Global admin only.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	id, ok := h.requireGlobal(w, r)
	if !ok {
		return
	}
	var req createGroupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	if req.Nome == "" {
		httpjson.Fail(w, http.StatusBadRequest, "Nome do grupo é obrigatório.")
		return
	}
	if err := h.Dir.CreateGroup(ctx, req.Nome, htmlsanitize.Plain(req.Descricao)); err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("group created", zap.String("grupo", req.Nome), zap.String("by", id.Username))
	httpjson.Message(w, http.StatusCreated, fmt.Sprintf("Grupo '%s' criado com sucesso.", req.Nome))
}

// Update handles PUT /tools/grupos/{grupo}: rename and/or change the
// description. Global admin only; a rename cascades through user
// memberships and pending access requests.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	id, ok := h.requireGlobal(w, r)
	if !ok {
		return
	}
	grupo := chi.URLParam(r, "grupo")

	var req updateGroupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	if req.Descricao != nil {
		clean := htmlsanitize.Plain(*req.Descricao)
		req.Descricao = &clean
	}
	if err := h.Dir.UpdateGroup(ctx, grupo, req.Nome, req.Descricao); err != nil {
		httpjson.Error(w, err)
		return
	}
	final := grupo
	if req.Nome != nil && *req.Nome != "" {
		final = *req.Nome
	}
	h.Log.Info("group updated", zap.String("grupo", final), zap.String("by", id.Username))
	httpjson.Message(w, http.StatusOK, fmt.Sprintf("Grupo '%s' editado com sucesso.", final))
}

// Delete handles DELETE /tools/grupos/{grupo}. Global admin only; the
// group is removed from every member and pending join-queue entries
// are dropped with it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	id, ok := h.requireGlobal(w, r)
	if !ok {
		return
	}
	grupo := chi.URLParam(r, "grupo")
	if err := h.Dir.DeleteGroup(ctx, grupo); err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("group deleted", zap.String("grupo", grupo), zap.String("by", id.Username))
	httpjson.Message(w, http.StatusOK, fmt.Sprintf("Grupo '%s' removido com sucesso.", grupo))
}
