// internal/app/features/toolcatalog/handler.go

// Package toolcatalog exposes the global tool catalog and the invoke
// gate. Catalog maintenance is global-admin territory; invocation is
// open to members of any group holding the tool.
package toolcatalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jowpereira/mcp-server/internal/app/directory"
	"github.com/jowpereira/mcp-server/internal/app/policy/grouppolicy"
	"github.com/jowpereira/mcp-server/internal/app/system/authz"
	"github.com/jowpereira/mcp-server/internal/app/system/htmlsanitize"
	"github.com/jowpereira/mcp-server/internal/app/system/httpjson"
	"github.com/jowpereira/mcp-server/internal/app/system/timeouts"
	"github.com/jowpereira/mcp-server/internal/domain/models"
)

const detailGlobalOnly = "Acesso restrito ao admin global."

type Handler struct {
	Dir *directory.Service
	Log *zap.Logger
}

func NewHandler(dir *directory.Service, logger *zap.Logger) *Handler {
	return &Handler{Dir: dir, Log: logger}
}

type toolRequest struct {
	ID        string `json:"id"`
	Nome      string `json:"nome"`
	BaseURL   string `json:"url_base"`
	Descricao string `json:"descricao"`
}

type toolResponse struct {
	Nome      string `json:"nome"`
	BaseURL   string `json:"url_base"`
	Descricao string `json:"descricao"`
}

func (h *Handler) requireGlobal(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	id, ok := authz.UserCtx(r)
	if !ok || !id.IsGlobalAdmin() {
		httpjson.Fail(w, http.StatusForbidden, detailGlobalOnly)
		return models.Identity{}, false
	}
	return id, true
}

// List handles GET /tools/ferramentas. Any signed-in user may browse
// the catalog; invocation rights are checked separately.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	catalog, err := h.Dir.ListTools(ctx)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	out := make(map[string]toolResponse, len(catalog))
	for id, t := range catalog {
		out[id] = toolResponse{Nome: t.Name, BaseURL: t.BaseURL, Descricao: t.Description}
	}
	httpjson.Respond(w, http.StatusOK, map[string]map[string]toolResponse{"ferramentas": out})
}

// Create handles POST /tools/ferramentas. Global admin only.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	id, ok := h.requireGlobal(w, r)
	if !ok {
		return
	}
	var req toolRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		httpjson.Fail(w, http.StatusBadRequest, "Nome da ferramenta é obrigatório.")
		return
	}
	tool := models.Tool{
		Name:        strings.TrimSpace(req.Nome),
		BaseURL:     strings.TrimSpace(req.BaseURL),
		Description: htmlsanitize.Plain(req.Descricao),
	}
	if err := h.Dir.CreateTool(ctx, req.ID, tool); err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("tool created", zap.String("ferramenta", req.ID), zap.String("by", id.Username))
	httpjson.Message(w, http.StatusCreated, fmt.Sprintf("Ferramenta '%s' criada com sucesso.", req.ID))
}

// Update handles PUT /tools/ferramentas/{id}. Global admin only.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	id, ok := h.requireGlobal(w, r)
	if !ok {
		return
	}
	toolID := chi.URLParam(r, "id")
	var req toolRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	tool := models.Tool{
		Name:        strings.TrimSpace(req.Nome),
		BaseURL:     strings.TrimSpace(req.BaseURL),
		Description: htmlsanitize.Plain(req.Descricao),
	}
	if err := h.Dir.UpdateTool(ctx, toolID, tool); err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("tool updated", zap.String("ferramenta", toolID), zap.String("by", id.Username))
	httpjson.Message(w, http.StatusOK, fmt.Sprintf("Ferramenta '%s' editada com sucesso.", toolID))
}

// Delete handles DELETE /tools/ferramentas/{id}. Global admin only.
// Attachments pointing at the deleted entry stay behind and surface as
// definition_missing in group listings.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	id, ok := h.requireGlobal(w, r)
	if !ok {
		return
	}
	toolID := chi.URLParam(r, "id")
	if err := h.Dir.DeleteTool(ctx, toolID); err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("tool deleted", zap.String("ferramenta", toolID), zap.String("by", id.Username))
	httpjson.Message(w, http.StatusOK, fmt.Sprintf("Ferramenta '%s' removida com sucesso.", toolID))
}

// Invoke handles GET /tools/ferramentas/{id}/invoke. Allowed for
// global admins and for members of any group the tool is attached to.
func (h *Handler) Invoke(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	toolID := chi.URLParam(r, "id")
	id, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Fail(w, http.StatusForbidden, "Acesso negado")
		return
	}
	snap, err := h.Dir.Snapshot(ctx)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if !grouppolicy.CanUseTool(id, snap, toolID) {
		h.Log.Warn("tool access denied", zap.String("ferramenta", toolID), zap.String("username", id.Username))
		httpjson.Fail(w, http.StatusForbidden, "Acesso negado")
		return
	}
	tool, err := h.Dir.GetTool(ctx, toolID)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("tool invoked", zap.String("ferramenta", toolID), zap.String("username", id.Username))
	httpjson.Respond(w, http.StatusOK, map[string]string{
		"result": fmt.Sprintf("Execução da ferramenta %s por %s", tool.Name, id.Username),
	})
}
