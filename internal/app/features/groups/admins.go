// internal/app/features/groups/admins.go
package groups

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jowpereira/mcp-server/internal/app/system/authz"
	"github.com/jowpereira/mcp-server/internal/app/system/httpjson"
	"github.com/jowpereira/mcp-server/internal/app/system/timeouts"
	"github.com/jowpereira/mcp-server/internal/domain/models"
)

// Designate handles POST /tools/grupos/{grupo}/admins. Global admin
// only; the target must already be a member of the group.
func (h *Handler) Designate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	id, ok := h.requireGlobal(w, r)
	if !ok {
		return
	}
	grupo := chi.URLParam(r, "grupo")
	h.designate(ctx, w, grupo, id, r)
}

// Promote handles POST /tools/grupos/{grupo}/promover-admin, the
// group-admin-reachable variant of Designate.
func (h *Handler) Promote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	grupo := chi.URLParam(r, "grupo")
	id, ok := h.requireManage(w, r, grupo)
	if !ok {
		return
	}
	h.designate(ctx, w, grupo, id, r)
}

func (h *Handler) designate(ctx context.Context, w http.ResponseWriter, grupo string, by models.Identity, r *http.Request) {
	var req memberRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		httpjson.Fail(w, http.StatusBadRequest, "Usuário inválido.")
		return
	}
	if err := h.Dir.DesignateAdmin(ctx, grupo, req.Username); err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("admin designated", zap.String("grupo", grupo), zap.String("username", req.Username), zap.String("by", by.Username))
	httpjson.Message(w, http.StatusOK, fmt.Sprintf("Usuário '%s' agora é admin do grupo '%s'", req.Username, grupo))
}

// Revoke handles DELETE /tools/grupos/{grupo}/admins/{username}. Group
// admin or global. Removing the last admin of a non-empty group is
// refused for group admins; global authority overrides the guard.
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	grupo := chi.URLParam(r, "grupo")
	username := chi.URLParam(r, "username")
	id, ok := h.requireManage(w, r, grupo)
	if !ok {
		return
	}
	force := authz.IsGlobalAdmin(r)
	if err := h.Dir.RevokeAdmin(ctx, grupo, username, force); err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("admin revoked", zap.String("grupo", grupo), zap.String("username", username), zap.String("by", id.Username), zap.Bool("force", force))
	httpjson.Message(w, http.StatusOK, fmt.Sprintf("Usuário '%s' não é mais admin do grupo '%s'", username, grupo))
}
