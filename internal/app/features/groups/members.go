// internal/app/features/groups/members.go
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

type memberRequest struct {
	Username string `json:"username"`
}

type membersResponse struct {
	Admins []string `json:"admins"`
	Users  []string `json:"users"`
}

// ListMembers handles GET /tools/grupos/{grupo}/usuarios. Visible to
// the group's members and admins, and to global admins.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
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
	g, ok := snap.Groups[grupo]
	if !ok {
		httpjson.Fail(w, http.StatusNotFound, "Grupo não encontrado.")
		return
	}
	httpjson.Respond(w, http.StatusOK, membersResponse{Admins: g.Admins, Users: g.Members})
}

// AddMember handles POST /tools/grupos/{grupo}/usuarios. Group admin
// or global; adding an existing member is a no-op.
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	grupo := chi.URLParam(r, "grupo")
	id, ok := h.requireManage(w, r, grupo)
	if !ok {
		return
	}
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
	if err := h.Dir.AddMember(ctx, grupo, req.Username); err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("member added", zap.String("grupo", grupo), zap.String("username", req.Username), zap.String("by", id.Username))
	httpjson.Message(w, http.StatusOK, fmt.Sprintf("Usuário '%s' adicionado ao grupo '%s'", req.Username, grupo))
}

// RemoveMember handles DELETE /tools/grupos/{grupo}/usuarios/{username}.
// Group admin or global. Removing an admin member also drops the admin
// seat, which may downgrade the user's role.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	grupo := chi.URLParam(r, "grupo")
	username := chi.URLParam(r, "username")
	id, ok := h.requireManage(w, r, grupo)
	if !ok {
		return
	}
	if err := h.Dir.RemoveMember(ctx, grupo, username); err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("member removed", zap.String("grupo", grupo), zap.String("username", username), zap.String("by", id.Username))
	httpjson.Message(w, http.StatusOK, fmt.Sprintf("Usuário '%s' removido do grupo '%s'", username, grupo))
}
