// internal/app/features/groups/handler.go

// Package groups exposes the group management API: the group CRUD,
// membership and admin designation, and the per-group tool
// attachments. Authorization follows the original access rules: the
// CRUD is global-admin territory, membership and tools belong to the
// group's admins.
package groups

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jowpereira/mcp-server/internal/app/directory"
	"github.com/jowpereira/mcp-server/internal/app/policy/grouppolicy"
	"github.com/jowpereira/mcp-server/internal/app/system/authz"
	"github.com/jowpereira/mcp-server/internal/app/system/httpjson"
	"github.com/jowpereira/mcp-server/internal/domain/models"
)

const (
	detailGlobalOnly = "Acesso restrito ao admin global."
	detailGroupAdmin = "Acesso restrito ao admin do grupo ou global."
)

type Handler struct {
	Dir *directory.Service
	Log *zap.Logger
}

func NewHandler(dir *directory.Service, logger *zap.Logger) *Handler {
	return &Handler{Dir: dir, Log: logger}
}

// requireGlobal writes a 403 and returns false unless the caller is a
// global admin.
func (h *Handler) requireGlobal(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	id, ok := authz.UserCtx(r)
	if !ok || !id.IsGlobalAdmin() {
		httpjson.Fail(w, http.StatusForbidden, detailGlobalOnly)
		return models.Identity{}, false
	}
	return id, true
}

// requireManage loads a snapshot and checks the caller can manage the
// group. The 403 is written here; callers just bail on !ok.
func (h *Handler) requireManage(w http.ResponseWriter, r *http.Request, group string) (models.Identity, bool) {
	id, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Fail(w, http.StatusForbidden, detailGroupAdmin)
		return models.Identity{}, false
	}
	snap, err := h.Dir.Snapshot(r.Context())
	if err != nil {
		httpjson.Error(w, err)
		return models.Identity{}, false
	}
	if !grouppolicy.CanManageGroup(id, snap, group) {
		httpjson.Fail(w, http.StatusForbidden, detailGroupAdmin)
		return models.Identity{}, false
	}
	return id, true
}
