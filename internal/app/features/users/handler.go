// internal/app/features/users/handler.go

// Package users exposes the user administration API. Everything here
// is global-admin territory except the password change, which a user
// may do for themselves.
package users

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
	"github.com/jowpereira/mcp-server/internal/app/system/httpjson"
	"github.com/jowpereira/mcp-server/internal/app/system/password"
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

type createUserRequest struct {
	Username string   `json:"username"`
	Senha    string   `json:"senha"`
	Papel    string   `json:"papel"`
	Grupos   []string `json:"grupos"`
}

type setPasswordRequest struct {
	Senha string `json:"senha"`
}

// userResponse never carries the credential.
type userResponse struct {
	Username string   `json:"username"`
	Papel    string   `json:"papel"`
	Grupos   []string `json:"grupos"`
}

func (h *Handler) requireGlobal(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	id, ok := authz.UserCtx(r)
	if !ok || !id.IsGlobalAdmin() {
		httpjson.Fail(w, http.StatusForbidden, detailGlobalOnly)
		return models.Identity{}, false
	}
	return id, true
}

// List handles GET /tools/usuarios. Global admin only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	if _, ok := h.requireGlobal(w, r); !ok {
		return
	}
	names, err := h.Dir.ListUsernames(ctx)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, map[string][]string{"usuarios": names})
}

// Create handles POST /tools/usuarios. Global admin only. The password
// is validated against the policy and stored as a bcrypt hash; an
// admin role requires at least one initial group.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	id, ok := h.requireGlobal(w, r)
	if !ok {
		return
	}
	var req createUserRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		httpjson.Fail(w, http.StatusBadRequest, "Usuário inválido.")
		return
	}
	role, err := models.ParseRole(req.Papel)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if err := password.Validate(req.Senha); err != nil {
		httpjson.Error(w, err)
		return
	}
	hash, err := password.Hash(req.Senha)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if err := h.Dir.CreateUser(ctx, req.Username, hash, role, req.Grupos); err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("user created", zap.String("username", req.Username), zap.String("papel", string(role)), zap.String("by", id.Username))
	httpjson.Message(w, http.StatusCreated, fmt.Sprintf("Usuário '%s' criado com sucesso.", req.Username))
}

// Get handles GET /tools/usuarios/{username}. A user may read their
// own record; everyone else needs global admin.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	username := chi.URLParam(r, "username")
	id, ok := authz.UserCtx(r)
	if !ok || !grouppolicy.CanManageUser(id, username) {
		httpjson.Fail(w, http.StatusForbidden, detailGlobalOnly)
		return
	}
	u, err := h.Dir.GetUser(ctx, username)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, userResponse{
		Username: username,
		Papel:    string(u.Role),
		Grupos:   u.Groups,
	})
}

// Delete handles DELETE /tools/usuarios/{username}. Global admin only;
// the user is removed from every group and their queued join requests
// are dropped.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	id, ok := h.requireGlobal(w, r)
	if !ok {
		return
	}
	username := chi.URLParam(r, "username")
	if username == id.Username {
		httpjson.Fail(w, http.StatusConflict, "Não é possível remover o próprio usuário.")
		return
	}
	if err := h.Dir.DeleteUser(ctx, username); err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("user deleted", zap.String("username", username), zap.String("by", id.Username))
	httpjson.Message(w, http.StatusOK, fmt.Sprintf("Usuário '%s' removido com sucesso.", username))
}

// SetPassword handles POST /tools/usuarios/{username}/password. Self
// or global admin.
func (h *Handler) SetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	username := chi.URLParam(r, "username")
	id, ok := authz.UserCtx(r)
	if !ok || !grouppolicy.CanManageUser(id, username) {
		httpjson.Fail(w, http.StatusForbidden, detailGlobalOnly)
		return
	}
	var req setPasswordRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	if err := password.Validate(req.Senha); err != nil {
		httpjson.Error(w, err)
		return
	}
	hash, err := password.Hash(req.Senha)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if err := h.Dir.SetPasswordHash(ctx, username, hash); err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("password changed", zap.String("username", username), zap.String("by", id.Username))
	httpjson.Message(w, http.StatusOK, "Senha atualizada com sucesso.")
}
