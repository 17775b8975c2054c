// internal/app/features/requests/handler.go

// Package requests exposes the group access request workflow: users
// submit a justified request, group admins review it, an approval
// adds the requester to the group.
package requests

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jowpereira/mcp-server/internal/app/directory"
	"github.com/jowpereira/mcp-server/internal/app/policy/grouppolicy"
	"github.com/jowpereira/mcp-server/internal/app/requestflow"
	"github.com/jowpereira/mcp-server/internal/app/system/authz"
	"github.com/jowpereira/mcp-server/internal/app/system/htmlsanitize"
	"github.com/jowpereira/mcp-server/internal/app/system/httpjson"
	"github.com/jowpereira/mcp-server/internal/app/system/timeouts"
	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"github.com/jowpereira/mcp-server/internal/domain/models"
)

const (
	detailAdminsOnly   = "Acesso restrito a administradores"
	detailNoViewAccess = "Sem permissão para acessar esta solicitação"
	detailNoGroupAdmin = "Sem permissão para administrar este grupo"
)

type Handler struct {
	Flow *requestflow.Service
	Dir  *directory.Service
	Log  *zap.Logger
}

func NewHandler(flow *requestflow.Service, dir *directory.Service, logger *zap.Logger) *Handler {
	return &Handler{Flow: flow, Dir: dir, Log: logger}
}

type submitRequest struct {
	Grupo         string `json:"grupo"`
	Justificativa string `json:"justificativa"`
}

type reviewRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

type requestResponse struct {
	RequestID     string     `json:"request_id"`
	Username      string     `json:"username"`
	Grupo         string     `json:"grupo"`
	Status        string     `json:"status"`
	Justificativa string     `json:"justificativa"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	ReviewedBy    *string    `json:"reviewed_by,omitempty"`
	ReviewComment *string    `json:"review_comment,omitempty"`
}

func toResponse(req models.AccessRequest) requestResponse {
	return requestResponse{
		RequestID:     req.ID,
		Username:      req.Username,
		Grupo:         req.Group,
		Status:        string(req.Status),
		Justificativa: req.Justification,
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
		ReviewedBy:    req.ReviewedBy,
		ReviewComment: req.ReviewComment,
	}
}

func toResponses(reqs []models.AccessRequest) []requestResponse {
	out := make([]requestResponse, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, toResponse(req))
	}
	return out
}

// Submit handles POST /tools/requests.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	id, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Não autenticado")
		return
	}
	var req submitRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	created, err := h.Flow.Submit(ctx, id.Username, req.Grupo, htmlsanitize.Plain(req.Justificativa))
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("access request submitted",
		zap.String("request_id", created.ID),
		zap.String("username", id.Username),
		zap.String("grupo", req.Grupo))
	httpjson.Respond(w, http.StatusCreated, toResponse(created))
}

// Me handles GET /tools/requests/me: every request the caller has
// submitted, newest first.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	id, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Não autenticado")
		return
	}
	reqs, err := h.Flow.ListByUser(ctx, id.Username)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, toResponses(reqs))
}

// Admin handles GET /tools/requests/admin: pending requests for the
// groups the caller administers, or every pending request for a
// global admin.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	id, ok := authz.UserCtx(r)
	if !ok || (id.Role != models.RoleAdmin && id.Role != models.RoleGlobalAdmin) {
		httpjson.Fail(w, http.StatusForbidden, detailAdminsOnly)
		return
	}
	reqs, err := h.Flow.ListPendingForAdmin(ctx, id.Username)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, toResponses(reqs))
}

// Get handles GET /tools/requests/{id}. Visible to the requester, the
// target group's admins, and global admins.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	id, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Não autenticado")
		return
	}
	req, err := h.Flow.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	snap, err := h.Dir.Snapshot(ctx)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if !grouppolicy.CanViewRequest(id, snap, req) {
		httpjson.Fail(w, http.StatusForbidden, detailNoViewAccess)
		return
	}
	httpjson.Respond(w, http.StatusOK, toResponse(req))
}

// Review handles POST /tools/requests/{id}/review. Group admin or
// global; an approval also adds the requester to the group.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	id, ok := authz.UserCtx(r)
	if !ok || (id.Role != models.RoleAdmin && id.Role != models.RoleGlobalAdmin) {
		httpjson.Fail(w, http.StatusForbidden, detailAdminsOnly)
		return
	}
	requestID := chi.URLParam(r, "id")

	var body reviewRequest
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.Error(w, err)
		return
	}
	decision, valid := models.ParseRequestStatus(body.Status)
	if !valid {
		httpjson.Error(w, fault.Invalid("status de revisão inválido: '%s'", body.Status))
		return
	}

	req, err := h.Flow.Get(ctx, requestID)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	snap, err := h.Dir.Snapshot(ctx)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if !grouppolicy.CanManageGroup(id, snap, req.Group) {
		httpjson.Fail(w, http.StatusForbidden, detailNoGroupAdmin)
		return
	}

	updated, err := h.Flow.Review(ctx, requestID, id.Username, decision, htmlsanitize.Plain(body.Comment))
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if updated.Status == models.StatusApproved {
		if err := h.Flow.Apply(ctx, requestID); err != nil {
			httpjson.Error(w, err)
			return
		}
	}
	h.Log.Info("access request reviewed",
		zap.String("request_id", requestID),
		zap.String("status", string(updated.Status)),
		zap.String("by", id.Username))
	httpjson.Respond(w, http.StatusOK, toResponse(updated))
}
