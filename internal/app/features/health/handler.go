// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/jowpereira/mcp-server/internal/app/directory"
	"github.com/jowpereira/mcp-server/internal/app/system/httpjson"
	"github.com/jowpereira/mcp-server/internal/app/system/timeouts"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Dir   *directory.Service
	Mongo *mongo.Client // nil when the file backend is in use
	Log   *zap.Logger
}

func NewHandler(dir *directory.Service, client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{Dir: dir, Mongo: client, Log: logger}
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Error  string `json:"error,omitempty"`
}

// Serve handles GET /tools/health. The store probe is a mongo ping
// when mongo backs the snapshot, otherwise a snapshot load.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping)
	defer cancel()

	if err := h.probe(ctx); err != nil {
		h.Log.Error("health check: store unavailable", zap.Error(err))
		httpjson.Respond(w, http.StatusServiceUnavailable, healthResponse{
			Status: "error",
			Store:  "disconnected",
			Error:  err.Error(),
		})
		return
	}
	httpjson.Respond(w, http.StatusOK, healthResponse{Status: "ok", Store: "connected"})
}

func (h *Handler) probe(ctx context.Context) error {
	if h.Mongo != nil {
		return h.Mongo.Ping(ctx, readpref.Primary())
	}
	_, err := h.Dir.Snapshot(ctx)
	return err
}
