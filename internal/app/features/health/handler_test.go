package health_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/jowpereira/mcp-server/internal/app/directory"
	"github.com/jowpereira/mcp-server/internal/app/features/health"
	"github.com/jowpereira/mcp-server/internal/testutil"
)

func TestHealthOK(t *testing.T) {
	store := testutil.NewMemRBACStore(testutil.SeedSnapshot())
	dir := directory.New(store, zap.NewNop())
	router := health.Routes(health.NewHandler(dir, nil, zap.NewNop()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Status string `json:"status"`
		Store  string `json:"store"`
	}
	testutil.DecodeBody(t, rec, &body)
	if body.Status != "ok" || body.Store != "connected" {
		t.Errorf("body = %+v", body)
	}
}

func TestHealthStoreDown(t *testing.T) {
	store := testutil.NewMemRBACStore(testutil.SeedSnapshot())
	store.FailLoad = errors.New("disk on fire")
	dir := directory.New(store, zap.NewNop())
	router := health.Routes(health.NewHandler(dir, nil, zap.NewNop()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var body struct {
		Status string `json:"status"`
		Store  string `json:"store"`
		Error  string `json:"error"`
	}
	testutil.DecodeBody(t, rec, &body)
	if body.Status != "error" || body.Store != "disconnected" || body.Error == "" {
		t.Errorf("body = %+v", body)
	}
}
