package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jowpereira/mcp-server/internal/app/system/auth"
	"github.com/jowpereira/mcp-server/internal/domain/models"
)

// GlobalAdmin returns the token user matching SeedSnapshot's "admin".
func GlobalAdmin() *auth.TokenUser {
	return &auth.TokenUser{Username: "admin", Role: models.RoleGlobalAdmin, Groups: []string{}}
}

// GroupAdmin returns the token user matching SeedSnapshot's "maria".
func GroupAdmin() *auth.TokenUser {
	return &auth.TokenUser{Username: "maria", Role: models.RoleAdmin, Groups: []string{"vendas"}}
}

// Member returns the token user matching SeedSnapshot's "joao".
func Member() *auth.TokenUser {
	return &auth.TokenUser{Username: "joao", Role: models.RoleUser, Groups: []string{"vendas"}}
}

// JSONRequest builds an httptest request with a JSON body, or no body
// when v is nil.
func JSONRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	if v == nil {
		return httptest.NewRequest(method, target, nil)
	}
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	r := httptest.NewRequest(method, target, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// SignedIn injects u into the request context the way the auth
// middleware would.
func SignedIn(r *http.Request, u *auth.TokenUser) *http.Request {
	return auth.WithTestUser(r, u)
}

// DecodeBody unmarshals a recorded JSON response into dst.
func DecodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response body %q: %v", rec.Body.String(), err)
	}
}
