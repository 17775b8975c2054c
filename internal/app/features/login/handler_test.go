package login_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jowpereira/mcp-server/internal/app/directory"
	"github.com/jowpereira/mcp-server/internal/app/features/login"
	"github.com/jowpereira/mcp-server/internal/app/system/auth"
	"github.com/jowpereira/mcp-server/internal/app/system/password"
	"github.com/jowpereira/mcp-server/internal/testutil"
)

func newRouter(t *testing.T) (http.Handler, *login.Handler, *testutil.MemRBACStore) {
	t.Helper()
	store := testutil.NewMemRBACStore(testutil.SeedSnapshot())
	dir := directory.New(store, zap.NewNop())
	tokens, err := auth.NewTokenManager("0123456789ABCDEF-test", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	h := login.NewHandler(dir, tokens, true, zap.NewNop())
	return login.Routes(h), h, store
}

func doLogin(t *testing.T, router http.Handler, username, pass string) *httptest.ResponseRecorder {
	t.Helper()
	r := testutil.JSONRequest(t, "POST", "/login", map[string]string{"username": username, "password": pass})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestLogin(t *testing.T) {
	router, _, _ := newRouter(t)

	rec := doLogin(t, router, "maria", "maria123senha")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	testutil.DecodeBody(t, rec, &body)
	if body.AccessToken == "" || body.TokenType != "bearer" {
		t.Errorf("body = %+v", body)
	}
}

func TestLoginRejections(t *testing.T) {
	router, _, _ := newRouter(t)

	// Unknown user and wrong password share the same 401.
	for _, tc := range []struct{ user, pass string }{
		{"fantasma", "qualquer1"},
		{"maria", "senhaerrada"},
	} {
		rec := doLogin(t, router, tc.user, tc.pass)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("login(%s) status = %d, want 401", tc.user, rec.Code)
		}
		var body map[string]string
		testutil.DecodeBody(t, rec, &body)
		if body["detail"] != "Usuário ou senha inválidos" {
			t.Errorf("detail = %q", body["detail"])
		}
	}

	rec := doLogin(t, router, "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty credentials status = %d, want 400", rec.Code)
	}
	var body map[string]string
	testutil.DecodeBody(t, rec, &body)
	if body["detail"] != "Usuário e senha obrigatórios." {
		t.Errorf("detail = %q", body["detail"])
	}
}

func TestLoginMigratesLegacyCredential(t *testing.T) {
	router, _, store := newRouter(t)

	if password.IsHashed(store.Current().Users["joao"].PasswordHash) {
		t.Fatal("fixture should start with a plaintext credential")
	}
	rec := doLogin(t, router, "joao", "joao123senha")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	stored := store.Current().Users["joao"].PasswordHash
	if !password.IsHashed(stored) {
		t.Fatal("credential not migrated to bcrypt")
	}
	if ok, legacy := password.Verify(stored, "joao123senha"); !ok || legacy {
		t.Errorf("migrated credential Verify = (%v, %v), want (true, false)", ok, legacy)
	}

	// Second login goes through the hashed path.
	rec = doLogin(t, router, "joao", "joao123senha")
	if rec.Code != http.StatusOK {
		t.Errorf("second login status = %d", rec.Code)
	}
}

func TestLoginMigrationDisabled(t *testing.T) {
	store := testutil.NewMemRBACStore(testutil.SeedSnapshot())
	dir := directory.New(store, zap.NewNop())
	tokens, err := auth.NewTokenManager("0123456789ABCDEF-test", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	router := login.Routes(login.NewHandler(dir, tokens, false, zap.NewNop()))

	rec := doLogin(t, router, "joao", "joao123senha")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if password.IsHashed(store.Current().Users["joao"].PasswordHash) {
		t.Error("credential migrated despite the flag being off")
	}
}

func TestLoginThrottling(t *testing.T) {
	router, _, _ := newRouter(t)

	// Burn the per-username budget with wrong passwords.
	for i := 0; i < 5; i++ {
		rec := doLogin(t, router, "maria", fmt.Sprintf("errada%d", i))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d, want 401", i+1, rec.Code)
		}
	}
	rec := doLogin(t, router, "maria", "maria123senha")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("throttled status = %d, want 429", rec.Code)
	}
	var body map[string]string
	testutil.DecodeBody(t, rec, &body)
	if body["detail"] != "Muitas tentativas de login. Tente novamente em instantes." {
		t.Errorf("detail = %q", body["detail"])
	}

	// Other accounts are unaffected.
	rec = doLogin(t, router, "joao", "joao123senha")
	if rec.Code != http.StatusOK {
		t.Errorf("other account status = %d, want 200", rec.Code)
	}
}

func TestLoginSuccessResetsThrottle(t *testing.T) {
	router, _, _ := newRouter(t)

	for i := 0; i < 4; i++ {
		doLogin(t, router, "maria", "senhaerrada")
	}
	rec := doLogin(t, router, "maria", "maria123senha")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	// The successful login cleared the counters.
	for i := 0; i < 4; i++ {
		rec = doLogin(t, router, "maria", "senhaerrada")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("post-reset attempt %d status = %d, want 401", i+1, rec.Code)
		}
	}
}

func TestRefreshToken(t *testing.T) {
	router, h, _ := newRouter(t)

	r := testutil.JSONRequest(t, "POST", "/refresh-token", nil)
	r = testutil.SignedIn(r, testutil.GroupAdmin())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		AccessToken string `json:"access_token"`
	}
	testutil.DecodeBody(t, rec, &body)
	u, err := h.Tokens.Verify(body.AccessToken)
	if err != nil {
		t.Fatalf("refreshed token does not verify: %v", err)
	}
	if u.Username != "maria" {
		t.Errorf("token username = %q", u.Username)
	}

	// Anonymous refresh is refused.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.JSONRequest(t, "POST", "/refresh-token", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous refresh status = %d, want 401", rec.Code)
	}
}

func TestRefreshForDeletedUser(t *testing.T) {
	router, _, store := newRouter(t)

	snap := store.Current()
	// Simulate deletion after the token was issued.
	delete(snap.Users, "joao")
	g := snap.Groups["vendas"]
	g.Members = []string{"maria"}
	if err := store.Commit(context.Background(), snap); err != nil {
		t.Fatal(err)
	}

	r := testutil.SignedIn(testutil.JSONRequest(t, "POST", "/refresh-token", nil), testutil.Member())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var body map[string]string
	testutil.DecodeBody(t, rec, &body)
	if body["detail"] != "Token inválido" {
		t.Errorf("detail = %q", body["detail"])
	}
}
