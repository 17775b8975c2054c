// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"
	"strings"

	"github.com/jowpereira/mcp-server/internal/app/directory"
	"github.com/jowpereira/mcp-server/internal/app/system/auth"
	"github.com/jowpereira/mcp-server/internal/app/system/httpjson"
	"github.com/jowpereira/mcp-server/internal/app/system/password"
	"github.com/jowpereira/mcp-server/internal/app/system/ratelimit"
	"github.com/jowpereira/mcp-server/internal/app/system/timeouts"
	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"go.uber.org/zap"
)

// Handler authenticates users against the directory and issues bearer
// tokens.
type Handler struct {
	Dir    *directory.Service
	Tokens *auth.TokenManager
	Guard  *ratelimit.LoginGuard
	Log    *zap.Logger

	// MigratePlaintext upgrades legacy plaintext credentials to bcrypt
	// on the first successful login.
	MigratePlaintext bool
}

func NewHandler(dir *directory.Service, tokens *auth.TokenManager, migratePlaintext bool, logger *zap.Logger) *Handler {
	return &Handler{
		Dir:              dir,
		Tokens:           tokens,
		Guard:            ratelimit.NewLoginGuard(),
		MigratePlaintext: migratePlaintext,
		Log:              logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login handles POST /tools/login. Unknown users and wrong passwords
// get the same 401 so the endpoint does not leak which usernames
// exist.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		httpjson.Fail(w, http.StatusBadRequest, "Usuário e senha obrigatórios.")
		return
	}

	ip := ratelimit.ClientIP(r)
	if !h.Guard.Allow(ip, req.Username) {
		h.Log.Warn("login throttled", zap.String("ip", ip), zap.String("username", req.Username))
		httpjson.Fail(w, http.StatusTooManyRequests, "Muitas tentativas de login. Tente novamente em instantes.")
		return
	}

	u, err := h.Dir.GetUser(ctx, req.Username)
	if err != nil {
		if fault.Is(err, fault.KindNotFound) {
			httpjson.Fail(w, http.StatusUnauthorized, "Usuário ou senha inválidos")
			return
		}
		httpjson.Error(w, err)
		return
	}

	ok, legacy := password.Verify(u.PasswordHash, req.Password)
	if !ok {
		h.Log.Warn("login rejected", zap.String("username", req.Username))
		httpjson.Fail(w, http.StatusUnauthorized, "Usuário ou senha inválidos")
		return
	}
	h.Guard.Reset(ip, req.Username)
	if legacy && h.MigratePlaintext {
		h.migrateCredential(ctx, req.Username, req.Password)
	}

	token, err := h.Tokens.Issue(req.Username, u.Role, u.Groups)
	if err != nil {
		httpjson.Error(w, fault.Internal("falha ao emitir token", err))
		return
	}
	h.Log.Info("login ok", zap.String("username", req.Username), zap.String("papel", string(u.Role)))
	httpjson.Respond(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Refresh handles POST /tools/refresh-token. The caller presents a
// still-valid token and receives a fresh one with the user's current
// role and groups, so a promotion or group change takes effect without
// a new login.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Fail(w, http.StatusUnauthorized, "Não autenticado")
		return
	}
	cur, err := h.Dir.GetUser(ctx, u.Username)
	if err != nil {
		if fault.Is(err, fault.KindNotFound) {
			// User was deleted after the token was issued.
			httpjson.Fail(w, http.StatusUnauthorized, "Token inválido")
			return
		}
		httpjson.Error(w, err)
		return
	}
	token, err := h.Tokens.Issue(u.Username, cur.Role, cur.Groups)
	if err != nil {
		httpjson.Error(w, fault.Internal("falha ao emitir token", err))
		return
	}
	httpjson.Respond(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// migrateCredential replaces a plaintext stored password with its
// bcrypt hash. Best effort: a failure leaves the plaintext in place
// for the next login to retry.
func (h *Handler) migrateCredential(ctx context.Context, username, plain string) {
	hash, err := password.Hash(plain)
	if err != nil {
		h.Log.Warn("credential migration: hash failed", zap.String("username", username), zap.Error(err))
		return
	}
	if err := h.Dir.SetPasswordHash(ctx, username, hash); err != nil {
		h.Log.Warn("credential migration: store failed", zap.String("username", username), zap.Error(err))
		return
	}
	h.Log.Info("legacy credential migrated to bcrypt", zap.String("username", username))
}
