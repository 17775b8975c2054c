// internal/app/system/auth/auth.go

// Package auth issues and verifies the gateway's bearer tokens and
// injects the authenticated user into the request context. It plays
// the role a cookie session manager would in a server-rendered app;
// here the client is a separate frontend holding a JWT.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jowpereira/mcp-server/internal/domain/models"
	"go.uber.org/zap"
)

const minSecretLen = 16

// TokenUser is what we decode from a verified token and inject into
// r.Context().
type TokenUser struct {
	Username string
	Role     models.Role
	Groups   []string
}

// Identity converts the token user into the core's identity value.
func (u *TokenUser) Identity() models.Identity {
	return models.Identity{Username: u.Username, Role: u.Role, Groups: u.Groups}
}

// claims carries the original token layout: sub plus grupos/papel.
type claims struct {
	Groups []string `json:"grupos"`
	Role   string   `json:"papel"`
	jwt.RegisteredClaims
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the authenticated user and a found flag.
func CurrentUser(r *http.Request) (*TokenUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*TokenUser)
	return u, ok
}

// WithTestUser injects a user into the request context. Test hook.
func WithTestUser(r *http.Request, u *TokenUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// TokenManager signs and verifies HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	expiry time.Duration
	log    *zap.Logger
}

func NewTokenManager(secret string, expiry time.Duration, logger *zap.Logger) (*TokenManager, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLen)
	}
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &TokenManager{secret: []byte(secret), expiry: expiry, log: logger}, nil
}

// Issue creates a signed token for the user with sub, grupos, papel,
// and exp claims.
func (tm *TokenManager) Issue(username string, role models.Role, groups []string) (string, error) {
	if groups == nil {
		groups = []string{}
	}
	now := time.Now().UTC()
	c := claims{
		Groups: groups,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(tm.secret)
}

// Verify parses and validates a token, returning the embedded user.
func (tm *TokenManager) Verify(token string) (*TokenUser, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	role, roleErr := models.ParseRole(c.Role)
	if c.Subject == "" || roleErr != nil {
		return nil, fmt.Errorf("invalid token claims")
	}
	return &TokenUser{Username: c.Subject, Role: role, Groups: c.Groups}, nil
}

// LoadTokenUser is the global middleware: it verifies a Bearer token
// when one is presented and stores the user in context. A malformed or
// expired token fails the request immediately; the absence of a token
// just leaves the request anonymous for RequireSignedIn to reject on
// protected routes.
func (tm *TokenManager) LoadTokenUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			unauthorized(w, "Token inválido")
			return
		}
		u, err := tm.Verify(strings.TrimSpace(raw))
		if err != nil {
			tm.log.Warn("token rejected", zap.Error(err))
			if strings.Contains(err.Error(), "expired") {
				unauthorized(w, "Token expirado")
				return
			}
			unauthorized(w, "Token inválido")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), currentUserKey, u)))
	})
}

// RequireSignedIn ensures there is a user in context (set by
// LoadTokenUser) and returns 401 otherwise.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			unauthorized(w, "Não autenticado")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"detail":%q}`+"\n", detail)
}
