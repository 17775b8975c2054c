package bootstrap

import (
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func validAppCfg() AppConfig {
	return AppConfig{
		StoreBackend: "file",
		RBACFile:     "data/rbac.json",
		RequestsFile: "data/requests.json",
		JWTSecret:    "0123456789ABCDEF-test",
		JWTExpiry:    time.Hour,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"file backend ok", "dev", func(c *AppConfig) {}, false},
		{"missing rbac file", "dev", func(c *AppConfig) { c.RBACFile = "" }, true},
		{"missing requests file", "dev", func(c *AppConfig) { c.RequestsFile = "" }, true},
		{"unknown backend", "dev", func(c *AppConfig) { c.StoreBackend = "postgres" }, true},
		{"mongo backend ok", "dev", func(c *AppConfig) {
			c.StoreBackend = "mongo"
			c.MongoURI = "mongodb://localhost:27017"
		}, false},
		{"mongo bad uri", "dev", func(c *AppConfig) {
			c.StoreBackend = "mongo"
			c.MongoURI = "http://not-mongo"
		}, true},
		{"short jwt secret", "dev", func(c *AppConfig) { c.JWTSecret = "curta" }, true},
		{"dev default secret in dev", "dev", func(c *AppConfig) { c.JWTSecret = "dev-only-change-me-0123456789ABCDEF" }, false},
		{"dev default secret in prod", "prod", func(c *AppConfig) { c.JWTSecret = "dev-only-change-me-0123456789ABCDEF" }, true},
		{"bootstrap user without password", "dev", func(c *AppConfig) { c.BootstrapAdminUser = "admin" }, true},
		{"bootstrap user with password", "dev", func(c *AppConfig) {
			c.BootstrapAdminUser = "admin"
			c.BootstrapAdminPassword = "senha12345"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appCfg := validAppCfg()
			tt.mutate(&appCfg)
			coreCfg := &config.CoreConfig{Env: tt.env}
			err := ValidateConfig(coreCfg, appCfg, zap.NewNop())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"*", []string{"*"}},
		{"https://a.example, https://b.example", []string{"https://a.example", "https://b.example"}},
		{" , https://a.example ,", []string{"https://a.example"}},
	}
	for _, tt := range tests {
		got := splitOrigins(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitOrigins(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitOrigins(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
