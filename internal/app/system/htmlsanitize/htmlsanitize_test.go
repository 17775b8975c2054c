package htmlsanitize_test

import (
	"testing"

	"github.com/jowpereira/mcp-server/internal/app/system/htmlsanitize"
)

func TestPlain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Equipe de vendas", "Equipe de vendas"},
		{"  com espaços  ", "com espaços"},
		{"<script>alert('xss')</script>preciso de acesso", "preciso de acesso"},
		{"<b>negrito</b> vira texto", "negrito vira texto"},
		{`<a href="javascript:x()">link</a>`, "link"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.Plain(tt.in); got != tt.want {
			t.Errorf("Plain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
