// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize cleans user-supplied free text before it is
// stored. Descriptions, justifications, and review comments are plain
// text as far as the API is concerned, so everything that looks like
// markup is stripped rather than escaped.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Plain strips all HTML from s and trims surrounding whitespace.
// Entities produced by the sanitizer are unescaped again so stored
// text stays readable ("ç" not "&#231;").
func Plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
