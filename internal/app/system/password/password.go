// internal/app/system/password/password.go

// Package password hashes and verifies credentials. Stored values are
// bcrypt hashes; snapshots that predate hashing may still carry
// plaintext, which Verify recognizes so the login path can migrate the
// entry on first successful use.
package password

import (
	"crypto/subtle"
	"strings"
	"unicode"

	"github.com/jowpereira/mcp-server/internal/domain/fault"
	"golang.org/x/crypto/bcrypt"
)

const minLength = 8

// Hash returns the bcrypt hash of a plaintext password.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fault.Internal("falha ao gerar hash de senha", err)
	}
	return string(h), nil
}

// IsHashed reports whether a stored credential is a bcrypt hash.
// Legacy snapshots stored plaintext, which never starts with "$2".
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}

// Verify checks a candidate against the stored credential. legacy is
// true when the stored value was plaintext and should be upgraded to a
// hash after a successful login.
func Verify(stored, candidate string) (ok, legacy bool) {
	if IsHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil, false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, true
}

// Validate enforces the password policy for new credentials: minimum
// length, at least one letter and one digit.
func Validate(plain string) error {
	if len(plain) < minLength {
		return fault.Invalid("senha deve ter no mínimo %d caracteres", minLength)
	}
	var hasLetter, hasDigit bool
	for _, r := range plain {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fault.Invalid("senha deve conter letras e números")
	}
	return nil
}
