// Package deviceid issues and validates the opaque per-device tokens that
// stand in for a user identity.
package deviceid

import (
	"strings"

	"github.com/google/uuid"
)

const maxLen = 128

func New() string {
	return uuid.NewString()
}

// Normalize trims s and reports whether the result is an acceptable token.
func Normalize(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, Valid(s)
}

func Valid(s string) bool {
	if s == "" || len(s) > maxLen {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
