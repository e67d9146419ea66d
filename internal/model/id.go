package model

import (
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

var idEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a 26 character lowercase base32 encoding of a random UUID.
func NewID() string {
	id := uuid.New()
	return strings.ToLower(idEncoding.EncodeToString(id[:]))
}

// ValidID reports whether s looks like an id issued by NewID or by an
// older export (hex ids of at least 10 characters).
func ValidID(s string) bool {
	if len(s) < 10 || len(s) > 30 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
