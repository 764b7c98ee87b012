package guid

import (
	"strings"

	"github.com/google/uuid"
)

// Length is the number of hex characters in a GnuCash GUID.
const Length = 32

// New returns a fresh GnuCash-style GUID: 32 lowercase hex characters,
// a UUIDv4 with the dashes stripped.
func New() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsValid reports whether s looks like a GnuCash GUID.
func IsValid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' || c >= 'a' && c <= 'f' {
			continue
		}
		return false
	}
	return true
}
