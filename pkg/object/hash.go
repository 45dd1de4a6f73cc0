package object

import (
	"fmt"
	"regexp"
)

// Hash is a lowercase hex object id: 40 characters for SHA-1 repositories,
// 64 for SHA-256 repositories.
type Hash string

var (
	reFullHash   = regexp.MustCompile(`^[0-9a-f]{40}$|^[0-9a-f]{64}$`)
	reAbbrevHash = regexp.MustCompile(`^[0-9a-f]{6,}$`)
)

// ParseHash validates a full object id.
func ParseHash(s string) (Hash, error) {
	if !reFullHash.MatchString(s) {
		return "", fmt.Errorf("invalid object hash %q", s)
	}
	return Hash(s), nil
}

// IsFullHash reports whether s is a complete 40- or 64-character hex id.
func IsFullHash(s string) bool {
	return reFullHash.MatchString(s)
}

// IsAbbrevHash reports whether s looks like a hash abbreviation: six or
// more lowercase hex digits. Abbreviations still need disambiguation by
// the object database.
func IsAbbrevHash(s string) bool {
	return reAbbrevHash.MatchString(s)
}

// Abbrev returns the first 8 characters of the hash for display.
func (h Hash) Abbrev() string {
	if len(h) < 8 {
		return string(h)
	}
	return string(h[:8])
}

func (h Hash) String() string { return string(h) }
