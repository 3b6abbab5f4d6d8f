package domain

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidAddressFormat is returned when an input string is not a
// canonical 20-byte hex account address.
var ErrInvalidAddressFormat = errors.New("invalid address format: expected 0x followed by 40 hex digits")

// addressRe matches the canonical lowercase form only. Inputs are
// lowercased before matching, so mixed-case input is accepted.
var addressRe = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

// NormalizeAddress validates and canonicalizes an account address into
// lowercase hex form. Normalization is idempotent: feeding the output
// back in returns the same string.
func NormalizeAddress(raw string) (string, error) {
	a := strings.ToLower(strings.TrimSpace(raw))
	if !addressRe.MatchString(a) {
		return "", ErrInvalidAddressFormat
	}
	return a, nil
}

// IsValidAddress reports whether raw normalizes to a canonical address.
func IsValidAddress(raw string) bool {
	_, err := NormalizeAddress(raw)
	return err == nil
}
