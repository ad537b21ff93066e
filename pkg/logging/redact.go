package logging

import (
	"strings"
	"unicode/utf8"
)

const (
	redactKeep = 2
	redactMask = "****"
)

// RedactEmail masks the local part of an address after its first two runes,
// e.g. "alice@example.com" becomes "al****@example.com". Malformed addresses
// and local parts too short to hide anything are returned trimmed but intact.
func RedactEmail(s string) string {
	s = strings.TrimSpace(s)

	local, domain, found := strings.Cut(s, "@")
	if !found || local == "" || domain == "" {
		return s
	}

	runes := []rune(local)
	if len(runes) <= redactKeep {
		return s
	}

	return string(runes[:redactKeep]) + redactMask + "@" + domain
}

// RedactCode masks a one time code, keeping only its length visible.
func RedactCode(code string) string {
	return strings.Repeat("*", utf8.RuneCountInString(code))
}
