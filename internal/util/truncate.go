package util

import "unicode/utf8"

// TruncateRunes shortens s to at most max bytes, backing off to the
// nearest rune boundary so a multi-byte character is never cut in half.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
