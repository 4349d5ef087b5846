package trust

import (
	"regexp"
	"strings"
)

// doiPattern matches DOIs embedded in document text.
var doiPattern = regexp.MustCompile(`(?i)10\.\d{4,9}/[^\s"'<>)]+`)

// FindDOI extracts the first DOI from text, if any. Trailing punctuation
// that commonly clings to inline DOIs is stripped.
func FindDOI(text string) string {
	match := doiPattern.FindString(text)
	if match == "" {
		return ""
	}
	return strings.TrimRight(match, ".,;)")
}
