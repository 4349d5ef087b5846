package util

import "strings"

// JSONPayload strips markdown fences and surrounding commentary from
// capability output, returning the outermost JSON object or array, or ""
// when no candidate payload exists. It does not validate the JSON.
func JSONPayload(raw string) string {
	s := strings.TrimSpace(raw)

	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}

	var closer byte
	if s[start] == '{' {
		closer = '}'
	} else {
		closer = ']'
	}

	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return ""
	}

	return s[start : end+1]
}
