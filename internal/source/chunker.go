package source

import "strings"

// SplitChunks divides text into chunks of at most maxChars, breaking on
// paragraph boundaries where possible. A paragraph larger than maxChars is
// hard-split. A trailing fragment smaller than minChars folds into the
// previous chunk rather than standing alone.
func SplitChunks(text string, maxChars, minChars int) []string {
	if maxChars <= 0 {
		maxChars = 6000
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		if current.Len() > 0 && current.Len()+len(paragraph)+2 > maxChars {
			flush()
		}

		if len(paragraph) > maxChars {
			flush()
			for len(paragraph) > maxChars {
				cut := splitPoint(paragraph, maxChars)
				chunks = append(chunks, strings.TrimSpace(paragraph[:cut]))
				paragraph = strings.TrimSpace(paragraph[cut:])
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(paragraph)
	}
	flush()

	// Fold a runt tail into its neighbor.
	if n := len(chunks); n > 1 && minChars > 0 && len(chunks[n-1]) < minChars {
		chunks[n-2] = chunks[n-2] + "\n\n" + chunks[n-1]
		chunks = chunks[:n-1]
	}

	return chunks
}

// splitPoint finds a whitespace near the limit to cut an oversized
// paragraph at, falling back to a hard cut.
func splitPoint(text string, limit int) int {
	if idx := strings.LastIndexAny(text[:limit], " \t\n"); idx > limit/2 {
		return idx
	}
	return limit
}
