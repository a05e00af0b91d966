package utils

import "strings"

// SplitText cuts text into chunks of at most limit runes, preferring to break
// after a newline in the latter half of a chunk so lines stay whole.
func SplitText(text string, limit int) []string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > limit {
		cut := limit
		if i := strings.LastIndex(string(runes[:limit]), "\n"); i >= 0 {
			// LastIndex is a byte offset, convert back to runes
			if n := len([]rune(string(runes[:limit])[:i])) + 1; n > limit/2 {
				cut = n
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
