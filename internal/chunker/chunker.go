// Package chunker splits over-long texts into pieces that fit a
// translation provider's per-call character limit, preferring paragraph
// and sentence boundaries so each piece stays independently translatable.
package chunker

import (
	"strings"
	"unicode"
)

// Split divides text into chunks of at most maxChars runes each. Split
// points are chosen, in order of preference, at paragraph breaks, after
// sentence-ending punctuation, at whitespace, or as a hard cut when no
// boundary exists. maxChars ≤ 0 means unlimited; text already within the
// limit comes back as a single chunk.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 || len([]rune(text)) <= maxChars {
		return []string{text}
	}

	var chunks []string
	remaining := text
	for len([]rune(remaining)) > maxChars {
		cut := splitPoint(remaining, maxChars)
		chunk := strings.TrimSpace(remaining[:cut])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		remaining = strings.TrimSpace(remaining[cut:])
	}
	if remaining != "" {
		chunks = append(chunks, remaining)
	}
	return chunks
}

// Join reassembles translated chunks into one string.
func Join(chunks []string) string {
	return strings.Join(chunks, " ")
}

// splitPoint returns the byte offset at which to cut, searching backwards
// within the first maxChars runes for the best boundary.
func splitPoint(text string, maxChars int) int {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return len(text)
	}
	candidate := runes[:maxChars]

	// Paragraph break.
	if idx := strings.LastIndex(string(candidate), "\n\n"); idx > 0 {
		return idx + 2
	}

	// Sentence-ending punctuation followed by a space. Includes CJK
	// full-width sentence terminators, which need no trailing space.
	for i := len(candidate) - 1; i > 0; i-- {
		r := candidate[i]
		if r == '。' || r == '！' || r == '？' {
			return len(string(candidate[:i+1]))
		}
		if (r == '.' || r == '!' || r == '?') && i+1 < len(candidate) && unicode.IsSpace(candidate[i+1]) {
			return len(string(candidate[:i+1]))
		}
	}

	// Word boundary.
	for i := len(candidate) - 1; i > 0; i-- {
		if unicode.IsSpace(candidate[i]) {
			return len(string(candidate[:i]))
		}
	}

	// Hard cut.
	return len(string(candidate))
}
