// Package chunker splits extracted document text into bounded-size, ordered
// segments for indexing and display.
package chunker

import "strings"

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 900

// Split partitions text into consecutive, non-overlapping windows of at most
// maxSize characters. The full text is trimmed once up front; each window is
// trimmed again and dropped if nothing remains. The result is a pure,
// deterministic function of (text, maxSize). Empty input yields no chunks.
// A maxSize below one falls back to DefaultChunkSize.
func Split(text string, maxSize int) []string {
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	chunks := make([]string, 0, len(runes)/maxSize+1)
	for start := 0; start < len(runes); start += maxSize {
		end := start + maxSize
		if end > len(runes) {
			end = len(runes)
		}
		part := strings.TrimSpace(string(runes[start:end]))
		if part != "" {
			chunks = append(chunks, part)
		}
	}
	return chunks
}
