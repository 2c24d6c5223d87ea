package indexer

import "fmt"

// SplitText splits text into overlapping fixed-size windows suitable for
// embedding and excerpting. Sizes count runes, matching how transcripts are
// measured elsewhere regardless of encoding.
//
// Every chunk except possibly the last has exactly maxChars runes; consecutive
// chunks from the same text share overlap runes. Empty text yields an empty
// slice; text shorter than maxChars yields one chunk equal to the whole text.
// The function is pure and deterministic.
func SplitText(text string, maxChars, overlap int) ([]string, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("maxChars must be greater than 0, got %d", maxChars)
	}
	if overlap < 0 || overlap >= maxChars {
		// overlap >= maxChars would never advance the window.
		return nil, fmt.Errorf("overlap must be in [0, maxChars), got %d", overlap)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return []string{}, nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
		start = end - overlap
	}
	return chunks, nil
}
