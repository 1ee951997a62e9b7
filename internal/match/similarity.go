// Package match scores external search candidates against a target record.
//
// The heuristics are deliberately simple and tunable: this is a best-effort
// matcher for noisy catalog data, not an information-retrieval system.
package match

import "strings"

// Similarity compares two free-text strings (title or author) and returns
// a normalized similarity in [0, 1]. Deterministic and pure.
//
// Rules, in order:
//   - either side empty after trimming: 0
//   - case-insensitive exact match: 1
//   - substring containment either direction: shorter/longer + 0.3, capped at 1
//   - otherwise word overlap of words longer than 2 characters
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		shorter, longer := len(a), len(b)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return min(float64(shorter)/float64(longer)+0.3, 1.0)
	}

	return wordOverlap(a, b)
}

// wordOverlap counts words of length > 2 in a that also occur in b,
// normalized by the larger word count.
func wordOverlap(a, b string) float64 {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	inB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		inB[w] = true
	}

	common := 0
	for _, w := range wordsA {
		if len(w) > 2 && inB[w] {
			common++
		}
	}

	return float64(common) / float64(max(len(wordsA), len(wordsB)))
}
