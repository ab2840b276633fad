// Package words selects vocabulary words from a remote dictionary API,
// degrading to a curated offline list when the API is unreachable.
package words

import "strings"

// Word is one vocabulary entry as fetched, before it is persisted.
type Word struct {
	Term         string `json:"term"`
	Definition   string `json:"definition"`
	PartOfSpeech string `json:"partOfSpeech,omitempty"`
	Example      string `json:"example,omitempty"`
}

// Normalize lower-cases and trims a term. The store applies the same rule, so
// comparisons between fetched and persisted terms line up.
func Normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
