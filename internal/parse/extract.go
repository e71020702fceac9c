// Package parse recovers structured domain records from free-form model
// text. It never lets a malformed or partial answer become a hard failure
// on the generation path: extraction degrades to text heuristics, and
// missing records are synthesized.
package parse

import "regexp"

// Greedy spans: first opening delimiter to the last matching closing
// delimiter. Prose around the JSON is discarded.
var (
	arrayPattern  = regexp.MustCompile(`(?s)\[.*\]`)
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractArray returns the first JSON-array-shaped substring of text.
func ExtractArray(text string) (string, bool) {
	m := arrayPattern.FindString(text)
	return m, m != ""
}

// ExtractObject returns the first JSON-object-shaped substring of text.
func ExtractObject(text string) (string, bool) {
	m := objectPattern.FindString(text)
	return m, m != ""
}
