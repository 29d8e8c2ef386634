package sampletest

import "strings"

// normalizeOutput canonicalizes line endings to LF and strips trailing
// whitespace from the end of the string only. Leading and interior
// whitespace is preserved.
func normalizeOutput(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimRight(s, " \t\n")
}

// matchOutput renders the tri-state verdict: nil when no expectation was
// supplied, otherwise strict equality after normalization.
func matchOutput(actual string, expected *string) *bool {
	if expected == nil {
		return nil
	}
	matched := normalizeOutput(actual) == normalizeOutput(*expected)
	return &matched
}
