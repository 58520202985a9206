// Package parse extracts application tracking identifiers from free-form
// operator text. An identifier is one of two literal prefixes (EXEXTR or
// F0EXTR) followed by exactly 14 decimal digits, matched as a whole token.
package parse

import "regexp"

// trackingIDRE matches a tracking identifier as a whole token. The word
// boundaries reject identifiers embedded in a longer alphanumeric run
// (e.g. a 15-digit tail), matching the store's key format exactly.
var trackingIDRE = regexp.MustCompile(`\b(?:EXEXTR|F0EXTR)\d{14}\b`)

// anchoredIDRE validates a full string as a single tracking identifier.
var anchoredIDRE = regexp.MustCompile(`^(?:EXEXTR|F0EXTR)\d{14}$`)

// Extract returns all tracking identifiers found in text, in order of
// appearance. Matches are non-overlapping and case-sensitive. Duplicates
// are preserved; callers that query the store should Dedupe first.
// An empty result means the text carries nothing actionable.
func Extract(text string) []string {
	return trackingIDRE.FindAllString(text, -1)
}

// Dedupe removes repeated identifiers while preserving first-appearance
// order. It returns the input slice untouched when no duplicates exist.
func Dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == len(ids) {
		return ids
	}
	return out
}

// IsTrackingID reports whether s is exactly one well-formed tracking
// identifier.
func IsTrackingID(s string) bool {
	return anchoredIDRE.MatchString(s)
}
