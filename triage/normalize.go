// Package triage implements the response-extraction and reconciliation
// engine: prompt construction, multi-grammar parsing of completion output,
// fuzzy name matching and create/update/skip resolution against the
// tracked-item set.
package triage

import (
	"regexp"
	"strings"
)

var (
	// The completion sometimes echoes the classification label inside the
	// item name itself ("SIGNAL: Review budget"); strip it on both paths.
	classPrefixRe = regexp.MustCompile(`(?i)^(?:signal|necessary|noise)\b\s*[:\-]?\s*`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	nonAlnumRe    = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
)

// CleanName produces a human-displayable item name: surrounding whitespace
// and markdown emphasis markers trimmed, a leading classification label
// stripped, internal whitespace runs collapsed.
func CleanName(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "*_")
	s = strings.TrimSpace(s)
	s = classPrefixRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Normalize produces the canonical comparison key for a name: cleaned,
// lower-cased, punctuation removed. Never shown to the user.
func Normalize(text string) string {
	s := strings.ToLower(CleanName(text))
	s = nonAlnumRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
