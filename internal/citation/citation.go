// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation enforces the inline citation policy over generated
// body text. Markers have the fixed form [PMID:<5-9 digits>].
package citation

import (
	"regexp"
	"slices"

	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

// markerRe matches one marker together with the whitespace before it, so
// removal leaves no dangling gap.
var markerRe = regexp.MustCompile(`(?i)\s*\[PMID:\s*(\d{5,9})\]`)

// Enforce applies mode to body in a single left-to-right pass.
//
// Under CitationNone every marker is removed. Under CitationLimited a
// marker survives only while fewer than max have been kept, when its id is
// in allow, and on the id's first kept occurrence; survivors are rewritten
// as " [PMID:<id>]". Any other mode returns body unchanged.
func Enforce(body string, mode types.CitationMode, max int, allow []string) string {
	switch mode {
	case types.CitationNone:
		return markerRe.ReplaceAllString(body, "")
	case types.CitationLimited:
	default:
		return body
	}

	kept := 0
	seen := make(map[string]bool)
	return markerRe.ReplaceAllStringFunc(body, func(m string) string {
		id := markerRe.FindStringSubmatch(m)[1]
		if kept >= max || !slices.Contains(allow, id) || seen[id] {
			return ""
		}
		seen[id] = true
		kept++
		return " [PMID:" + id + "]"
	})
}

// Markers returns the ids of every marker in body, in order, duplicates
// included.
func Markers(body string) []string {
	var ids []string
	for _, m := range markerRe.FindAllStringSubmatch(body, -1) {
		ids = append(ids, m[1])
	}
	return ids
}
