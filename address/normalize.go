// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package address

import (
	"regexp"
	"strings"
)

var (
	// noiseChars drops everything except letters, digits, underscore, spaces
	// and the characters Colombian nomenclature actually uses: # - .
	noiseChars = regexp.MustCompile(`[^\p{L}\p{N}_\s#\-.]`)
	spaceRuns  = regexp.MustCompile(`\s+`)
)

// Normalize cleans raw user input into the canonical form used by the
// classifier and as the geocode cache key: trimmed, lowercased, noise
// characters removed, whitespace runs collapsed to a single space.
// Accented letters are kept; accent folding is a matching concern, not a
// normalization one.
func Normalize(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = noiseChars.ReplaceAllString(s, "")
	s = spaceRuns.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}
