// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package textutils

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LowerASCIIFolding normalizes a string by removing accents, lowercasing, and trimming spaces.
func LowerASCIIFolding(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}

// FormatDistance renders a distance in meters for user-facing messages.
// Below one kilometer it uses meters, above it kilometers with one decimal.
func FormatDistance(meters int) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", meters)
	}

	// %.1f rounds half to even; round half up so 5250 renders as 5.3km.
	km := math.Round(float64(meters)/100) / 10

	return fmt.Sprintf("%.1fkm", km)
}
