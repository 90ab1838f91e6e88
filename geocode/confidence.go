// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import "strings"

// Confidence puntúa qué tanto se parece la dirección formateada a lo que el
// usuario escribió, como (maxLen - levenshtein) / maxLen acotado a [0.1, 1.0].
// El piso de 0.1 evita descartar visualmente sugerencias que el proveedor sí
// consideró relevantes.
func Confidence(original, formatted string) float64 {
	a := strings.ToLower(original)
	b := strings.ToLower(formatted)

	maxLen := len([]rune(a))
	if n := len([]rune(b)); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	score := float64(maxLen-levenshtein(a, b)) / float64(maxLen)
	if score < 0.1 {
		return 0.1
	}
	if score > 1.0 {
		return 1.0
	}

	return score
}

func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
