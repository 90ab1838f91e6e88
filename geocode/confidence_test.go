// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"abc", "", 3},
		{"carrera", "carrera", 0},
		{"bogotá", "bogota", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, levenshtein(tt.a, tt.b))
		})
	}
}

func TestConfidence(t *testing.T) {
	t.Run("identical strings score 1.0", func(t *testing.T) {
		assert.Equal(t, 1.0, Confidence("carrera 15 # 93-07", "carrera 15 # 93-07"))
	})

	t.Run("comparison is case-insensitive", func(t *testing.T) {
		assert.Equal(t, 1.0, Confidence("Calle 10 # 5-20", "calle 10 # 5-20"))
	})

	t.Run("unrelated strings hit the 0.1 floor", func(t *testing.T) {
		assert.Equal(t, 0.1, Confidence("abc", "xyz"))
	})

	t.Run("partial similarity", func(t *testing.T) {
		// distancia 3 sobre longitud máxima 7
		assert.InDelta(t, 4.0/7.0, Confidence("kitten", "sitting"), 1e-9)
	})

	t.Run("both empty", func(t *testing.T) {
		assert.Equal(t, 1.0, Confidence("", ""))
	})
}
