// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textutil

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "Oats", 10, "Oats"},
		{"exact", "Oats", 4, "Oats"},
		{"ascii cut", "Bananas, raw", 8, "Banan..."},
		{"multi-byte kept whole", "Crème brûlée, vanille", 10, "Crème b..."},
		{"multi-byte at the boundary", "Pâté de foie", 5, "Pâ..."},
		{"tiny max", "Crème", 2, "Cr"},
		{"zero max", "Crème", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, utf8.RuneCountInString(got), max(tt.max, 0))
		})
	}
}
