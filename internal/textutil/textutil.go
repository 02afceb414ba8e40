// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil holds small helpers for formatting terminal output.
package textutil

import "unicode/utf8"

const ellipsis = "..."

// Truncate shortens s to at most max runes, replacing the tail with "..."
// when it is cut. It never splits a multi-byte rune.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max <= len(ellipsis) {
		return string(r[:max])
	}
	return string(r[:max-len(ellipsis)]) + ellipsis
}
