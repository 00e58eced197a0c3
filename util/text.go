// util/text.go
// Copyright(c) 2025 awyc contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"strings"
)

func IsAllNumbers(s string) bool {
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// CompareNatural orders strings the way a human reading route designators
// expects: embedded runs of digits are compared by numeric value rather
// than lexically, so "Q2" sorts before "Q10". Comparison of non-digit
// characters is plain byte comparison, which keeps mixed-case input
// deterministic. Numerically-equal digit runs with different leading
// zeros ("01" vs "1") are ordered lexically so that distinct strings
// never compare equal. Returns -1, 0, or 1.
func CompareNatural(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			// Extract both digit runs.
			is, js := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			da, db := a[is:i], b[js:j]

			// Compare by value: strip leading zeros, then a longer run
			// is a bigger number and equal-length runs compare lexically.
			ta, tb := strings.TrimLeft(da, "0"), strings.TrimLeft(db, "0")
			if len(ta) != len(tb) {
				if len(ta) < len(tb) {
					return -1
				}
				return 1
			}
			if ta != tb {
				if ta < tb {
					return -1
				}
				return 1
			}
			// Same value; fall back to the raw runs so "01" != "1".
			if da != db {
				if da < db {
					return -1
				}
				return 1
			}
		} else {
			if a[i] != b[j] {
				if a[i] < b[j] {
					return -1
				}
				return 1
			}
			i++
			j++
		}
	}
	switch {
	case i < len(a):
		return 1
	case j < len(b):
		return -1
	default:
		return 0
	}
}
