// Package version implements a pacman-compatible version comparator.
//
// The algorithm follows the segment-based approach used by the original
// implementation this library was distilled from: strip a trailing
// all-digit pkgrel suffix, split what remains on '.' and '-' into
// segments, pad the shorter side's missing trailing segments with "0",
// and compare segments pairwise by numeric-prefix then text-suffix rules.
package version

import (
	"strings"
)

// Compare returns -1, 0, or 1 as a is less than, equal to, or greater
// than b, using pacman's vercmp-compatible ordering. Empty strings compare
// equal to each other and less than any non-empty string.
func Compare(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}

	a = stripPkgrel(a)
	b = stripPkgrel(b)
	if a == b {
		return 0
	}

	segsA := splitSegments(a)
	segsB := splitSegments(b)

	n := len(segsA)
	if len(segsB) > n {
		n = len(segsB)
	}
	for i := 0; i < n; i++ {
		sa := "0"
		if i < len(segsA) {
			sa = segsA[i]
		}
		sb := "0"
		if i < len(segsB) {
			sb = segsB[i]
		}
		if c := compareSegment(sa, sb); c != 0 {
			return c
		}
	}
	return 0
}

// Equal reports whether a and b compare equal.
func Equal(a, b string) bool {
	return Compare(a, b) == 0
}

// stripPkgrel drops a trailing "-N" pkgrel suffix (N all-digit) so
// "1.2.3-1" and "1.2.3-2" compare equal: pacman treats pkgrel as build
// metadata, not part of the upstream version ordering. A trailing "-"
// segment with any non-digit character (e.g. "-rc1") is left alone, since
// that is a real version suffix rather than a pkgrel.
func stripPkgrel(v string) string {
	i := strings.LastIndexByte(v, '-')
	if i < 0 {
		return v
	}
	suffix := v[i+1:]
	if suffix == "" {
		return v
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return v
		}
	}
	return v[:i]
}

func splitSegments(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == '.' || r == '-'
	})
}

// compareSegment compares one dot/dash-delimited segment of a version
// string: a numeric prefix (compared as an unsigned integer, ignoring
// leading zeros) followed by a non-numeric suffix (compared byte-wise).
func compareSegment(a, b string) int {
	numA, restA := splitNumericPrefix(a)
	numB, restB := splitNumericPrefix(b)

	if numA != "" || numB != "" {
		if c := compareNumeric(numA, numB); c != 0 {
			return c
		}
	}

	// Numeric prefixes tie: an empty suffix outranks a non-empty one
	// (pacman: "3" > "3alpha").
	switch {
	case restA == "" && restB == "":
		return 0
	case restA == "" && restB != "":
		return 1
	case restA != "" && restB == "":
		return -1
	default:
		return strings.Compare(restA, restB)
	}
}

func splitNumericPrefix(s string) (numeric, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}

func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// Satisfies evaluates requirement (e.g. ">=1.2.3", "=1.0", or empty) against
// installed. An empty or operator-less requirement is always satisfied.
func Satisfies(installed, requirement string) bool {
	requirement = strings.TrimSpace(requirement)
	if requirement == "" {
		return true
	}

	op, ver := splitOperator(requirement)
	if op == "" {
		return true
	}

	c := Compare(installed, ver)
	switch op {
	case "<=":
		return c <= 0
	case ">=":
		return c >= 0
	case "=":
		return c == 0
	case "<":
		return c < 0
	case ">":
		return c > 0
	default:
		return true
	}
}

// operatorOrder mirrors the search order used when scanning a raw
// dependency spec string for its operator: two-character operators must be
// checked before their one-character prefixes.
var operatorOrder = []string{"<=", ">=", "=", "<", ">"}

func splitOperator(s string) (op, rest string) {
	for _, candidate := range operatorOrder {
		if strings.HasPrefix(s, candidate) {
			return candidate, strings.TrimSpace(s[len(candidate):])
		}
	}
	return "", s
}

// IsMajorVersionBump reports whether a and b differ in their first numeric
// component.
func IsMajorVersionBump(a, b string) bool {
	majorA := firstNumericComponent(a)
	majorB := firstNumericComponent(b)
	return majorA != majorB
}

func firstNumericComponent(v string) string {
	segs := splitSegments(v)
	if len(segs) == 0 {
		return ""
	}
	num, _ := splitNumericPrefix(segs[0])
	return strings.TrimLeft(num, "0")
}
