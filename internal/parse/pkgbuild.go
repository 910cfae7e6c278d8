// Package parse implements the pure, allocation-proportional parsers this
// library uses: PKGBUILD bash fragments, .SRCINFO key=value lines, package
// token filtering for pacman -Si/-Qi values, AUR RPC JSON, and AUR HTML
// comment pages. Splitting pacman's key-value blocks themselves is done in
// internal/pacmanquery.
package parse

import "strings"

// PkgbuildDeps holds the four dependency-kind sequences extracted from a
// PKGBUILD's bash arrays.
type PkgbuildDeps struct {
	Depends      []string
	MakeDepends  []string
	CheckDepends []string
	OptDepends   []string
}

var pkgbuildDepKeys = map[string]bool{
	"depends":      true,
	"makedepends":  true,
	"checkdepends": true,
	"optdepends":   true,
}

// ParsePkgbuildDeps scans PKGBUILD text for depends/makedepends/
// checkdepends/optdepends array assignments (both `=` and `+=` forms,
// single-line and multi-line), tokenizes their bodies, filters out .so
// virtual-package tokens and other invalid tokens, and deduplicates each
// sequence while preserving first-occurrence order.
func ParsePkgbuildDeps(pkgbuild string) PkgbuildDeps {
	var result PkgbuildDeps
	seen := map[string]map[string]bool{
		"depends":      {},
		"makedepends":  {},
		"checkdepends": {},
		"optdepends":   {},
	}

	lines := strings.Split(pkgbuild, "\n")
	for i := 0; i < len(lines); {
		line := strings.TrimSpace(lines[i])
		i++
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		baseKey := strings.TrimSuffix(key, "+")
		if !pkgbuildDepKeys[baseKey] {
			continue
		}
		if !strings.HasPrefix(value, "(") {
			continue
		}

		var tokens []string
		if closeIdx := findMatchingCloseParen(value); closeIdx >= 0 {
			tokens = tokenizeArrayContent(value[1:closeIdx])
		} else {
			var arrayLines []string
			for i < len(lines) {
				next := strings.TrimSpace(lines[i])
				i++
				if next == "" || strings.HasPrefix(next, "#") {
					continue
				}
				if next == ")" {
					break
				}
				if idx := strings.IndexByte(next, ')'); idx >= 0 {
					before := strings.TrimSpace(next[:idx])
					if before != "" {
						arrayLines = append(arrayLines, before)
					}
					break
				}
				arrayLines = append(arrayLines, next)
			}
			tokens = tokenizeArrayContent(strings.Join(arrayLines, " "))
		}

		bucket := seen[baseKey]
		for _, tok := range tokens {
			tok = strings.TrimSpace(tok)
			if tok == "" || !isValidDependencyToken(tok) {
				continue
			}
			if bucket[tok] {
				continue
			}
			bucket[tok] = true
			switch baseKey {
			case "depends":
				result.Depends = append(result.Depends, tok)
			case "makedepends":
				result.MakeDepends = append(result.MakeDepends, tok)
			case "checkdepends":
				result.CheckDepends = append(result.CheckDepends, tok)
			case "optdepends":
				result.OptDepends = append(result.OptDepends, tok)
			}
		}
	}
	return result
}

// findMatchingCloseParen finds the position of the ')' that closes the
// leading '(' of s, respecting single- and double-quoted substrings.
// Returns -1 if s never closes on this line.
func findMatchingCloseParen(s string) int {
	depth := 0
	inQuotes := false
	var quoteChar byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case (ch == '\'' || ch == '"') && !inQuotes:
			inQuotes = true
			quoteChar = ch
		case inQuotes && ch == quoteChar:
			inQuotes = false
		case ch == '(' && !inQuotes:
			depth++
		case ch == ')' && !inQuotes:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// tokenizeArrayContent splits a bash-array body into its whitespace- or
// quote-delimited entries, stripping surrounding quotes from each.
func tokenizeArrayContent(content string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false
	var quoteChar byte

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for i := 0; i < len(content); i++ {
		ch := content[i]
		switch {
		case (ch == '\'' || ch == '"') && !inQuotes:
			inQuotes = true
			quoteChar = ch
		case inQuotes && ch == quoteChar:
			flush()
			inQuotes = false
		case inQuotes:
			current.WriteByte(ch)
		case ch == ' ' || ch == '\t' || ch == '\n':
			flush()
		default:
			current.WriteByte(ch)
		}
	}
	flush()
	return tokens
}

// isValidDependencyToken reports whether a token from a PKGBUILD array
// looks like an actual package dependency rather than a virtual .so
// library reference or a stray parsing artifact.
func isValidDependencyToken(dep string) bool {
	lower := strings.ToLower(dep)
	if strings.HasSuffix(lower, ".so") || strings.Contains(lower, ".so.") || strings.Contains(lower, ".so=") {
		return false
	}
	if strings.HasSuffix(dep, ")") {
		if strings.Contains(dep, ">=") || strings.Contains(dep, "<=") || strings.Contains(dep, "==") {
			return false
		}
	}
	return true
}

// ParsePkgbuildConflicts scans PKGBUILD text for `conflicts` array
// assignments using the same tokenization as ParsePkgbuildDeps, returning
// package names with any version constraint stripped.
func ParsePkgbuildConflicts(pkgbuild string) []string {
	var conflicts []string
	seen := map[string]bool{}

	lines := strings.Split(pkgbuild, "\n")
	for i := 0; i < len(lines); {
		line := strings.TrimSpace(lines[i])
		i++
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		baseKey := strings.TrimSuffix(key, "+")
		if baseKey != "conflicts" || !strings.HasPrefix(value, "(") {
			continue
		}

		var tokens []string
		if closeIdx := findMatchingCloseParen(value); closeIdx >= 0 {
			tokens = tokenizeArrayContent(value[1:closeIdx])
		} else {
			var arrayLines []string
			for i < len(lines) {
				next := strings.TrimSpace(lines[i])
				i++
				if next == "" || strings.HasPrefix(next, "#") {
					continue
				}
				if next == ")" {
					break
				}
				if idx := strings.IndexByte(next, ')'); idx >= 0 {
					before := strings.TrimSpace(next[:idx])
					if before != "" {
						arrayLines = append(arrayLines, before)
					}
					break
				}
				arrayLines = append(arrayLines, next)
			}
			tokens = tokenizeArrayContent(strings.Join(arrayLines, " "))
		}

		for _, tok := range tokens {
			tok = strings.TrimSpace(tok)
			if tok == "" || !isValidDependencyToken(tok) {
				continue
			}
			name := stripVersionOperator(tok)
			if name != "" && !seen[name] {
				seen[name] = true
				conflicts = append(conflicts, name)
			}
		}
	}
	return conflicts
}

var depOperators = []string{"<=", ">=", "=", "<", ">"}

func stripVersionOperator(spec string) string {
	for _, op := range depOperators {
		if idx := strings.Index(spec, op); idx > 0 {
			return strings.TrimSpace(spec[:idx])
		}
	}
	return strings.TrimSpace(spec)
}
