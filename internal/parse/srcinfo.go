package parse

import "strings"

// SrcinfoData is the subset of .SRCINFO fields relevant to dependency
// resolution.
type SrcinfoData struct {
	Pkgbase      string
	Pkgname      string
	Pkgver       string
	Pkgrel       string
	Depends      []string
	MakeDepends  []string
	CheckDepends []string
	OptDepends   []string
	Conflicts    []string
	Provides     []string
	Replaces     []string
}

var srcinfoDepFields = map[string]bool{
	"depends":      true,
	"makedepends":  true,
	"checkdepends": true,
	"optdepends":   true,
}

// isSharedLibraryToken reports whether a raw .SRCINFO value token names a
// virtual .so library rather than an actual package.
func isSharedLibraryToken(value string) bool {
	lower := strings.ToLower(value)
	return strings.HasSuffix(lower, ".so") || strings.Contains(lower, ".so.") || strings.Contains(lower, ".so=")
}

// baseFieldName strips an architecture suffix from a .SRCINFO key, e.g.
// "depends_x86_64" becomes "depends".
func baseFieldName(key string) string {
	if idx := strings.IndexByte(key, '_'); idx >= 0 {
		return key[:idx]
	}
	return key
}

// ParseSrcinfo parses the plain key = value lines of a .SRCINFO file into
// a SrcinfoData record. Architecture-suffixed keys are folded into their
// base field. pkgbase/pkgver/pkgrel take the first non-empty value seen;
// pkgname takes the first package name encountered (the primary split
// package). Dependency-kind sequences are deduplicated in first-occurrence
// order and never include virtual .so library references.
func ParseSrcinfo(text string) SrcinfoData {
	var data SrcinfoData
	seen := map[string]map[string]bool{
		"depends":      {},
		"makedepends":  {},
		"checkdepends": {},
		"optdepends":   {},
	}
	providesSeen := map[string]bool{}
	replacesSeen := map[string]bool{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		base := baseFieldName(key)

		switch base {
		case "pkgbase":
			if data.Pkgbase == "" {
				data.Pkgbase = value
			}
		case "pkgname":
			if data.Pkgname == "" {
				data.Pkgname = value
			}
		case "pkgver":
			if data.Pkgver == "" {
				data.Pkgver = value
			}
		case "pkgrel":
			if data.Pkgrel == "" {
				data.Pkgrel = value
			}
		case "provides":
			if value != "" && !isSharedLibraryToken(value) && !providesSeen[value] {
				providesSeen[value] = true
				data.Provides = append(data.Provides, value)
			}
		case "replaces":
			if value != "" && !isSharedLibraryToken(value) && !replacesSeen[value] {
				replacesSeen[value] = true
				data.Replaces = append(data.Replaces, value)
			}
		default:
			if !srcinfoDepFields[base] {
				continue
			}
			if value == "" || isSharedLibraryToken(value) {
				continue
			}
			bucket := seen[base]
			if bucket[value] {
				continue
			}
			bucket[value] = true
			switch base {
			case "depends":
				data.Depends = append(data.Depends, value)
			case "makedepends":
				data.MakeDepends = append(data.MakeDepends, value)
			case "checkdepends":
				data.CheckDepends = append(data.CheckDepends, value)
			case "optdepends":
				data.OptDepends = append(data.OptDepends, value)
			}
		}
	}
	return data
}

// ParseSrcinfoConflicts parses the `conflicts` fields of a .SRCINFO file,
// stripping any version constraint and deduplicating in first-occurrence
// order.
func ParseSrcinfoConflicts(text string) []string {
	var conflicts []string
	seen := map[string]bool{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if baseFieldName(strings.TrimSpace(key)) != "conflicts" {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" || isSharedLibraryToken(value) {
			continue
		}
		name := stripVersionOperator(value)
		if name != "" && !seen[name] {
			seen[name] = true
			conflicts = append(conflicts, name)
		}
	}
	return conflicts
}
