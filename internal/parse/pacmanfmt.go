package parse

import "strings"

// commonWords are English filler words that occasionally leak into
// pacman's free-text description fields and would otherwise be mistaken
// for package name tokens when scanning value lists.
var commonWords = map[string]bool{
	"for": true, "to": true, "with": true, "is": true, "that": true,
	"using": true, "usually": true, "bundled": true, "bindings": true,
	"tooling": true, "the": true, "and": true, "or": true, "in": true,
	"on": true, "at": true, "by": true, "from": true, "as": true,
	"if": true, "when": true, "where": true, "which": true, "what": true,
	"how": true, "why": true,
}

// IsValidPackageToken reports whether a token drawn from a pacman -Si/-Qi
// value field looks like a real package name, filtering .so virtual
// packages, common English words, and other non-package artifacts.
func IsValidPackageToken(token string) bool {
	if len(token) < 2 {
		return false
	}
	lower := strings.ToLower(token)
	if strings.HasSuffix(lower, ".so") || strings.Contains(lower, ".so.") || strings.Contains(lower, ".so=") {
		return false
	}
	if commonWords[lower] {
		return false
	}
	first := rune(token[0])
	if !isAlphanumericASCII(first) && first != '-' && first != '_' {
		return false
	}
	if strings.HasSuffix(token, ":") {
		return false
	}
	for _, r := range token {
		if isAlphanumericASCII(r) {
			return true
		}
	}
	return false
}

func isAlphanumericASCII(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// FilterValidPackageTokens applies IsValidPackageToken over a token slice,
// preserving order.
func FilterValidPackageTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if IsValidPackageToken(tok) {
			out = append(out, tok)
		}
	}
	return out
}
