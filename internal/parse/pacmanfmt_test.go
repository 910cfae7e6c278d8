package parse

import "testing"

func TestIsValidPackageToken(t *testing.T) {
	cases := map[string]bool{
		"glibc":         true,
		"qt5-base":      true,
		"python3":       true,
		"lib32-glibc":   true,
		"libedit.so":    false,
		"libgit2.so.1":  false,
		"libfoo.so=0-64": false,
		"for":           false,
		"with":          false,
		"the":           false,
		"a":             false,
		"":              false,
	}
	for tok, want := range cases {
		if got := IsValidPackageToken(tok); got != want {
			t.Errorf("IsValidPackageToken(%q) = %v, want %v", tok, got, want)
		}
	}
}
