package parse

import (
	"reflect"
	"testing"
)

func TestParsePkgbuildDepsSingleLineArray(t *testing.T) {
	pkgbuild := `
pkgname=foo
depends=('glibc' 'openssl>=3.0' 'libedit.so')
makedepends=(cmake ninja)
`
	got := ParsePkgbuildDeps(pkgbuild)
	want := []string{"glibc", "openssl>=3.0"}
	if !reflect.DeepEqual(got.Depends, want) {
		t.Errorf("Depends = %v, want %v", got.Depends, want)
	}
	wantMake := []string{"cmake", "ninja"}
	if !reflect.DeepEqual(got.MakeDepends, wantMake) {
		t.Errorf("MakeDepends = %v, want %v", got.MakeDepends, wantMake)
	}
}

func TestParsePkgbuildDepsMultiLineArray(t *testing.T) {
	pkgbuild := `
depends=(
  'glibc'
  'zlib'
  'libfoo.so.1'
)
`
	got := ParsePkgbuildDeps(pkgbuild)
	want := []string{"glibc", "zlib"}
	if !reflect.DeepEqual(got.Depends, want) {
		t.Errorf("Depends = %v, want %v", got.Depends, want)
	}
}

func TestParsePkgbuildDepsDeduplicates(t *testing.T) {
	pkgbuild := `depends=('glibc' 'glibc')`
	got := ParsePkgbuildDeps(pkgbuild)
	if len(got.Depends) != 1 {
		t.Errorf("Depends = %v, want single entry", got.Depends)
	}
}

func TestParsePkgbuildConflictsStripsVersion(t *testing.T) {
	pkgbuild := `conflicts=('foo>=1.0' 'bar')`
	got := ParsePkgbuildConflicts(pkgbuild)
	want := []string{"foo", "bar"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Conflicts = %v, want %v", got, want)
	}
}

func TestFindMatchingCloseParen(t *testing.T) {
	if idx := findMatchingCloseParen("('a' 'b')"); idx != 8 {
		t.Errorf("idx = %d, want 8", idx)
	}
	if idx := findMatchingCloseParen("('a'"); idx != -1 {
		t.Errorf("idx = %d, want -1", idx)
	}
}

func TestTokenizeArrayContent(t *testing.T) {
	got := tokenizeArrayContent(`'glibc' "openssl>=3.0" plain`)
	want := []string{"glibc", "openssl>=3.0", "plain"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}
