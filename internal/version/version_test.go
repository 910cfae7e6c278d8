package version

import "testing"

func TestCompareBasic(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.2.3-1", "1.2.10-1", -1},
		{"1.2.10-1", "1.2.3-1", 1},
		{"1.0", "1.0", 0},
		{"", "", 0},
		{"", "0", -1},
		{"0", "", 1},
		{"1.0", "1.0.0", 0},
		{"2.0", "1.9", 1},
	}
	for _, c := range cases {
		if got := Compare(c.a, c.b); got != c.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestComparePkgrelIsIgnored(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.2.3-1", "1.2.3-2", 0},
		{"1.2.3-1", "1.2.3", 0},
		{"1.2.3-10", "1.2.4-1", -1},
		{"1.2.3-rc1", "1.2.3", -1},
	}
	for _, c := range cases {
		if got := Compare(c.a, c.b); got != c.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestCompareEmptySuffixOutranksTextSuffix(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0rc1", 1},
		{"1.2.3", "1.2.3alpha", 1},
		{"1.2.3alpha", "1.2.3", -1},
		{"1.2.3alpha", "1.2.3beta", -1},
		{"1.2.3beta", "1.2.3alpha", 1},
	}
	for _, c := range cases {
		if got := Compare(c.a, c.b); got != c.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestCompareSymmetryAndReflexivity(t *testing.T) {
	pairs := [][2]string{
		{"1.2.3", "1.2.4"},
		{"2.0.0-3", "2.0.0-10"},
		{"1.0-beta", "1.0-alpha"},
		{"", "1.0"},
	}
	for _, p := range pairs {
		a, b := p[0], p[1]
		if Compare(a, a) != 0 {
			t.Errorf("Compare(%q, %q) != 0", a, a)
		}
		if Compare(a, b) != -Compare(b, a) {
			t.Errorf("Compare(%q, %q) != -Compare(%q, %q)", a, b, b, a)
		}
	}
}

func TestSatisfies(t *testing.T) {
	cases := []struct {
		installed, req string
		want           bool
	}{
		{"1.2.10", ">=1.2.3", true},
		{"1.2.10", "", true},
		{"1.2.2", ">=1.2.3", false},
		{"1.2.3", "=1.2.3", true},
		{"1.2.3", "<1.2.3", false},
		{"1.2.2", "<1.2.3", true},
	}
	for _, c := range cases {
		if got := Satisfies(c.installed, c.req); got != c.want {
			t.Errorf("Satisfies(%q, %q) = %v, want %v", c.installed, c.req, got, c.want)
		}
	}
}

func TestIsMajorVersionBump(t *testing.T) {
	if !IsMajorVersionBump("1.9", "2.0") {
		t.Error("expected major version bump between 1.9 and 2.0")
	}
	if IsMajorVersionBump("1.9", "1.10") {
		t.Error("did not expect major version bump between 1.9 and 1.10")
	}
}
