package pacmanquery

import (
	"context"
	"os/exec"
	"testing"
)

func skipIfNoPacman(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("pacman"); err != nil {
		t.Skip("pacman not available on this host")
	}
}

func TestParseKeyValueBlockMergesWrappedLines(t *testing.T) {
	sample := "Name            : glibc\n" +
		"Depends On      : linux-api-headers  tzdata\n" +
		"                  filesystem\n" +
		"Required By     : None\n"
	fields := parseKeyValueBlock(sample)
	if got := fields["Name"]; len(got) != 1 || got[0] != "glibc" {
		t.Errorf("Name = %v", got)
	}
	depends := fields["Depends On"]
	want := []string{"linux-api-headers", "tzdata", "filesystem"}
	if len(depends) != len(want) {
		t.Fatalf("Depends On = %v, want %v", depends, want)
	}
	for i := range want {
		if depends[i] != want[i] {
			t.Errorf("Depends On[%d] = %q, want %q", i, depends[i], want[i])
		}
	}
	if got, ok := fields["Required By"]; ok && len(got) != 0 {
		t.Errorf("Required By = %v, want empty", got)
	}
}

func TestSplitWsOrNoneHandlesNoneAndEmpty(t *testing.T) {
	if got := splitWsOrNone("None"); got != nil {
		t.Errorf("splitWsOrNone(None) = %v, want nil", got)
	}
	if got := splitWsOrNone("  "); got != nil {
		t.Errorf("splitWsOrNone(blank) = %v, want nil", got)
	}
	if got := splitWsOrNone("a b c"); len(got) != 3 {
		t.Errorf("splitWsOrNone(a b c) = %v", got)
	}
}

func TestInstalledPackagesIntegration(t *testing.T) {
	skipIfNoPacman(t)
	names := InstalledPackages(context.Background())
	if len(names) == 0 {
		t.Skip("no installed packages reported")
	}
}
