// Package pacmanquery wraps invocations of the external pacman executable.
// Every function here degrades gracefully on a missing binary or non-zero
// exit: callers on non-Arch hosts observe empty results, never errors, per
// the mandatory graceful-degradation contract.
package pacmanquery

import (
	"context"
	"os"
	"os/exec"
	"strings"
)

// localeEnv returns the parent process environment with LC_ALL and LANG
// forced to "C" so pacman's field labels ("Depends On", "None", ...) are
// always in English, regardless of the caller's locale.
func localeEnv() []string {
	base := os.Environ()
	env := make([]string, 0, len(base)+2)
	for _, kv := range base {
		if strings.HasPrefix(kv, "LC_ALL=") || strings.HasPrefix(kv, "LANG=") {
			continue
		}
		env = append(env, kv)
	}
	return append(env, "LC_ALL=C", "LANG=C")
}

func run(ctx context.Context, args ...string) (string, bool) {
	cmd := exec.CommandContext(ctx, "pacman", args...)
	cmd.Env = localeEnv()
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}
	return string(out), true
}

// InstalledPackages returns the set of all installed package names via
// `pacman -Qq`. Returns an empty set on any failure.
func InstalledPackages(ctx context.Context) map[string]struct{} {
	names := map[string]struct{}{}
	out, ok := run(ctx, "-Qq")
	if !ok {
		return names
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names[line] = struct{}{}
		}
	}
	return names
}

// ExplicitInstalled returns the set of explicitly (non-dependency) installed
// package names via `pacman -Qetq`.
func ExplicitInstalled(ctx context.Context) map[string]struct{} {
	names := map[string]struct{}{}
	out, ok := run(ctx, "-Qetq")
	if !ok {
		return names
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names[line] = struct{}{}
		}
	}
	return names
}

// UpgradablePackages returns the set of package names pacman reports as
// upgradable, via `pacman -Qu`. Output lines look like
// "name old-version -> new-version" or just "name" for AUR packages.
func UpgradablePackages(ctx context.Context) map[string]struct{} {
	names := map[string]struct{}{}
	out, ok := run(ctx, "-Qu")
	if !ok {
		return names
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if idx := strings.IndexByte(line, ' '); idx >= 0 {
			names[strings.TrimSpace(line[:idx])] = struct{}{}
		} else {
			names[line] = struct{}{}
		}
	}
	return names
}

// InstalledVersion returns the locally installed version of name via
// `pacman -Q name`, stripped of its pkgrel suffix. ok is false if the
// package is not installed or the output could not be parsed.
func InstalledVersion(ctx context.Context, name string) (version string, ok bool) {
	out, ran := run(ctx, "-Q", name)
	if !ran {
		return "", false
	}
	line := firstLine(out)
	idx := strings.IndexByte(line, ' ')
	if idx < 0 {
		return "", false
	}
	v := strings.TrimSpace(line[idx+1:])
	if dash := strings.IndexByte(v, '-'); dash >= 0 {
		v = v[:dash]
	}
	return v, true
}

// AvailableVersion returns the repository-advertised version of name via
// `pacman -Si name`, stripped of its pkgrel suffix. ok is false if the
// package is not found in any configured repository.
func AvailableVersion(ctx context.Context, name string) (version string, ok bool) {
	out, ran := run(ctx, "-Si", name)
	if !ran {
		return "", false
	}
	block := parseKeyValueBlock(out)
	v, present := block["Version"]
	if !present || len(v) == 0 {
		return "", false
	}
	first := v[0]
	if dash := strings.IndexByte(first, '-'); dash >= 0 {
		first = first[:dash]
	}
	return first, true
}

// ProvidingPackage returns the name of an installed package that provides
// name, via `pacman -Qqo name`. ok is false if nothing provides it.
func ProvidingPackage(ctx context.Context, name string) (providingPkg string, ok bool) {
	out, ran := run(ctx, "-Qqo", name)
	if !ran {
		return "", false
	}
	line := firstLine(out)
	if line == "" {
		return "", false
	}
	return line, true
}

// IsInstalledOrProvided reports whether name is directly installed or
// provided by an installed package.
func IsInstalledOrProvided(ctx context.Context, name string, installed map[string]struct{}) bool {
	if _, ok := installed[name]; ok {
		return true
	}
	_, ok := ProvidingPackage(ctx, name)
	return ok
}

// PackageInfo runs `pacman -Qi name` and returns the parsed key-value
// block. ok is false if the package is not installed.
func PackageInfo(ctx context.Context, name string) (fields map[string][]string, ok bool) {
	out, ran := run(ctx, "-Qi", name)
	if !ran {
		return nil, false
	}
	return parseKeyValueBlock(out), true
}

// RepoInfo runs `pacman -Si name` and returns the parsed key-value block.
// ok is false if the package is not found in any repository.
func RepoInfo(ctx context.Context, name string) (fields map[string][]string, ok bool) {
	out, ran := run(ctx, "-Si", name)
	if !ran {
		return nil, false
	}
	return parseKeyValueBlock(out), true
}

// BatchRepoInfo runs `pacman -Si` for a batch of names (pacman accepts
// multiple targets per invocation) and returns one key-value block per
// package name found in the output, split on blank lines.
func BatchRepoInfo(ctx context.Context, names []string) map[string]map[string][]string {
	result := map[string]map[string][]string{}
	if len(names) == 0 {
		return result
	}
	args := append([]string{"-Si"}, names...)
	out, ok := run(ctx, args...)
	if !ok {
		return result
	}
	for _, block := range strings.Split(out, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		fields := parseKeyValueBlock(block)
		if nameVals, present := fields["Name"]; present && len(nameVals) > 0 {
			result[nameVals[0]] = fields
		}
	}
	return result
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

// parseKeyValueBlock parses pacman -Si/-Qi output: colon-separated
// key/value lines, with continuation lines beginning with whitespace
// appended to the previous value with a single space separator. The
// literal "None" (case-insensitive) becomes an empty value list.
func parseKeyValueBlock(text string) map[string][]string {
	fields := map[string][]string{}
	var lastKey string
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && lastKey != "" {
			existing := fields[lastKey]
			appended := strings.TrimSpace(line)
			if len(existing) > 0 {
				existing[len(existing)-1] = existing[len(existing)-1] + " " + appended
			}
			fields[lastKey] = existing
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		lastKey = key
		fields[key] = []string{value}
	}
	// Split space-separated token values, treating "None" as empty.
	tokenized := map[string][]string{}
	for k, vs := range fields {
		if len(vs) == 0 {
			continue
		}
		tokenized[k] = splitWsOrNone(vs[0])
	}
	return tokenized
}

// splitWsOrNone splits a whitespace-separated value into tokens, treating
// the literal "None" (case-insensitive) or a blank string as no tokens.
func splitWsOrNone(v string) []string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "None") {
		return nil
	}
	return strings.Fields(v)
}
