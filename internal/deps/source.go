package deps

import (
	"context"
	"strings"

	"github.com/archtoolkit/arch-toolkit-go/internal/pacmanquery"
)

// DetermineDependencySource infers the origin repository for a candidate
// dependency package. For installed packages it reads the "Repository"
// field from `pacman -Qi`; for uninstalled packages it checks
// `pacman -Si` to see whether the name exists in an official repository,
// defaulting to AUR only when it does not (no AUR lookup is performed, so
// a name found nowhere is still reported as AUR).
func DetermineDependencySource(ctx context.Context, name string, installed map[string]struct{}) (DependencySource, bool) {
	if _, ok := installed[name]; !ok {
		if fields, found := pacmanquery.RepoInfo(ctx, name); found {
			if repo := strings.ToLower(firstOrEmpty(fields["Repository"])); repo != "" {
				return DependencySource{Kind: SourceOfficial, Repo: repo}, repo == "core"
			}
			return DependencySource{Kind: SourceOfficial, Repo: "extra"}, false
		}
		return DependencySource{Kind: SourceAur}, false
	}

	if fields, found := pacmanquery.PackageInfo(ctx, name); found {
		if repo := strings.ToLower(firstOrEmpty(fields["Repository"])); repo != "" {
			if repo == "local" {
				return DependencySource{Kind: SourceLocal}, false
			}
			return DependencySource{Kind: SourceOfficial, Repo: repo}, repo == "core"
		}
	}

	isCore := IsSystemPackage(name)
	repo := "extra"
	if isCore {
		repo = "core"
	}
	return DependencySource{Kind: SourceOfficial, Repo: repo}, isCore
}

func firstOrEmpty(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}
