package deps

import (
	"context"
	"sort"

	"github.com/archtoolkit/arch-toolkit-go/internal/pacmanquery"
)

// ReverseDependencySummary is the per-root aggregate of a reverse
// dependency traversal.
type ReverseDependencySummary struct {
	Root       string
	Direct     int
	Transitive int
	Total      int
}

// ReverseDependencyReport is the output of ReverseAnalyzer.Analyze.
type ReverseDependencyReport struct {
	Dependencies []Dependency
	Summaries    []ReverseDependencySummary
}

// ReverseAnalyzer performs breadth-first traversal of the installed
// package set to find everything that transitively depends on a set of
// removal candidates.
type ReverseAnalyzer struct {
	infoCache map[string]map[string][]string
}

// NewReverseAnalyzer creates an analyzer with its own per-run cache of
// `pacman -Qi` lookups.
func NewReverseAnalyzer() *ReverseAnalyzer {
	return &ReverseAnalyzer{infoCache: map[string]map[string][]string{}}
}

func (a *ReverseAnalyzer) queryInfo(ctx context.Context, name string) (map[string][]string, bool) {
	if fields, ok := a.infoCache[name]; ok {
		return fields, true
	}
	fields, ok := pacmanquery.PackageInfo(ctx, name)
	if ok {
		a.infoCache[name] = fields
	}
	return fields, ok
}

type queueItem struct {
	name  string
	depth int
	root  string
}

// Analyze enumerates every installed package that transitively requires
// any of roots, tagging direct (depth 0) vs. transitive relations, one
// summary per root.
func (a *ReverseAnalyzer) Analyze(ctx context.Context, roots []PackageRef) ReverseDependencyReport {
	installed := pacmanquery.InstalledPackages(ctx)

	byName := map[string]*Dependency{}
	countedForRoot := map[string]map[string]bool{}
	summaries := map[string]*ReverseDependencySummary{}
	for _, root := range roots {
		countedForRoot[root.Name] = map[string]bool{}
		summaries[root.Name] = &ReverseDependencySummary{Root: root.Name}
	}

	visited := map[string]bool{}
	var queue []queueItem
	for _, root := range roots {
		queue = append(queue, queueItem{name: root.Name, depth: 0, root: root.Name})
	}

	rootSet := map[string]bool{}
	for _, root := range roots {
		rootSet[root.Name] = true
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		visitKey := item.root + "\x00" + item.name
		if visited[visitKey] {
			continue
		}
		visited[visitKey] = true

		fields, ok := a.queryInfo(ctx, item.name)
		if !ok {
			continue
		}
		requiredBy := fields["Required By"]

		for _, dependent := range requiredBy {
			if countedForRoot[item.root][dependent] {
				continue
			}
			countedForRoot[item.root][dependent] = true

			status := DependencyStatus{Kind: StatusInstalled}
			if rootSet[dependent] {
				status = DependencyStatus{Kind: StatusConflict, Reason: "depends on " + item.root}
			} else if _, isInstalled := installed[dependent]; isInstalled {
				status = DependencyStatus{Kind: StatusConflict, Reason: "depends on " + item.root}
			}

			source, isCore := DetermineDependencySource(ctx, dependent, installed)

			if dep, exists := byName[dependent]; exists {
				if !containsString(dep.RequiredBy, item.root) {
					dep.RequiredBy = append(dep.RequiredBy, item.root)
				}
				if status.Priority() < dep.Status.Priority() {
					dep.Status = status
				}
			} else {
				byName[dependent] = &Dependency{
					Name:       dependent,
					Status:     status,
					Source:     source,
					RequiredBy: []string{item.root},
					IsCore:     isCore,
					IsSystem:   IsSystemPackage(dependent),
				}
			}

			summary := summaries[item.root]
			summary.Total++
			if item.depth == 0 {
				summary.Direct++
			} else {
				summary.Transitive++
			}

			queue = append(queue, queueItem{name: dependent, depth: item.depth + 1, root: item.root})
		}
	}

	var deps []Dependency
	for _, d := range byName {
		deps = append(deps, *d)
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })

	var summaryList []ReverseDependencySummary
	for _, root := range roots {
		summaryList = append(summaryList, *summaries[root.Name])
	}

	return ReverseDependencyReport{Dependencies: deps, Summaries: summaryList}
}

// HasInstalledRequiredBy reports whether name has any installed reverse
// dependent, per a direct (depth 0) `pacman -Qi` lookup.
func (a *ReverseAnalyzer) HasInstalledRequiredBy(ctx context.Context, name string) bool {
	fields, ok := a.queryInfo(ctx, name)
	if !ok {
		return false
	}
	return len(fields["Required By"]) > 0
}

// GetInstalledRequiredBy returns the direct (depth 0) reverse dependents
// of name from a `pacman -Qi` lookup.
func (a *ReverseAnalyzer) GetInstalledRequiredBy(ctx context.Context, name string) []string {
	fields, ok := a.queryInfo(ctx, name)
	if !ok {
		return nil
	}
	return fields["Required By"]
}
