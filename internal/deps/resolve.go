package deps

import (
	"context"
	"sort"
	"strings"

	"github.com/archtoolkit/arch-toolkit-go/internal/pacmanquery"
	"github.com/archtoolkit/arch-toolkit-go/internal/parse"
	"github.com/archtoolkit/arch-toolkit-go/internal/version"
)

// SrcinfoFetcher fetches raw .SRCINFO text for an AUR package, used as the
// fallback when a root has no cached PKGBUILD and CheckAur is enabled.
type SrcinfoFetcher func(ctx context.Context, name string) (string, error)

// ResolverConfig configures a forward dependency resolution run.
type ResolverConfig struct {
	IncludeOptDepends   bool
	IncludeMakeDepends  bool
	IncludeCheckDepends bool
	MaxDepth            int
	CheckAur            bool
	PkgbuildCache       func(name string) (string, bool)
	SkipDependency      func(name string) bool
	FetchSrcinfo        SrcinfoFetcher
}

// DependencyResolution is the output of a forward resolution run.
type DependencyResolution struct {
	Dependencies []Dependency
	Conflicts    []Dependency
	Missing      []string
}

// Resolver runs forward dependency resolution over official-repo, AUR,
// and local package roots.
type Resolver struct {
	cfg ResolverConfig
}

// NewResolver builds a Resolver with cfg.
func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

type rawDep struct {
	spec DependencySpec
	root string
	kind string // "depend" or "conflict"
}

// Resolve classifies every transitive runtime dependency of roots as
// installed, to-install, to-upgrade, conflicting, or missing, labeling
// each dependency's origin.
func (r *Resolver) Resolve(ctx context.Context, roots []PackageRef) (DependencyResolution, error) {
	installed := pacmanquery.InstalledPackages(ctx)

	byName := map[string]*Dependency{}
	var missing []string
	missingSeen := map[string]bool{}

	current := roots
	seenRoots := map[string]bool{}
	for _, root := range current {
		seenRoots[root.Name] = true
	}

	for depth := 0; depth <= r.cfg.MaxDepth; depth++ {
		if len(current) == 0 {
			break
		}
		raws, unresolved := r.collectDirect(ctx, current)
		for _, name := range unresolved {
			if !missingSeen[name] {
				missingSeen[name] = true
				missing = append(missing, name)
			}
		}

		var next []PackageRef
		nextSeen := map[string]bool{}

		for _, raw := range raws {
			name := raw.spec.Name
			if name == "" || r.shouldFilter(name) {
				continue
			}

			status := r.determineStatus(ctx, name, raw.spec.VersionReq, installed, raw.kind == "conflict")
			source, isCore := DetermineDependencySource(ctx, name, installed)

			existing, ok := byName[name]
			if !ok {
				dep := &Dependency{
					Name:       name,
					VersionReq: raw.spec.VersionReq,
					Status:     status,
					Source:     source,
					RequiredBy: []string{raw.root},
					IsCore:     isCore,
					IsSystem:   IsSystemPackage(name),
				}
				byName[name] = dep
			} else {
				if !containsString(existing.RequiredBy, raw.root) {
					existing.RequiredBy = append(existing.RequiredBy, raw.root)
				}
				if status.Priority() < existing.Status.Priority() {
					existing.Status = status
				}
			}

			if depth < r.cfg.MaxDepth && !seenRoots[name] && !nextSeen[name] {
				nextSeen[name] = true
				seenRoots[name] = true
				next = append(next, PackageRef{Name: name, Source: PackageSource{Kind: sourceKindFor(source)}})
			}
		}
		current = next
	}

	var deps, conflicts []Dependency
	for _, d := range byName {
		if d.Status.Kind == StatusConflict {
			conflicts = append(conflicts, *d)
		} else {
			deps = append(deps, *d)
		}
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Name < conflicts[j].Name })
	sort.Strings(missing)

	return DependencyResolution{Dependencies: deps, Conflicts: conflicts, Missing: missing}, nil
}

func sourceKindFor(s DependencySource) PackageSourceKind {
	switch s.Kind {
	case SourceAur:
		return PkgSourceAur
	case SourceLocal:
		return PkgSourceLocal
	default:
		return PkgSourceOfficial
	}
}

func containsString(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// collectDirect gathers the direct DependencySpecs (and conflicts) for a
// batch of roots, returning names that could not be resolved at all.
func (r *Resolver) collectDirect(ctx context.Context, roots []PackageRef) ([]rawDep, []string) {
	var raws []rawDep
	var unresolved []string

	var officialNames []string
	for _, root := range roots {
		if root.Source.Kind == PkgSourceOfficial {
			officialNames = append(officialNames, root.Name)
		}
	}
	batch := pacmanquery.BatchRepoInfo(ctx, officialNames)

	for _, root := range roots {
		switch root.Source.Kind {
		case PkgSourceOfficial:
			fields, ok := batch[root.Name]
			if !ok {
				unresolved = append(unresolved, root.Name)
				continue
			}
			for _, tok := range fields["Depends On"] {
				raws = append(raws, rawDep{spec: parseSpec(tok), root: root.Name, kind: "depend"})
			}
			for _, tok := range fields["Conflicts With"] {
				raws = append(raws, rawDep{spec: parseSpec(tok), root: root.Name, kind: "conflict"})
			}

		case PkgSourceLocal:
			fields, ok := pacmanquery.PackageInfo(ctx, root.Name)
			if !ok {
				unresolved = append(unresolved, root.Name)
				continue
			}
			for _, tok := range fields["Depends On"] {
				raws = append(raws, rawDep{spec: parseSpec(tok), root: root.Name, kind: "depend"})
			}
			for _, tok := range fields["Conflicts With"] {
				raws = append(raws, rawDep{spec: parseSpec(tok), root: root.Name, kind: "conflict"})
			}

		case PkgSourceAur:
			pkgbuildText, ok := "", false
			if r.cfg.PkgbuildCache != nil {
				pkgbuildText, ok = r.cfg.PkgbuildCache(root.Name)
			}
			if ok {
				deps := parse.ParsePkgbuildDeps(pkgbuildText)
				raws = append(raws, r.buildAurRaws(root.Name, deps)...)
				for _, c := range parse.ParsePkgbuildConflicts(pkgbuildText) {
					raws = append(raws, rawDep{spec: DependencySpec{Name: c}, root: root.Name, kind: "conflict"})
				}
				continue
			}
			if r.cfg.CheckAur && r.cfg.FetchSrcinfo != nil {
				text, err := r.cfg.FetchSrcinfo(ctx, root.Name)
				if err == nil {
					info := parse.ParseSrcinfo(text)
					raws = append(raws, r.buildSrcinfoRaws(root.Name, info)...)
					for _, c := range parse.ParseSrcinfoConflicts(text) {
						raws = append(raws, rawDep{spec: DependencySpec{Name: c}, root: root.Name, kind: "conflict"})
					}
					continue
				}
			}
			unresolved = append(unresolved, root.Name)
		}
	}
	return raws, unresolved
}

func (r *Resolver) buildAurRaws(root string, d parse.PkgbuildDeps) []rawDep {
	var raws []rawDep
	for _, tok := range d.Depends {
		raws = append(raws, rawDep{spec: parseSpec(tok), root: root, kind: "depend"})
	}
	if r.cfg.IncludeMakeDepends {
		for _, tok := range d.MakeDepends {
			raws = append(raws, rawDep{spec: parseSpec(tok), root: root, kind: "depend"})
		}
	}
	if r.cfg.IncludeCheckDepends {
		for _, tok := range d.CheckDepends {
			raws = append(raws, rawDep{spec: parseSpec(tok), root: root, kind: "depend"})
		}
	}
	if r.cfg.IncludeOptDepends {
		for _, tok := range d.OptDepends {
			raws = append(raws, rawDep{spec: parseSpec(optDependName(tok)), root: root, kind: "depend"})
		}
	}
	return raws
}

func (r *Resolver) buildSrcinfoRaws(root string, d parse.SrcinfoData) []rawDep {
	var raws []rawDep
	for _, tok := range d.Depends {
		raws = append(raws, rawDep{spec: parseSpec(tok), root: root, kind: "depend"})
	}
	if r.cfg.IncludeMakeDepends {
		for _, tok := range d.MakeDepends {
			raws = append(raws, rawDep{spec: parseSpec(tok), root: root, kind: "depend"})
		}
	}
	if r.cfg.IncludeCheckDepends {
		for _, tok := range d.CheckDepends {
			raws = append(raws, rawDep{spec: parseSpec(tok), root: root, kind: "depend"})
		}
	}
	if r.cfg.IncludeOptDepends {
		for _, tok := range d.OptDepends {
			raws = append(raws, rawDep{spec: parseSpec(optDependName(tok)), root: root, kind: "depend"})
		}
	}
	return raws
}

// optDependName strips the ": reason" suffix from an optdepends entry
// like "python: for scripting support".
func optDependName(tok string) string {
	if idx := strings.Index(tok, ":"); idx >= 0 {
		return strings.TrimSpace(tok[:idx])
	}
	return tok
}

func parseSpec(tok string) DependencySpec {
	return ParseDependencySpec(tok)
}

func (r *Resolver) shouldFilter(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".so") || strings.Contains(lower, ".so.") || strings.Contains(lower, ".so=") {
		return true
	}
	if r.cfg.SkipDependency != nil && r.cfg.SkipDependency(name) {
		return true
	}
	return false
}

func (r *Resolver) determineStatus(ctx context.Context, name, versionReq string, installed map[string]struct{}, isConflict bool) DependencyStatus {
	current, isInstalled := pacmanquery.InstalledVersion(ctx, name)
	if !isInstalled {
		if pacmanquery.IsInstalledOrProvided(ctx, name, installed) {
			isInstalled = true
		}
	}

	if isConflict {
		if isInstalled {
			return DependencyStatus{Kind: StatusConflict, Reason: "conflicts with installed package " + name}
		}
		return DependencyStatus{Kind: StatusInstalled, Version: ""}
	}

	if !isInstalled {
		if _, foundRepo := pacmanquery.RepoInfo(ctx, name); foundRepo {
			return DependencyStatus{Kind: StatusToInstall}
		}
		return DependencyStatus{Kind: StatusMissing}
	}

	if versionReq == "" || version.Satisfies(current, versionReq) {
		return DependencyStatus{Kind: StatusInstalled, Version: current}
	}
	return DependencyStatus{Kind: StatusToUpgrade, Current: current, Required: bareVersion(versionReq)}
}

// bareVersion strips a leading comparison operator from a version
// requirement string, e.g. ">=1.2.3" becomes "1.2.3".
func bareVersion(req string) string {
	for _, op := range operatorOrder {
		if strings.HasPrefix(req, op) {
			return strings.TrimSpace(strings.TrimPrefix(req, op))
		}
	}
	return req
}
