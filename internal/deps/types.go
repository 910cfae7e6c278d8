// Package deps implements dependency resolution over official-repo, AUR,
// and locally-installed packages: parsing raw dependency specs, forward
// resolution of a package's transitive runtime dependencies, and reverse
// analysis of what would break if a package were removed.
package deps

import "strings"

// operatorOrder is the fixed search order for scanning a raw dependency
// spec string; two-character operators are checked before their
// one-character prefixes so ">=1.0" is not misread as ">" + "=1.0".
var operatorOrder = []string{"<=", ">=", "=", "<", ">"}

// DependencySpec is a parsed "name[op ver]" dependency string, e.g.
// "python>=3.10" or "glibc".
type DependencySpec struct {
	Name       string
	VersionReq string
}

// ParseDependencySpec parses a raw dependency token into a DependencySpec.
// The name is non-empty whenever raw is not blank; VersionReq, if present,
// begins with one of "=", ">=", "<=", ">", "<" and includes the operator.
func ParseDependencySpec(raw string) DependencySpec {
	raw = strings.TrimSpace(raw)
	for _, op := range operatorOrder {
		if idx := strings.Index(raw, op); idx > 0 {
			return DependencySpec{
				Name:       strings.TrimSpace(raw[:idx]),
				VersionReq: strings.TrimSpace(raw[idx:]),
			}
		}
	}
	return DependencySpec{Name: raw}
}

// DependencyStatus is the resolved installation status of a dependency
// relative to the local system.
type DependencyStatus struct {
	Kind     StatusKind
	Version  string // Installed
	Current  string // ToUpgrade
	Required string // ToUpgrade
	Reason   string // Conflict
}

// StatusKind enumerates the five possible DependencyStatus states.
type StatusKind int

const (
	StatusInstalled StatusKind = iota
	StatusToInstall
	StatusToUpgrade
	StatusConflict
	StatusMissing
)

// Priority returns a sort key where lower means more urgent:
// Conflict(0) < Missing(1) < ToInstall(2) < ToUpgrade(3) < Installed(4).
func (s DependencyStatus) Priority() int {
	switch s.Kind {
	case StatusConflict:
		return 0
	case StatusMissing:
		return 1
	case StatusToInstall:
		return 2
	case StatusToUpgrade:
		return 3
	case StatusInstalled:
		return 4
	default:
		return 4
	}
}

func (s DependencyStatus) String() string {
	switch s.Kind {
	case StatusInstalled:
		return "Installed (" + s.Version + ")"
	case StatusToInstall:
		return "To Install"
	case StatusToUpgrade:
		return "To Upgrade (" + s.Current + " -> " + s.Required + ")"
	case StatusConflict:
		return "Conflict: " + s.Reason
	case StatusMissing:
		return "Missing"
	default:
		return "Unknown"
	}
}

// DependencySourceKind enumerates where a resolved dependency comes from.
type DependencySourceKind int

const (
	SourceOfficial DependencySourceKind = iota
	SourceAur
	SourceLocal
)

// DependencySource identifies the origin of a resolved dependency.
type DependencySource struct {
	Kind DependencySourceKind
	Repo string // populated when Kind == SourceOfficial
}

func (s DependencySource) String() string {
	switch s.Kind {
	case SourceOfficial:
		return "Official (" + s.Repo + ")"
	case SourceAur:
		return "AUR"
	case SourceLocal:
		return "Local"
	default:
		return "Unknown"
	}
}

// PackageSourceKind enumerates where a resolution root package comes from.
type PackageSourceKind int

const (
	PkgSourceOfficial PackageSourceKind = iota
	PkgSourceAur
	PkgSourceLocal
)

// PackageSource identifies the origin of a resolution root.
type PackageSource struct {
	Kind PackageSourceKind
	Repo string
	Arch string
}

// PackageRef identifies a package to resolve dependencies for.
type PackageRef struct {
	Name    string
	Version string
	Source  PackageSource
}

// Dependency is a single resolved dependency record.
type Dependency struct {
	Name       string
	VersionReq string
	Status     DependencyStatus
	Source     DependencySource
	RequiredBy []string
	DependsOn  []string
	IsCore     bool
	IsSystem   bool
}

// systemPackages is the curated list of critical system packages whose
// removal or downgrade should be discouraged.
var systemPackages = map[string]bool{
	"glibc":      true,
	"linux":      true,
	"systemd":    true,
	"pacman":     true,
	"bash":       true,
	"coreutils":  true,
	"gcc":        true,
	"binutils":   true,
	"filesystem": true,
	"util-linux": true,
	"shadow":     true,
	"sed":        true,
	"grep":       true,
}

// IsSystemPackage reports whether name is a critical system package.
func IsSystemPackage(name string) bool {
	return systemPackages[name]
}
