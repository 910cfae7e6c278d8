//go:build alpm

// Package alpmindex builds an OfficialPackage index directly from libalpm
// sync databases instead of shelling out to pacman. It is an optional
// accelerator behind the "alpm" build tag: the mandatory query path lives
// in internal/pacmanquery and works everywhere pacman is on PATH, but a
// caller that already links libalpm can opt into this faster bulk
// enumeration for building an OfficialIndex snapshot.
package alpmindex

import (
	"github.com/Jguer/go-alpm/v2"
	pconf "github.com/Morganamilo/go-pacmanconf"

	archtoolkit "github.com/archtoolkit/arch-toolkit-go"
)

// Handle wraps an initialized alpm handle for repeated index builds.
type Handle struct {
	h *alpm.Handle
}

// Open initializes libalpm against the given root, database path, and
// pacman config file, registering every sync database the config lists
// (or only those named in repos, if non-empty).
func Open(rootPath, dbPath, confPath string, repos []string) (*Handle, error) {
	h, err := alpm.Initialize(rootPath, dbPath)
	if err != nil {
		return nil, err
	}

	conf, _, err := pconf.ParseFile(confPath)
	if err != nil {
		return nil, err
	}

	wanted := map[string]bool{}
	for _, r := range repos {
		wanted[r] = true
	}

	for _, repo := range conf.Repos {
		if len(wanted) > 0 && !wanted[repo.Name] {
			continue
		}
		if _, err := h.RegisterSyncDB(repo.Name, 0); err != nil {
			return nil, err
		}
	}
	h.SetIgnorePkgs(conf.IgnorePkg)
	h.SetIgnoreGroups(conf.IgnoreGroup)

	return &Handle{h: h}, nil
}

// Close releases the underlying libalpm handle.
func (h *Handle) Close() error {
	return h.h.Release()
}

// BuildIndex enumerates every package in every registered sync database
// into an OfficialIndex snapshot, with its name map already built, without
// a pacman subprocess per lookup.
func (h *Handle) BuildIndex() (*archtoolkit.OfficialIndex, error) {
	dbs, err := h.h.SyncDBs()
	if err != nil {
		return nil, err
	}

	var pkgs []archtoolkit.OfficialPackage
	for _, db := range dbs.Slice() {
		for _, pkg := range db.PkgCache().Slice() {
			pkgs = append(pkgs, archtoolkit.OfficialPackage{
				Name:         pkg.Name(),
				Version:      pkg.Version(),
				Description:  pkg.Description(),
				Repository:   db.Name(),
				Architecture: pkg.Architecture(),
			})
		}
	}
	return archtoolkit.NewOfficialIndex(pkgs), nil
}

// CompareVersions delegates to libalpm's own version comparator, useful
// for cross-checking against internal/version's pure-Go reimplementation.
func CompareVersions(a, b string) int {
	return alpm.VerCmp(a, b)
}
