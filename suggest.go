package archtoolkit

import (
	"encoding/json"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// OfficialPackage is a single entry of an official-repository package
// index, as returned by an alpm-backed accelerator or assembled by a
// caller from repeated pacman queries. Non-name fields may be empty
// until an enrichment pass fills them in.
type OfficialPackage struct {
	Name         string
	Repository   string
	Architecture string
	Version      string
	Description  string
}

// OfficialIndex is the in-memory snapshot of every known official-
// repository package: an ordered vector plus a name-to-position map kept
// consistent with it, so every entry is addressable by name exactly once.
// The name map is rebuilt rather than serialized: it is derived state,
// and JSON round-tripping an OfficialIndex (via UnmarshalJSON) rebuilds it
// automatically instead of trusting a stale copy from disk.
type OfficialIndex struct {
	Packages []OfficialPackage

	nameToIndex map[string]int
}

// NewOfficialIndex builds an OfficialIndex over pkgs with its name map
// populated.
func NewOfficialIndex(pkgs []OfficialPackage) *OfficialIndex {
	idx := &OfficialIndex{Packages: pkgs}
	idx.RebuildNameIndex()
	return idx
}

// RebuildNameIndex recomputes the name-to-position map from Packages. Call
// this after mutating Packages directly, or after an UnmarshalJSON that
// bypassed it.
func (idx *OfficialIndex) RebuildNameIndex() {
	idx.nameToIndex = make(map[string]int, len(idx.Packages))
	for i, pkg := range idx.Packages {
		idx.nameToIndex[strings.ToLower(pkg.Name)] = i
	}
}

// FindByName looks up a package by case-insensitive name in O(1) via the
// name map, falling back to a linear scan if the map hasn't been built
// (e.g. Packages was populated without going through NewOfficialIndex).
func (idx *OfficialIndex) FindByName(name string) (OfficialPackage, bool) {
	lower := strings.ToLower(name)
	if idx.nameToIndex != nil {
		if i, ok := idx.nameToIndex[lower]; ok {
			return idx.Packages[i], true
		}
	}
	for _, pkg := range idx.Packages {
		if strings.EqualFold(pkg.Name, name) {
			return pkg, true
		}
	}
	return OfficialPackage{}, false
}

// Names returns every package name in Packages, in index order.
func (idx *OfficialIndex) Names() []string {
	names := make([]string, len(idx.Packages))
	for i, pkg := range idx.Packages {
		names[i] = pkg.Name
	}
	return names
}

// MarshalJSON serializes only Packages: the name map is derived state and
// is never written out.
func (idx *OfficialIndex) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Packages []OfficialPackage `json:"packages"`
	}{Packages: idx.Packages})
}

// UnmarshalJSON restores Packages and rebuilds the name map, since the map
// itself is never present in the serialized form.
func (idx *OfficialIndex) UnmarshalJSON(data []byte) error {
	var wire struct {
		Packages []OfficialPackage `json:"packages"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	idx.Packages = wire.Packages
	idx.RebuildNameIndex()
	return nil
}

// SuggestNames performs a client-side fuzzy match of query against the
// package names in universe, returning matches in the order they appear
// in universe (matches are not ranked by closeness). It
// supplements the AUR RPC "suggest" endpoint (which only covers AUR
// packages) with an equivalent that works over any local snapshot of
// official package names, such as one built via internal/alpmindex.
func SuggestNames(query string, universe []string) []string {
	if query == "" || len(universe) == 0 {
		return nil
	}
	return fuzzy.Find(query, universe)
}

// Suggest fuzzy-matches query against idx's package names, returning
// matching entries in index order.
func (idx *OfficialIndex) Suggest(query string) []OfficialPackage {
	names := SuggestNames(query, idx.Names())
	if len(names) == 0 {
		return nil
	}
	out := make([]OfficialPackage, 0, len(names))
	for _, name := range names {
		if pkg, ok := idx.FindByName(name); ok {
			out = append(out, pkg)
		}
	}
	return out
}
