package archtoolkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestNamesFindsFuzzyMatches(t *testing.T) {
	universe := []string{"python-pip", "python-numpy", "glibc", "gcc"}
	got := SuggestNames("pynum", universe)
	assert.Contains(t, got, "python-numpy")
}

func TestSuggestNamesEmptyQueryReturnsNil(t *testing.T) {
	assert.Nil(t, SuggestNames("", []string{"glibc"}))
}

func TestSuggestNamesEmptyUniverseReturnsNil(t *testing.T) {
	assert.Nil(t, SuggestNames("glibc", nil))
}

func TestOfficialIndexFindByNameUsesMap(t *testing.T) {
	idx := NewOfficialIndex([]OfficialPackage{
		{Name: "glibc", Repository: "core"},
		{Name: "gcc", Repository: "core"},
	})
	pkg, ok := idx.FindByName("GLIBC")
	require.True(t, ok)
	assert.Equal(t, "glibc", pkg.Name)
}

func TestOfficialIndexFindByNameFallsBackToLinearScanWhenMapUnbuilt(t *testing.T) {
	idx := &OfficialIndex{Packages: []OfficialPackage{
		{Name: "glibc", Repository: "core"},
	}}
	pkg, ok := idx.FindByName("Glibc")
	require.True(t, ok)
	assert.Equal(t, "glibc", pkg.Name)
}

func TestOfficialIndexFindByNameMissingReturnsFalse(t *testing.T) {
	idx := NewOfficialIndex([]OfficialPackage{{Name: "glibc"}})
	_, ok := idx.FindByName("nonexistent")
	assert.False(t, ok)
}

func TestOfficialIndexSuggestReturnsFullPackages(t *testing.T) {
	idx := NewOfficialIndex([]OfficialPackage{
		{Name: "python-numpy", Repository: "extra"},
		{Name: "python-pip", Repository: "extra"},
		{Name: "gcc", Repository: "core"},
	})
	got := idx.Suggest("pynum")
	require.Len(t, got, 1)
	assert.Equal(t, "python-numpy", got[0].Name)
	assert.Equal(t, "extra", got[0].Repository)
}

func TestOfficialIndexUnmarshalJSONRebuildsNameMap(t *testing.T) {
	original := NewOfficialIndex([]OfficialPackage{
		{Name: "glibc", Version: "2.39-1", Repository: "core"},
	})
	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "nameToIndex")

	var restored OfficialIndex
	require.NoError(t, json.Unmarshal(data, &restored))
	pkg, ok := restored.FindByName("GLIBC")
	require.True(t, ok)
	assert.Equal(t, "2.39-1", pkg.Version)
}
