package archtoolkit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archtoolkit/arch-toolkit-go/internal/aurhttp"
	"github.com/archtoolkit/arch-toolkit-go/internal/parse"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(WithConfig(Defaults()))
	require.NoError(t, err)
	return c
}

func TestSearchEmptyQueryStrictReturnsError(t *testing.T) {
	c := newTestClient(t)
	_, err := c.Search(context.Background(), "")
	assert.True(t, Is(err, KindEmptyInput))
}

func TestSearchEmptyQueryLenientReturnsEmptyResult(t *testing.T) {
	cfg := Defaults()
	cfg.Validation = ValidationLenient
	c, err := New(WithConfig(cfg))
	require.NoError(t, err)

	results, err := c.Search(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, results)
}

func TestInfoInvalidNameStrictReturnsError(t *testing.T) {
	c := newTestClient(t)
	_, err := c.Info(context.Background(), []string{"Invalid Name"})
	assert.True(t, Is(err, KindInvalidPackageName))
}

func TestClearCacheOnFreshClientSucceeds(t *testing.T) {
	c := newTestClient(t)
	assert.NoError(t, c.ClearCache())
}

func TestInvalidatePackageOnFreshClientSucceeds(t *testing.T) {
	c := newTestClient(t)
	assert.NoError(t, c.InvalidatePackage("glibc"))
}

func TestResolveDependenciesNoRootsIsEmpty(t *testing.T) {
	c := newTestClient(t)
	res, err := c.ResolveDependencies(context.Background(), nil, ResolveOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Dependencies)
	assert.Empty(t, res.Conflicts)
	assert.Empty(t, res.Missing)
}

func TestResolveReverseDependenciesNoRootsIsEmpty(t *testing.T) {
	c := newTestClient(t)
	report := c.ResolveReverseDependencies(context.Background(), nil)
	assert.Empty(t, report.Dependencies)
}

func TestWrapTransportErrClassifiesNotFound(t *testing.T) {
	err := wrapTransportErr(&aurhttp.StatusError{StatusCode: 404}, "yay")
	assert.True(t, Is(err, KindPackageNotFound))
	assert.Equal(t, "yay", err.Package)
}

func TestWrapTransportErrClassifiesNotFoundWithoutPackageAsHTTPStatus(t *testing.T) {
	err := wrapTransportErr(&aurhttp.StatusError{StatusCode: 404}, "")
	assert.True(t, Is(err, KindHTTPStatus))
}

func TestWrapTransportErrClassifiesOtherStatusAsHTTPStatus(t *testing.T) {
	err := wrapTransportErr(&aurhttp.StatusError{StatusCode: 503}, "yay")
	assert.True(t, Is(err, KindHTTPStatus))
	assert.Equal(t, 503, err.StatusCode)
}

func TestWrapTransportErrClassifiesDeadlineExceededAsTimeout(t *testing.T) {
	err := wrapTransportErr(context.DeadlineExceeded, "")
	assert.True(t, Is(err, KindTimeout))
}

func TestWrapTransportErrClassifiesMissingResultsAsParseError(t *testing.T) {
	err := wrapTransportErr(parse.ErrMissingResults, "")
	assert.True(t, Is(err, KindParseError))
}

func TestWrapTransportErrFallsBackToTransport(t *testing.T) {
	err := wrapTransportErr(assert.AnError, "")
	assert.True(t, Is(err, KindTransport))
}

func TestSortDependenciesByPriorityOrdersConflictsFirst(t *testing.T) {
	items := []Dependency{
		{Name: "b", Status: DependencyStatus{Kind: StatusInstalled}},
		{Name: "a", Status: DependencyStatus{Kind: StatusConflict}},
	}
	SortDependenciesByPriority(items)
	assert.Equal(t, "a", items[0].Name)
}
