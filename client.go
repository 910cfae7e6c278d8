// Package archtoolkit is a client library for the Arch Linux and AUR
// package ecosystem: searching and fetching package metadata, resolving
// forward and reverse dependencies across official repositories, the
// AUR, and locally installed packages, and comparing pacman version
// strings.
package archtoolkit

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/archtoolkit/arch-toolkit-go/internal/aurhttp"
	"github.com/archtoolkit/arch-toolkit-go/internal/cache"
	"github.com/archtoolkit/arch-toolkit-go/internal/deps"
	"github.com/archtoolkit/arch-toolkit-go/internal/parse"
)

// Client is the top-level entry point for this library. Construct one
// with New; a zero Client is not usable.
type Client struct {
	cfg        Config
	http       *aurhttp.Client
	cacheStore *cache.TwoTier
	cacheCfg   cache.Config
	invalidate *cache.Invalidator
	log        Logger
}

// ClientOption configures a Client built by New.
type ClientOption func(*clientBuild)

type clientBuild struct {
	cfg Config
	log Logger
}

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) ClientOption { return func(b *clientBuild) { b.cfg = cfg } }

// WithClientLogger installs a structured logger; nil (the default)
// silences all diagnostic output.
func WithClientLogger(l Logger) ClientOption { return func(b *clientBuild) { b.log = l } }

// New builds a Client. Configuration defaults come from Defaults()
// overlaid with any recognized ARCH_TOOLKIT_* environment variables,
// further overridden by an explicit WithConfig option.
func New(opts ...ClientOption) (*Client, error) {
	b := &clientBuild{cfg: Defaults().WithEnv()}
	for _, opt := range opts {
		opt(b)
	}

	httpClient := aurhttp.New(
		aurhttp.WithUserAgent(b.cfg.UserAgent),
		aurhttp.WithTimeout(b.cfg.Timeout),
		aurhttp.WithRetryPolicy(aurhttp.RetryPolicy{
			Enabled:       b.cfg.RetryEnabled,
			MaxRetries:    b.cfg.MaxRetries,
			InitialDelay:  b.cfg.RetryInitialDelay,
			MaxDelay:      b.cfg.RetryMaxDelay,
			JitterMax:     aurhttp.DefaultRetryPolicy().JitterMax,
			RetrySearch:   true,
			RetryInfo:     true,
			RetryComments: true,
			RetryPkgbuild: true,
		}),
	)

	cacheCfg := cache.DefaultConfig()
	cacheCfg.MemorySize = b.cfg.CacheMemorySize
	cacheCfg.DiskEnabled = b.cfg.CacheDiskEnabled
	cacheCfg.DiskDir = b.cfg.CacheDiskDir

	store, err := cache.NewTwoTier(cacheCfg)
	if err != nil {
		return nil, newCacheError(err)
	}

	return &Client{
		cfg:        b.cfg,
		http:       httpClient,
		cacheStore: store,
		cacheCfg:   cacheCfg,
		invalidate: cache.NewInvalidator(store),
		log:        b.log,
	}, nil
}

// SearchResult is a single AUR search hit.
type SearchResult = parse.AurPackage

// Search looks up AUR packages by name substring, consulting the cache
// before making a request. An empty query returns an empty result under
// ValidationLenient and an error under ValidationStrict.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	skip, err := validateQuery(c.cfg.Validation, query)
	if err != nil {
		return nil, err.(*Error).WithOp("search")
	}
	if skip {
		return nil, nil
	}

	key := cache.KeyForSearch(query)
	if c.cacheCfg.Search.Enabled {
		if raw, ok := c.cacheStore.Get(key); ok {
			resp, perr := parse.ParseAurRPCResponse([]byte(raw))
			if perr == nil {
				return resp.Results, nil
			}
		}
	}

	resp, err := c.http.Search(ctx, query)
	if err != nil {
		return nil, wrapTransportErr(err, "").WithOp("search")
	}
	if resp.Type == "error" {
		return nil, newAurServiceError(resp.Error).WithOp("search")
	}

	if c.cacheCfg.Search.Enabled {
		if body, merr := marshalRPC(resp); merr == nil {
			_ = c.cacheStore.Set(key, body, c.cacheCfg.Search.TTL)
		}
	}
	return resp.Results, nil
}

// Info fetches full package metadata for a batch of package names.
func (c *Client) Info(ctx context.Context, names []string) ([]SearchResult, error) {
	skip, err := validateNames(c.cfg.Validation, names)
	if err != nil {
		return nil, err.(*Error).WithOp("info")
	}
	if skip {
		return nil, nil
	}

	key := cache.KeyForInfo(names)
	if c.cacheCfg.Info.Enabled {
		if raw, ok := c.cacheStore.Get(key); ok {
			resp, perr := parse.ParseAurRPCResponse([]byte(raw))
			if perr == nil {
				return resp.Results, nil
			}
		}
	}

	resp, err := c.http.Info(ctx, names)
	if err != nil {
		pkg := ""
		if len(names) == 1 {
			pkg = names[0]
		}
		return nil, wrapTransportErr(err, pkg).WithOp("info")
	}
	if resp.Type == "error" {
		return nil, newAurServiceError(resp.Error).WithOp("info")
	}

	if c.cacheCfg.Info.Enabled {
		if body, merr := marshalRPC(resp); merr == nil {
			_ = c.cacheStore.Set(key, body, c.cacheCfg.Info.TTL)
		}
	}
	return resp.Results, nil
}

// Comment is a single AUR package-page comment.
type Comment = parse.Comment

// Comments fetches and parses the comment thread for a package.
func (c *Client) Comments(ctx context.Context, pkg string) ([]Comment, error) {
	skip, err := validatePackageName(c.cfg.Validation, pkg)
	if err != nil {
		return nil, err.(*Error).WithOp("comments")
	}
	if skip {
		return nil, nil
	}

	key := cache.KeyForComments(pkg)
	if c.cacheCfg.Comments.Enabled {
		if raw, ok := c.cacheStore.Get(key); ok {
			return parse.ParseComments(raw)
		}
	}

	html, err := c.http.CommentsHTML(ctx, pkg)
	if err != nil {
		return nil, wrapTransportErr(err, pkg).WithOp("comments")
	}

	if c.cacheCfg.Comments.Enabled {
		_ = c.cacheStore.Set(key, html, c.cacheCfg.Comments.TTL)
	}
	return parse.ParseComments(html)
}

// Pkgbuild fetches the raw PKGBUILD text for pkg.
func (c *Client) Pkgbuild(ctx context.Context, pkg string) (string, error) {
	skip, err := validatePackageName(c.cfg.Validation, pkg)
	if err != nil {
		return "", err.(*Error).WithOp("pkgbuild")
	}
	if skip {
		return "", nil
	}

	key := cache.KeyForPkgbuild(pkg)
	if c.cacheCfg.Pkgbuild.Enabled {
		if raw, ok := c.cacheStore.Get(key); ok {
			return raw, nil
		}
	}

	text, err := c.http.PkgbuildText(ctx, pkg)
	if err != nil {
		return "", wrapTransportErr(err, pkg).WithOp("pkgbuild")
	}

	if c.cacheCfg.Pkgbuild.Enabled {
		_ = c.cacheStore.Set(key, text, c.cacheCfg.Pkgbuild.TTL)
	}
	return text, nil
}

// Srcinfo fetches the raw .SRCINFO text for pkg.
func (c *Client) Srcinfo(ctx context.Context, pkg string) (string, error) {
	skip, err := validatePackageName(c.cfg.Validation, pkg)
	if err != nil {
		return "", err.(*Error).WithOp("srcinfo")
	}
	if skip {
		return "", nil
	}
	text, err := c.http.SrcinfoText(ctx, pkg)
	if err != nil {
		return "", wrapTransportErr(err, pkg).WithOp("srcinfo")
	}
	return text, nil
}

// HealthStatus mirrors aurhttp.HealthStatus for callers who don't need to
// import the internal package.
type HealthStatus = aurhttp.HealthStatus

// HealthCheck probes the AUR RPC endpoint and classifies its condition.
// It never returns an error.
func (c *Client) HealthCheck(ctx context.Context) HealthStatus {
	return c.http.HealthCheck(ctx, c.cfg.HealthCheckTimeout)
}

// InvalidatePackage evicts every cache entry that could hold data about
// pkg (info, comments, pkgbuild), leaving search results untouched.
func (c *Client) InvalidatePackage(pkg string) error {
	if err := c.invalidate.InvalidatePackage(pkg); err != nil {
		return newCacheError(err)
	}
	return nil
}

// ClearCache empties every cache tier.
func (c *Client) ClearCache() error {
	if err := c.invalidate.ClearAll(); err != nil {
		return newCacheError(err)
	}
	return nil
}

// Dependency is a resolved dependency record from ResolveDependencies or
// ResolveReverseDependencies.
type Dependency = deps.Dependency

// DependencyStatus is the resolved installation status of a dependency.
type DependencyStatus = deps.DependencyStatus

// StatusKind enumerates the possible DependencyStatus states.
type StatusKind = deps.StatusKind

const (
	StatusInstalled  = deps.StatusInstalled
	StatusToInstall  = deps.StatusToInstall
	StatusToUpgrade  = deps.StatusToUpgrade
	StatusConflict   = deps.StatusConflict
	StatusMissing    = deps.StatusMissing
)

// DependencyResolution is the outcome of a forward dependency resolution.
type DependencyResolution = deps.DependencyResolution

// ReverseDependencyReport is the outcome of a reverse dependency
// analysis.
type ReverseDependencyReport = deps.ReverseDependencyReport

// PackageRef identifies a package to resolve dependencies for or from.
type PackageRef = deps.PackageRef

// PackageSource identifies where a resolution root package comes from.
type PackageSource = deps.PackageSource

// PackageSourceKind enumerates the possible origins of a PackageSource.
type PackageSourceKind = deps.PackageSourceKind

const (
	PkgSourceOfficial = deps.PkgSourceOfficial
	PkgSourceAur      = deps.PkgSourceAur
	PkgSourceLocal    = deps.PkgSourceLocal
)

// ResolveOptions configures a forward dependency resolution run.
type ResolveOptions struct {
	IncludeOptDepends   bool
	IncludeMakeDepends  bool
	IncludeCheckDepends bool
	MaxDepth            int
	CheckAur            bool
	SkipDependency      func(name string) bool
}

// ResolveDependencies classifies every transitive runtime dependency of
// roots as installed, to-install, to-upgrade, conflicting, or missing.
// AUR roots use a PKGBUILD already held in this Client's cache; without
// one, and only when opts.CheckAur is set, their .SRCINFO is fetched live
// (that fetch is not cached). A PKGBUILD is never fetched here.
func (c *Client) ResolveDependencies(ctx context.Context, roots []PackageRef, opts ResolveOptions) (DependencyResolution, error) {
	resolver := deps.NewResolver(deps.ResolverConfig{
		IncludeOptDepends:   opts.IncludeOptDepends,
		IncludeMakeDepends:  opts.IncludeMakeDepends,
		IncludeCheckDepends: opts.IncludeCheckDepends,
		MaxDepth:            opts.MaxDepth,
		CheckAur:            opts.CheckAur,
		SkipDependency:      opts.SkipDependency,
		PkgbuildCache: func(name string) (string, bool) {
			text, ok := c.cacheStore.Get(cache.KeyForPkgbuild(name))
			return text, ok
		},
		FetchSrcinfo: func(ctx context.Context, name string) (string, error) {
			return c.Srcinfo(ctx, name)
		},
	})
	res, err := resolver.Resolve(ctx, roots)
	if err != nil {
		return DependencyResolution{}, newResolverError(err).WithOp("resolve")
	}
	return res, nil
}

// ResolveReverseDependencies finds every installed package that
// transitively depends on any of roots.
func (c *Client) ResolveReverseDependencies(ctx context.Context, roots []PackageRef) ReverseDependencyReport {
	analyzer := deps.NewReverseAnalyzer()
	return analyzer.Analyze(ctx, roots)
}

// wrapTransportErr classifies a failure from internal/aurhttp into the
// public error taxonomy. pkg names the single package the request was
// for, used to raise KindPackageNotFound on a 404; pass "" when the
// request has no single associated package (e.g. a search or a
// multi-name info batch).
func wrapTransportErr(err error, pkg string) *Error {
	if ae, ok := err.(*Error); ok {
		return ae
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newTimeoutError()
	}
	if errors.Is(err, parse.ErrMissingResults) {
		return newParseError(err)
	}
	if se, ok := aurhttp.AsStatusError(err); ok {
		if se.StatusCode == http.StatusNotFound && pkg != "" {
			return newPackageNotFoundError(pkg)
		}
		return newHTTPStatusError(se.StatusCode)
	}
	return newTransportError(err)
}

func marshalRPC(resp parse.AurRPCResponse) (string, error) {
	return parse.MarshalAurRPCResponse(resp)
}

// SortDependenciesByPriority sorts deps in place by descending urgency:
// conflicts first, then missing, then to-install, to-upgrade, installed.
func SortDependenciesByPriority(items []Dependency) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Status.Priority() < items[j].Status.Priority()
	})
}
