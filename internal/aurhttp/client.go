// Package aurhttp implements the AUR-facing side of the network client:
// request construction, per-host rate limiting, retrying, single-flight
// request collapsing, and a lightweight per-host circuit breaker fed by
// request outcomes (independent of the health probe).
package aurhttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/dnscache"
	circuit "github.com/rubyist/circuitbreaker"
	"golang.org/x/sync/singleflight"

	"github.com/archtoolkit/arch-toolkit-go/internal/ratelimit"
)

const (
	AurHost       = "aur.archlinux.org"
	ArchLinuxHost = "archlinux.org"
	CgitHost      = "git.archlinux.org"

)

// These are vars rather than consts so tests can redirect them at a local
// httptest server.
var (
	rpcBaseURL      = "https://aur.archlinux.org/rpc/"
	commentsBaseURL = "https://aur.archlinux.org/packages/"
	pkgbuildBaseURL = "https://aur.archlinux.org/cgit/aur.git/plain/PKGBUILD"
	srcinfoBaseURL  = "https://aur.archlinux.org/cgit/aur.git/plain/.SRCINFO"
)

// RetryPolicy configures per-operation retry behavior for transient
// failures (transport errors, timeouts, HTTP 429/5xx).
type RetryPolicy struct {
	Enabled         bool
	MaxRetries      int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	JitterMax       time.Duration
	RetrySearch     bool
	RetryInfo       bool
	RetryComments   bool
	RetryPkgbuild   bool
}

// DefaultRetryPolicy mirrors the documented defaults: three retries with
// every operation opted in.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Enabled:       true,
		MaxRetries:    3,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		JitterMax:     250 * time.Millisecond,
		RetrySearch:   true,
		RetryInfo:     true,
		RetryComments: true,
		RetryPkgbuild: true,
	}
}

// Logger is the minimal structured-logging seam this package depends on.
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Client issues HTTP requests against the AUR and cgit hosts, applying
// rate limiting, retrying, single-flight collapsing of identical
// in-flight requests, and a per-host circuit breaker that trips on
// repeated request failures.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	timeout     time.Duration
	limiter     *ratelimit.Limiter
	retry       RetryPolicy
	sf          singleflight.Group
	breakers    map[string]*circuit.Breaker
	resolver    *dnscache.Resolver
	healthStatus *gocache.Cache
	log         Logger
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(p RetryPolicy) Option { return func(c *Client) { c.retry = p } }

// WithLogger installs a structured logger; nil disables logging.
func WithLogger(l Logger) Option { return func(c *Client) { c.log = l } }

// New constructs a Client with a DNS-caching HTTP transport, a per-host
// rate limiter, and per-host circuit breakers created on first use. The
// breakers see only request outcomes; HealthCheck does not feed them.
func New(opts ...Option) *Client {
	c := &Client{
		userAgent: "arch-toolkit-go",
		timeout:   30 * time.Second,
		limiter:   ratelimit.New(),
		retry:     DefaultRetryPolicy(),
		breakers:  map[string]*circuit.Breaker{},
		resolver:  &dnscache.Resolver{},
		healthStatus: gocache.New(10*time.Second, 20*time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return dialer.DialContext(ctx, network, addr)
			}
			ips, err := c.resolver.LookupHost(ctx, host)
			if err != nil || len(ips) == 0 {
				return dialer.DialContext(ctx, network, addr)
			}
			return dialer.DialContext(ctx, network, net.JoinHostPort(ips[0], port))
		},
		MaxIdleConnsPerHost: 4,
	}
	c.httpClient = &http.Client{Transport: transport, Timeout: c.timeout}
	return c
}

func (c *Client) breakerFor(host string) *circuit.Breaker {
	if b, ok := c.breakers[host]; ok {
		return b
	}
	b := circuit.NewThresholdBreaker(5)
	c.breakers[host] = b
	return b
}

func (c *Client) debugf(format string, args ...any) {
	if c.log != nil {
		c.log.Debugf(format, args...)
	}
}

func (c *Client) errorf(format string, args ...any) {
	if c.log != nil {
		c.log.Errorf(format, args...)
	}
}

// StatusError carries the response status code of a non-2xx response so
// callers outside this package can classify it (retryable 429/5xx, a 404
// meaning "not found", or any other 4xx).
type StatusError struct {
	StatusCode int
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("aur: unexpected status %d", e.StatusCode)
}

// AsStatusError reports whether err (or something it wraps) is a
// *StatusError, returning it if so.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func isTransientHTTPStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
}

// get performs a single-flight-collapsed, rate-limited, retried GET
// against url, whose host determines the rate-limit bucket and circuit
// breaker. retryEnabled gates whether transient failures are retried at
// all for this call site, independent of the client-wide policy toggle.
func (c *Client) get(ctx context.Context, host, sfKey, url string, retryEnabled bool) ([]byte, error) {
	v, err, _ := c.sf.Do(sfKey, func() (any, error) {
		return c.getWithRetry(ctx, host, url, retryEnabled)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Client) getWithRetry(ctx context.Context, host, url string, retryEnabled bool) ([]byte, error) {
	canonicalHost := ratelimit.CanonicalHost(host)
	breaker := c.breakerFor(canonicalHost)

	attempts := 1
	if c.retry.Enabled && retryEnabled {
		attempts = c.retry.MaxRetries + 1
	}

	var lastErr error
	delay := c.retry.InitialDelay

	for attempt := 0; attempt < attempts; attempt++ {
		if !breaker.Ready() {
			return nil, fmt.Errorf("aur: circuit open for %s", canonicalHost)
		}

		release, err := c.limiter.Acquire(ctx, canonicalHost)
		if err != nil {
			return nil, err
		}

		body, retryAfter, reqErr := c.doOnce(ctx, url)
		release()

		if reqErr == nil {
			breaker.Success()
			c.limiter.OnSuccess(canonicalHost)
			return body, nil
		}

		if ctx.Err() != nil {
			// Caller cancellation, not a service failure: don't trip the
			// breaker or advance backoff, and don't retry.
			return nil, ctx.Err()
		}

		breaker.Fail()
		c.limiter.OnFailure(canonicalHost, retryAfter)
		lastErr = reqErr

		if !isRetryable(reqErr) || attempt == attempts-1 {
			break
		}

		wait := delay
		if retryAfter > 0 {
			wait = retryAfter
		}
		if wait > c.retry.MaxDelay {
			wait = c.retry.MaxDelay
		}
		c.debugf("retrying %s after %v (attempt %d)", url, wait, attempt+1)
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
		delay *= 2
		if delay > c.retry.MaxDelay {
			delay = c.retry.MaxDelay
		}
	}
	c.errorf("request to %s failed: %v", url, lastErr)
	return nil, lastErr
}

func isRetryable(err error) bool {
	if he, ok := err.(*StatusError); ok {
		return isTransientHTTPStatus(he.StatusCode)
	}
	if err == context.DeadlineExceeded {
		return true
	}
	return true
}

func (c *Client) doOnce(ctx context.Context, url string) (body []byte, retryAfter time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), &StatusError{StatusCode: resp.StatusCode}
	}
	return data, 0, nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
