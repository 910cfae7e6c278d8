// Package ratelimit implements the per-host request pacing described for
// the network client: a size-one semaphore serializing outbound requests
// to a host, a minimum inter-request gap, and an exponential backoff
// multiplier that grows on failure and resets on success.
package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/cenk/backoff"
)

const (
	defaultMinGap    = 200 * time.Millisecond
	defaultJitterMax = 500 * time.Millisecond
	maxBackoff       = 60 * time.Second
)

// hostState tracks the pacing state for a single host.
type hostState struct {
	mu           sync.Mutex
	sem          chan struct{}
	lastRequest  time.Time
	backoff      *backoff.ExponentialBackOff
	currentDelay time.Duration
}

func newHostState(minGap time.Duration) *hostState {
	b := backoff.NewExponentialBackOff()
	// The first failure doubles the min-gap delay; Reset applies the new
	// InitialInterval, and MaxElapsedTime 0 keeps NextBackOff from stopping.
	b.InitialInterval = 2 * minGap
	b.MaxInterval = maxBackoff
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return &hostState{
		sem:          make(chan struct{}, 1),
		backoff:      b,
		currentDelay: minGap,
	}
}

// Limiter serializes and paces outbound requests per host. It is safe for
// concurrent use by multiple goroutines and is owned by a single Client
// instance; it is never a package-level singleton.
type Limiter struct {
	mu        sync.Mutex
	hosts     map[string]*hostState
	minGap    time.Duration
	jitterMax time.Duration
	rand      *rand.Rand
	randMu    sync.Mutex
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithMinGap overrides the default 200ms minimum inter-request gap.
func WithMinGap(d time.Duration) Option {
	return func(l *Limiter) { l.minGap = d }
}

// WithJitterMax overrides the default 500ms maximum jitter.
func WithJitterMax(d time.Duration) Option {
	return func(l *Limiter) { l.jitterMax = d }
}

// New creates a Limiter with the given options.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		hosts:     map[string]*hostState{},
		minGap:    defaultMinGap,
		jitterMax: defaultJitterMax,
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Limiter) stateFor(host string) *hostState {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.hosts[host]
	if !ok {
		st = newHostState(l.minGap)
		l.hosts[host] = st
	}
	return st
}

func (l *Limiter) jitter() time.Duration {
	if l.jitterMax <= 0 {
		return 0
	}
	l.randMu.Lock()
	defer l.randMu.Unlock()
	return time.Duration(l.rand.Int63n(int64(l.jitterMax)))
}

// Release must be called exactly once to give up the host's semaphore
// slot acquired by Acquire.
type Release func()

// Acquire blocks until it is this caller's turn to issue a request to
// host: it waits for the host's single in-flight slot, then sleeps out
// whatever delay the minimum gap and current backoff multiplier require,
// with jitter added. It returns a Release the caller must invoke exactly
// once when the request has completed.
func (l *Limiter) Acquire(ctx context.Context, host string) (Release, error) {
	st := l.stateFor(host)

	select {
	case st.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	st.mu.Lock()
	var wait time.Duration
	if !st.lastRequest.IsZero() {
		elapsed := time.Since(st.lastRequest)
		need := st.currentDelay
		if l.minGap > need {
			need = l.minGap
		}
		if elapsed < need {
			wait = need - elapsed
		}
	}
	st.mu.Unlock()

	if wait > 0 {
		wait += l.jitter()
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			<-st.sem
			return nil, ctx.Err()
		}
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		st.mu.Lock()
		st.lastRequest = time.Now()
		st.mu.Unlock()
		<-st.sem
	}, nil
}

// OnFailure grows host's backoff multiplier, doubling the current delay
// (capped at 60s). If retryAfter is non-zero it is used verbatim instead,
// still capped at 60s, mirroring a server-supplied Retry-After override.
func (l *Limiter) OnFailure(host string, retryAfter time.Duration) {
	st := l.stateFor(host)
	st.mu.Lock()
	defer st.mu.Unlock()
	if retryAfter > 0 {
		if retryAfter > maxBackoff {
			retryAfter = maxBackoff
		}
		st.currentDelay = retryAfter
		st.backoff.Reset()
		return
	}
	next := st.backoff.NextBackOff()
	if next < 0 || next > maxBackoff {
		next = maxBackoff
	}
	st.currentDelay = next
}

// OnSuccess resets host's backoff multiplier to the base minimum gap.
func (l *Limiter) OnSuccess(host string) {
	st := l.stateFor(host)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.currentDelay = l.minGap
	st.backoff.Reset()
}

// CanonicalHost maps a request host to the tracked rate-limit bucket:
// the AUR cgit host inherits archlinux.org's bucket, everything else
// (including aur.archlinux.org itself) is tracked by its own name.
func CanonicalHost(host string) string {
	if host == "git.archlinux.org" {
		return "archlinux.org"
	}
	return host
}
