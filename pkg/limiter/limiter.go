package limiter

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rohmanhakim/coin-checker/pkg/timeutil"
)

// RateLimiter
// Specialized component to keep request volume under an upstream ceiling
// Responsibilities:
// - Bookkeep the timestamps of recent requests inside a trailing window
// - Block the caller until one request may be issued immediately
// - Hold an exponential backoff state machine driven by throttling signals
type RateLimiter interface {
	WaitIfNeeded()
	HandleThrottled()
	ResetBackoff()
}

// WindowLimiter enforces a requests-per-window ceiling over a trailing
// window, with uniform jitter on window waits and capped exponential
// backoff on throttling responses.
//
// Access is mutex-guarded, but the wait-then-record sequence is only
// meaningful under one logical caller at a time; overlapping callers
// each consume a window slot for the request they are about to issue.
type WindowLimiter struct {
	mu    sync.Mutex
	rngMu sync.Mutex

	maxRequests    int
	window         time.Duration
	windowRequests []time.Time

	backoffUntil         time.Time
	consecutiveThrottles int
	backoffParam         timeutil.BackoffParam

	jitterMin time.Duration
	jitterMax time.Duration

	now   func() time.Time
	sleep func(time.Duration)
	rng   *rand.Rand
}

const (
	// DefaultWindow is the trailing window over which requests are counted.
	DefaultWindow = 60 * time.Second
	// DefaultMaxRequests stays under the free tiers of the market data APIs.
	DefaultMaxRequests = 18

	defaultThrottleBackoffBase = 30 * time.Second
	defaultThrottleBackoffCap  = 300 * time.Second
	defaultJitterMin           = 500 * time.Millisecond
	defaultJitterMax           = 1500 * time.Millisecond
)

func NewWindowLimiter(maxRequests int) *WindowLimiter {
	if maxRequests < 1 {
		maxRequests = DefaultMaxRequests
	}
	return &WindowLimiter{
		maxRequests:  maxRequests,
		window:       DefaultWindow,
		backoffParam: timeutil.NewBackoffParam(defaultThrottleBackoffBase, 2.0, defaultThrottleBackoffCap),
		jitterMin:    defaultJitterMin,
		jitterMax:    defaultJitterMax,
		now:          time.Now,
		sleep:        time.Sleep,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (l *WindowLimiter) SetWindow(window time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.window = window
}

func (l *WindowLimiter) SetBackoffParam(param timeutil.BackoffParam) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.backoffParam = param
}

func (l *WindowLimiter) SetJitterRange(min time.Duration, max time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jitterMin = min
	l.jitterMax = max
}

func (l *WindowLimiter) SetRandomSeed(randomSeed int64) {
	l.rngMu.Lock()
	defer l.rngMu.Unlock()

	l.rng = rand.New(rand.NewSource(randomSeed))
}

// SetRNG allows injecting a custom random number generator for testing
func (l *WindowLimiter) SetRNG(rng interface{}) {
	if randImpl, ok := rng.(*rand.Rand); ok {
		l.rngMu.Lock()
		l.rng = randImpl
		l.rngMu.Unlock()
	}
}

// SetClockForTest replaces the wall clock.
func (l *WindowLimiter) SetClockForTest(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.now = now
}

// SetSleeperForTest replaces the blocking sleep call.
func (l *WindowLimiter) SetSleeperForTest(sleep func(time.Duration)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sleep = sleep
}

// WaitIfNeeded blocks until the caller is permitted to issue one request
// immediately. The current timestamp is recorded into the window in every
// branch, including the backoff branch: the caller is about to attempt a
// request either way, so that attempt consumes a window slot.
func (l *WindowLimiter) WaitIfNeeded() {
	l.mu.Lock()

	now := l.now()

	// Backoff period takes precedence over window accounting.
	// Nothing is cleared here; the forthcoming request decides
	// whether the backoff resets or escalates.
	if !l.backoffUntil.IsZero() && now.Before(l.backoffUntil) {
		wait := l.backoffUntil.Sub(now)
		l.windowRequests = append(l.windowRequests, now)
		sleep := l.sleep
		l.mu.Unlock()

		sleep(wait)
		return
	}

	// Prune entries that fell out of the trailing window.
	cutoff := now.Add(-l.window)
	kept := l.windowRequests[:0]
	for _, t := range l.windowRequests {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.windowRequests = kept

	var wait time.Duration
	if len(l.windowRequests) >= l.maxRequests {
		oldest := l.windowRequests[0]
		wait = l.window - now.Sub(oldest) + l.computeJitter()
	}

	l.windowRequests = append(l.windowRequests, now)
	sleep := l.sleep
	l.mu.Unlock()

	if wait > 0 {
		sleep(wait)
	}
}

// HandleThrottled escalates the backoff state machine. Call it exactly
// once per observed throttling response: the backoff deadline becomes
// now + min(cap, base * 2^(consecutiveThrottles-1)).
func (l *WindowLimiter) HandleThrottled() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.consecutiveThrottles++
	// Pure exponential step with no jitter: the deadline must be exactly
	// base * 2^(count-1), capped.
	delay := timeutil.ExponentialBackoffDelay(l.consecutiveThrottles, 0, nil, l.backoffParam)
	l.backoffUntil = l.now().Add(delay)
}

// ResetBackoff clears the backoff state after any non-throttled response.
// Idempotent when already reset.
func (l *WindowLimiter) ResetBackoff() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.consecutiveThrottles > 0 {
		l.consecutiveThrottles = 0
		l.backoffUntil = time.Time{}
	}
}

// Compute jitter uniformly distributed in [jitterMin, jitterMax]
func (l *WindowLimiter) computeJitter() time.Duration {
	if l.jitterMax <= l.jitterMin {
		return l.jitterMin
	}

	l.rngMu.Lock()
	defer l.rngMu.Unlock()

	if l.rng == nil {
		l.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	span := int64(l.jitterMax - l.jitterMin)
	return l.jitterMin + time.Duration(l.rng.Int63n(span))
}

func (l *WindowLimiter) MaxRequests() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxRequests
}

func (l *WindowLimiter) Window() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.window
}

func (l *WindowLimiter) ConsecutiveThrottles() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.consecutiveThrottles
}

func (l *WindowLimiter) BackoffUntil() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.backoffUntil
}

func (l *WindowLimiter) WindowRequests() []time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	// return a copy to avoid exposing internal slice for mutation
	copied := make([]time.Time, len(l.windowRequests))
	copy(copied, l.windowRequests)
	return copied
}
