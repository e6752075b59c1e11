package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rohmanhakim/coin-checker/internal/metadata"
	"github.com/rohmanhakim/coin-checker/pkg/failure"
	"github.com/rohmanhakim/coin-checker/pkg/limiter"
	"github.com/rohmanhakim/coin-checker/pkg/urlutil"
)

/*
Responsibilities

- Consult the rate limiter before every network attempt
- Perform HTTP GET requests with query params, headers and timeouts
- Classify responses and drive the retry loop
- Feed throttling signals back into the limiter's backoff state

Fetch Semantics

- The limiter is checked before every attempt, including the first;
  no network call is ever made without a fresh check
- Attempt i>0 additionally sleeps 2^i seconds, separate from and
  additive to the limiter's own waits
- A throttled (429) attempt escalates the limiter, serves the backoff
  synchronously, and does not produce a result
- 5xx and transport failures are transient: retried until the budget runs out
- Every other status, 200 or not, resets the backoff and is returned
  as-is; the caller decides what a non-200 means

The fetcher never parses content; it only returns bytes and metadata.
*/

type ResilientFetcher struct {
	rateLimiter  limiter.RateLimiter
	metadataSink metadata.MetadataSink
	httpClient   Doer
	userAgent    string
	maxRetries   int
	timeout      time.Duration
	sleep        func(time.Duration)
}

func NewResilientFetcher(
	rateLimiter limiter.RateLimiter,
	metadataSink metadata.MetadataSink,
	userAgent string,
) ResilientFetcher {
	return ResilientFetcher{
		rateLimiter:  rateLimiter,
		metadataSink: metadataSink,
		httpClient:   &http.Client{},
		userAgent:    userAgent,
		maxRetries:   DefaultMaxRetries,
		timeout:      DefaultTimeout,
		sleep:        time.Sleep,
	}
}

// SetMaxRetries sets the attempt budget applied to calls that do not
// carry their own via FetchParam.WithMaxRetries.
func (f *ResilientFetcher) SetMaxRetries(maxRetries int) {
	if maxRetries > 0 {
		f.maxRetries = maxRetries
	}
}

// SetTimeout sets the per-attempt timeout applied to calls that do not
// carry their own via FetchParam.WithTimeout.
func (f *ResilientFetcher) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		f.timeout = timeout
	}
}

// SetTransportForTest replaces the HTTP transport.
func (f *ResilientFetcher) SetTransportForTest(doer Doer) {
	f.httpClient = doer
}

// SetSleeperForTest replaces the inter-attempt sleep call.
func (f *ResilientFetcher) SetSleeperForTest(sleep func(time.Duration)) {
	f.sleep = sleep
}

func (f *ResilientFetcher) Fetch(
	ctx context.Context,
	fetchParam FetchParam,
) (FetchResult, failure.ClassifiedError) {
	callerMethod := "ResilientFetcher.Fetch"
	startTime := time.Now()
	targetURL := fetchParam.fetchUrl.String()

	var lastErr *FetchError

	maxRetries := fetchParam.maxRetries
	if maxRetries < 1 {
		maxRetries = f.maxRetries
	}
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		// Invariant: a fresh limiter check precedes every attempt,
		// regardless of retry state.
		f.waitForSlot(targetURL)

		if attempt > 0 {
			// Plain exponential retry delay, distinct from the
			// limiter's throttle backoff.
			f.sleep(time.Duration(1<<uint(attempt)) * time.Second)
		}

		result, fetchErr := f.performFetch(ctx, fetchParam)
		if fetchErr == nil {
			f.metadataSink.RecordFetch(
				result.url.String(),
				result.Code(),
				time.Since(startTime),
				attempt+1,
			)
			return result, nil
		}

		lastErr = fetchErr

		if fetchErr.Cause == ErrCauseRequestTooMany {
			f.rateLimiter.HandleThrottled()
			// Serve the backoff now, not at the next attempt's check,
			// so the caller actually waits before retrying.
			f.waitForSlot(targetURL)
			continue
		}

		// Transient failure (network, body read, 5xx): log and move on
		// to the next attempt.
		f.recordFetchError(callerMethod, fetchParam, fetchErr)
	}

	exhausted := &FetchError{
		Message:   fmt.Sprintf("exhausted %d attempts. Last error: %v", maxRetries, lastErr),
		Retryable: true,
		Cause:     ErrCauseExhaustedAttempts,
	}
	f.recordFetchError(callerMethod, fetchParam, exhausted)

	return FetchResult{}, exhausted
}

// waitForSlot blocks on the limiter and reports the observed wait to the
// metadata sink.
func (f *ResilientFetcher) waitForSlot(targetURL string) {
	waitStart := time.Now()
	f.rateLimiter.WaitIfNeeded()
	f.metadataSink.RecordRateLimitWait(targetURL, time.Since(waitStart))
}

func (f *ResilientFetcher) performFetch(ctx context.Context, fetchParam FetchParam) (FetchResult, *FetchError) {
	target := urlutil.WithQuery(fetchParam.fetchUrl, fetchParam.params)

	timeout := fetchParam.timeout
	if timeout <= 0 {
		timeout = f.timeout
	}

	attemptCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, target.String(), nil)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseNetworkFailure,
		}
	}

	// The descriptive client identifier goes out on every request;
	// per-call headers may override it.
	req.Header.Set("User-Agent", f.userAgent)
	for key, value := range fetchParam.headers {
		req.Header.Set(key, value)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		// Network/transport errors are retryable
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == 429:
		return FetchResult{}, &FetchError{
			Message:   "rate limited (429)",
			Retryable: true,
			Cause:     ErrCauseRequestTooMany,
		}

	case resp.StatusCode >= 500:
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("server error: %d", resp.StatusCode),
			Retryable: true,
			Cause:     ErrCauseRequest5xx,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to read response body: %v", err),
			Retryable: true,
			Cause:     ErrCauseReadResponseBodyError,
		}
	}

	// Any remaining status, 200 or not, is a response the caller
	// interprets; it clears the throttle backoff either way.
	f.rateLimiter.ResetBackoff()

	responseHeaders := make(map[string]string)
	for key, values := range resp.Header {
		if len(values) > 0 {
			responseHeaders[key] = values[0]
		}
	}

	result := FetchResult{
		url:  target,
		body: body,
		meta: ResponseMeta{
			statusCode:          resp.StatusCode,
			transferredSizeByte: uint64(len(body)),
			responseHeaders:     responseHeaders,
		},
	}

	return result, nil
}

func (f *ResilientFetcher) recordFetchError(callerMethod string, fetchParam FetchParam, fetchErr *FetchError) {
	f.metadataSink.RecordError(
		time.Now(),
		"fetcher",
		callerMethod,
		mapFetchErrorToMetadataCause(fetchErr),
		fetchErr.Message,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, fetchParam.fetchUrl.String()),
		},
	)
}

// mapFetchErrorToMetadataCause maps fetcher-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapFetchErrorToMetadataCause(err *FetchError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNetworkFailure, ErrCauseReadResponseBodyError:
		return metadata.CauseNetworkFailure
	case ErrCauseRequestTooMany:
		return metadata.CauseThrottled
	case ErrCauseRequest5xx:
		return metadata.CauseServerError
	case ErrCauseExhaustedAttempts:
		return metadata.CauseRetryFailure
	default:
		return metadata.CauseUnknown
	}
}
