package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rohmanhakim/coin-checker/internal/fetcher"
	"github.com/rohmanhakim/coin-checker/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(t *testing.T, script []scriptStep) (fetcher.ResilientFetcher, *rateLimiterMock, *scriptedDoer, *[]time.Duration) {
	t.Helper()

	limiterMock := newRateLimiterMockForTest(t)
	doer := &scriptedDoer{script: script}
	var slept []time.Duration

	f := fetcher.NewResilientFetcher(limiterMock, &metadata.NoopSink{}, "coin-checker/test")
	f.SetTransportForTest(doer)
	f.SetSleeperForTest(func(d time.Duration) {
		slept = append(slept, d)
	})
	return f, limiterMock, doer, &slept
}

func TestResilientFetcher_SuccessFirstAttempt(t *testing.T) {
	f, limiterMock, doer, slept := newTestFetcher(t, []scriptStep{
		{status: 200, body: `{"ok":true}`},
	})

	param := fetcher.NewFetchParam(mustParseURL(t, "https://api.example.com/coins/bitcoin"), nil, nil)
	result, err := f.Fetch(context.Background(), param)

	require.Nil(t, err)
	assert.Equal(t, 200, result.Code())
	assert.Equal(t, []byte(`{"ok":true}`), result.Body())
	assert.Len(t, doer.requests, 1)
	assert.Empty(t, *slept, "a first-attempt success must not sleep")

	limiterMock.AssertNumberOfCalls(t, "WaitIfNeeded", 1)
	limiterMock.AssertNumberOfCalls(t, "ResetBackoff", 1)
	limiterMock.AssertNotCalled(t, "HandleThrottled")
}

func TestResilientFetcher_QueryParamsAndHeaders(t *testing.T) {
	f, _, doer, _ := newTestFetcher(t, []scriptStep{
		{status: 200, body: `{}`},
	})

	param := fetcher.NewFetchParam(
		mustParseURL(t, "https://api.example.com/coins/bitcoin"),
		map[string]string{"tickers": "false", "localization": "false"},
		map[string]string{"X-Api-Key": "secret"},
	)
	_, err := f.Fetch(context.Background(), param)
	require.Nil(t, err)

	require.Len(t, doer.requests, 1)
	sent := doer.requests[0]
	assert.Equal(t, "localization=false&tickers=false", sent.URL.RawQuery)
	assert.Equal(t, "coin-checker/test", sent.Header.Get("User-Agent"))
	assert.Equal(t, "secret", sent.Header.Get("X-Api-Key"))
}

func TestResilientFetcher_TransportFailuresExhaustBudget(t *testing.T) {
	f, limiterMock, doer, slept := newTestFetcher(t, []scriptStep{
		{err: errors.New("connection refused")},
	})

	param := fetcher.NewFetchParam(mustParseURL(t, "https://api.example.com/x"), nil, nil)
	result, err := f.Fetch(context.Background(), param)

	require.NotNil(t, err)
	var fetchErr *fetcher.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, fetcher.ErrCauseExhaustedAttempts, fetchErr.Cause)
	assert.True(t, fetchErr.IsRetryable())

	assert.Equal(t, 0, result.Code(), "exhaustion returns a zero result")
	assert.Len(t, doer.requests, 3, "default budget is three attempts")

	// Every attempt is preceded by a limiter check; retries add 2^i sleeps.
	limiterMock.AssertNumberOfCalls(t, "WaitIfNeeded", 3)
	limiterMock.AssertNotCalled(t, "ResetBackoff")
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *slept)
}

func TestResilientFetcher_ThrottleEscalatesThenRecovers(t *testing.T) {
	f, limiterMock, doer, _ := newTestFetcher(t, []scriptStep{
		{status: 429},
		{status: 200, body: `{}`},
	})

	param := fetcher.NewFetchParam(mustParseURL(t, "https://api.example.com/x"), nil, nil)
	result, err := f.Fetch(context.Background(), param)

	require.Nil(t, err)
	assert.Equal(t, 200, result.Code())
	assert.Len(t, doer.requests, 2)

	// One escalation for the 429, and the backoff is served synchronously:
	// the throttled attempt waits twice (pre-attempt + post-throttle).
	limiterMock.AssertNumberOfCalls(t, "HandleThrottled", 1)
	limiterMock.AssertNumberOfCalls(t, "WaitIfNeeded", 3)
	limiterMock.AssertNumberOfCalls(t, "ResetBackoff", 1)
}

func TestResilientFetcher_ServerErrorRetriesWithoutLimiterChanges(t *testing.T) {
	f, limiterMock, doer, _ := newTestFetcher(t, []scriptStep{
		{status: 503},
		{status: 200, body: `{}`},
	})

	param := fetcher.NewFetchParam(mustParseURL(t, "https://api.example.com/x"), nil, nil)
	result, err := f.Fetch(context.Background(), param)

	require.Nil(t, err)
	assert.Equal(t, 200, result.Code())
	assert.Len(t, doer.requests, 2)

	// 5xx neither escalates nor resets; only the final 200 resets.
	limiterMock.AssertNotCalled(t, "HandleThrottled")
	limiterMock.AssertNumberOfCalls(t, "ResetBackoff", 1)
	limiterMock.AssertNumberOfCalls(t, "WaitIfNeeded", 2)
}

func TestResilientFetcher_NotFoundReturnedAsIs(t *testing.T) {
	f, limiterMock, doer, _ := newTestFetcher(t, []scriptStep{
		{status: 404, body: `{"error":"coin not found"}`},
	})

	param := fetcher.NewFetchParam(mustParseURL(t, "https://api.example.com/coins/nope"), nil, nil)
	result, err := f.Fetch(context.Background(), param)

	// A 404 is an answer, not a failure: no retry, backoff cleared.
	require.Nil(t, err)
	assert.Equal(t, 404, result.Code())
	assert.Equal(t, []byte(`{"error":"coin not found"}`), result.Body())
	assert.Len(t, doer.requests, 1)
	limiterMock.AssertNumberOfCalls(t, "ResetBackoff", 1)
}

func TestResilientFetcher_CustomRetryBudget(t *testing.T) {
	f, _, doer, _ := newTestFetcher(t, []scriptStep{
		{err: errors.New("connection reset")},
	})

	param := fetcher.NewFetchParam(mustParseURL(t, "https://api.example.com/x"), nil, nil).
		WithMaxRetries(1)
	_, err := f.Fetch(context.Background(), param)

	require.NotNil(t, err)
	assert.Len(t, doer.requests, 1, "a budget of one means no retries")
}

func TestResilientFetcher_ConfiguredRetryBudgetApplies(t *testing.T) {
	f, _, doer, _ := newTestFetcher(t, []scriptStep{
		{err: errors.New("connection refused")},
	})
	f.SetMaxRetries(1)

	param := fetcher.NewFetchParam(mustParseURL(t, "https://api.example.com/x"), nil, nil)
	_, err := f.Fetch(context.Background(), param)

	require.NotNil(t, err)
	assert.Len(t, doer.requests, 1, "the fetcher-level budget must reach plain calls")
}

func TestResilientFetcher_PerCallBudgetBeatsConfigured(t *testing.T) {
	f, _, doer, _ := newTestFetcher(t, []scriptStep{
		{err: errors.New("connection refused")},
	})
	f.SetMaxRetries(1)

	param := fetcher.NewFetchParam(mustParseURL(t, "https://api.example.com/x"), nil, nil).
		WithMaxRetries(2)
	_, err := f.Fetch(context.Background(), param)

	require.NotNil(t, err)
	assert.Len(t, doer.requests, 2, "an explicit per-call budget wins")
}

func TestResilientFetcher_ConfiguredTimeoutAppliesPerAttempt(t *testing.T) {
	f, _, doer, _ := newTestFetcher(t, []scriptStep{
		{status: 200, body: `{}`},
	})
	f.SetTimeout(5 * time.Second)

	before := time.Now()
	param := fetcher.NewFetchParam(mustParseURL(t, "https://api.example.com/x"), nil, nil)
	_, err := f.Fetch(context.Background(), param)
	require.Nil(t, err)

	require.Len(t, doer.requests, 1)
	deadline, ok := doer.requests[0].Context().Deadline()
	require.True(t, ok, "the request context must carry the configured deadline")
	assert.WithinDuration(t, before.Add(5*time.Second), deadline, time.Second)
}

func TestResilientFetcher_RecordsRateLimitWaits(t *testing.T) {
	limiterMock := newRateLimiterMockForTest(t)
	doer := &scriptedDoer{script: []scriptStep{
		{status: 429},
		{status: 200, body: `{}`},
	}}
	sink := &sinkSpy{}

	f := fetcher.NewResilientFetcher(limiterMock, sink, "coin-checker/test")
	f.SetTransportForTest(doer)
	f.SetSleeperForTest(func(time.Duration) {})

	param := fetcher.NewFetchParam(mustParseURL(t, "https://api.example.com/x"), nil, nil)
	_, err := f.Fetch(context.Background(), param)
	require.Nil(t, err)

	// Two pre-attempt checks plus the synchronous post-throttle wait.
	assert.Len(t, sink.rateLimitWaits, 3)
}

func TestResilientFetcher_ResponseMetadata(t *testing.T) {
	header := http.Header{}
	header.Set("Content-Type", "application/json")

	f, _, _, _ := newTestFetcher(t, []scriptStep{
		{status: 200, body: `{"a":1}`, header: header},
	})

	param := fetcher.NewFetchParam(mustParseURL(t, "https://api.example.com/x"), nil, nil)
	result, err := f.Fetch(context.Background(), param)

	require.Nil(t, err)
	assert.Equal(t, uint64(len(`{"a":1}`)), result.SizeByte())
	assert.Equal(t, "application/json", result.Headers()["Content-Type"])
}
