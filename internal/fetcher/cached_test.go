package fetcher_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rohmanhakim/coin-checker/internal/fetcher"
	"github.com/rohmanhakim/coin-checker/pkg/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// storeMock is a testify mock for the cache Store
type storeMock struct {
	mock.Mock
}

func (m *storeMock) Get(logicalKey string, params map[string]string, maxAge time.Duration) (json.RawMessage, bool) {
	args := m.Called(logicalKey, params, maxAge)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(json.RawMessage), args.Bool(1)
}

func (m *storeMock) Set(logicalKey string, params map[string]string, payload json.RawMessage) {
	m.Called(logicalKey, params, payload)
}

// fetcherMock is a testify mock for the Fetcher
type fetcherMock struct {
	mock.Mock
}

func (m *fetcherMock) Fetch(ctx context.Context, fetchParam fetcher.FetchParam) (fetcher.FetchResult, failure.ClassifiedError) {
	args := m.Called(ctx, fetchParam)
	result := args.Get(0).(fetcher.FetchResult)
	if args.Get(1) == nil {
		return result, nil
	}
	return result, args.Get(1).(failure.ClassifiedError)
}

func TestCachedFetcher_HitSkipsNetwork(t *testing.T) {
	store := new(storeMock)
	upstream := new(fetcherMock)

	payload := json.RawMessage(`{"cached":true}`)
	store.On("Get", "coingecko_bitcoin", mock.Anything, time.Hour).Return(payload, true)

	cached := fetcher.NewCachedFetcher(upstream, store)
	param := fetcher.NewFetchParam(mustParseURL(t, "https://api.example.com/coins/bitcoin"), nil, nil)

	got, err := cached.FetchJSON(context.Background(), "coingecko_bitcoin", param, time.Hour)

	require.Nil(t, err)
	assert.JSONEq(t, string(payload), string(got))
	upstream.AssertNotCalled(t, "Fetch")
}

func TestCachedFetcher_MissFetchesAndWritesBack(t *testing.T) {
	store := new(storeMock)
	upstream := new(fetcherMock)

	body := []byte(`{"fresh":true}`)
	store.On("Get", "coingecko_bitcoin", mock.Anything, time.Hour).Return(nil, false)
	store.On("Set", "coingecko_bitcoin", mock.Anything, json.RawMessage(body)).Return()

	result := fetcher.NewFetchResultForTest(
		mustParseURL(t, "https://api.example.com/coins/bitcoin"),
		body,
		200,
		nil,
	)
	upstream.On("Fetch", mock.Anything, mock.Anything).Return(result, nil)

	cached := fetcher.NewCachedFetcher(upstream, store)
	param := fetcher.NewFetchParam(mustParseURL(t, "https://api.example.com/coins/bitcoin"), nil, nil)

	got, err := cached.FetchJSON(context.Background(), "coingecko_bitcoin", param, time.Hour)

	require.Nil(t, err)
	assert.JSONEq(t, string(body), string(got))
	store.AssertCalled(t, "Set", "coingecko_bitcoin", mock.Anything, json.RawMessage(body))
}

func TestCachedFetcher_NonOKIsNotCached(t *testing.T) {
	store := new(storeMock)
	upstream := new(fetcherMock)

	store.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, false)

	result := fetcher.NewFetchResultForTest(
		mustParseURL(t, "https://api.example.com/coins/nope"),
		[]byte(`{"error":"not found"}`),
		404,
		nil,
	)
	upstream.On("Fetch", mock.Anything, mock.Anything).Return(result, nil)

	cached := fetcher.NewCachedFetcher(upstream, store)
	param := fetcher.NewFetchParam(mustParseURL(t, "https://api.example.com/coins/nope"), nil, nil)

	_, err := cached.FetchJSON(context.Background(), "missing_coin", param, time.Hour)

	require.NotNil(t, err)
	var fetchErr *fetcher.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, fetcher.ErrCauseUnexpectedStatus, fetchErr.Cause)
	assert.False(t, fetchErr.IsRetryable())
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedFetcher_FetchErrorPassesThrough(t *testing.T) {
	store := new(storeMock)
	upstream := new(fetcherMock)

	store.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, false)

	upstreamErr := &fetcher.FetchError{
		Message:   "exhausted 3 attempts",
		Retryable: true,
		Cause:     fetcher.ErrCauseExhaustedAttempts,
	}
	upstream.On("Fetch", mock.Anything, mock.Anything).Return(fetcher.FetchResult{}, upstreamErr)

	cached := fetcher.NewCachedFetcher(upstream, store)
	param := fetcher.NewFetchParam(mustParseURL(t, "https://api.example.com/x"), nil, nil)

	_, err := cached.FetchJSON(context.Background(), "key", param, time.Hour)

	assert.Equal(t, failure.ClassifiedError(upstreamErr), err)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}
