package fetcher_test

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rohmanhakim/coin-checker/internal/metadata"
	"github.com/stretchr/testify/mock"
)

// rateLimiterMock is a testify mock for the RateLimiter
type rateLimiterMock struct {
	mock.Mock
}

// newRateLimiterMockForTest creates a rate limiter mock that tolerates
// any call sequence; tests assert counts afterwards.
func newRateLimiterMockForTest(t *testing.T) *rateLimiterMock {
	t.Helper()
	m := new(rateLimiterMock)
	m.On("WaitIfNeeded").Return()
	m.On("HandleThrottled").Return()
	m.On("ResetBackoff").Return()
	return m
}

func (m *rateLimiterMock) WaitIfNeeded() {
	m.Called()
}

func (m *rateLimiterMock) HandleThrottled() {
	m.Called()
}

func (m *rateLimiterMock) ResetBackoff() {
	m.Called()
}

// scriptStep is one canned transport response.
type scriptStep struct {
	status int
	body   string
	header http.Header
	err    error
}

// scriptedDoer plays back canned responses in order and records every
// request it saw. The last step repeats if the script runs out.
type scriptedDoer struct {
	script   []scriptStep
	requests []*http.Request
}

func (d *scriptedDoer) Do(req *http.Request) (*http.Response, error) {
	d.requests = append(d.requests, req)

	index := len(d.requests) - 1
	if index >= len(d.script) {
		index = len(d.script) - 1
	}
	step := d.script[index]

	if step.err != nil {
		return nil, step.err
	}

	header := step.header
	if header == nil {
		header = http.Header{}
	}

	return &http.Response{
		StatusCode: step.status,
		Body:       io.NopCloser(strings.NewReader(step.body)),
		Header:     header,
	}, nil
}

// sinkSpy records rate limit wait events and ignores the rest.
type sinkSpy struct {
	metadata.NoopSink
	rateLimitWaits []time.Duration
}

func (s *sinkSpy) RecordRateLimitWait(fetchUrl string, wait time.Duration) {
	s.rateLimitWaits = append(s.rateLimitWaits, wait)
}

func mustParseURL(t *testing.T, raw string) url.URL {
	t.Helper()
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parsing %s: %v", raw, err)
	}
	return *parsed
}
