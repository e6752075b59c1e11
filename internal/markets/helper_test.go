package markets_test

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rohmanhakim/coin-checker/internal/cache"
	"github.com/rohmanhakim/coin-checker/internal/fetcher"
	"github.com/rohmanhakim/coin-checker/internal/metadata"
	"github.com/rohmanhakim/coin-checker/pkg/hashutil"
	"github.com/rohmanhakim/coin-checker/pkg/limiter"
)

// scriptStep is one canned transport response.
type scriptStep struct {
	status int
	body   string
	err    error
}

// scriptedDoer plays back canned responses in order and records every
// request. The last step repeats if the script runs out.
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

	return &http.Response{
		StatusCode: step.status,
		Body:       io.NopCloser(strings.NewReader(step.body)),
		Header:     http.Header{},
	}, nil
}

// newCachedFetcherForTest builds a real pipeline (limiter, disk cache,
// resilient fetcher) over a scripted transport. The limiter's ceiling is
// high and its sleeper is disabled, so tests never block.
func newCachedFetcherForTest(t *testing.T, script []scriptStep) (fetcher.CachedFetcher, *scriptedDoer) {
	t.Helper()

	doer := &scriptedDoer{script: script}

	rl := limiter.NewWindowLimiter(1000)
	rl.SetSleeperForTest(func(time.Duration) {})

	resilient := fetcher.NewResilientFetcher(rl, &metadata.NoopSink{}, "coin-checker/test")
	resilient.SetTransportForTest(doer)
	resilient.SetSleeperForTest(func(time.Duration) {})

	store := cache.NewFileStore(t.TempDir(), hashutil.HashAlgoBLAKE3, &metadata.NoopSink{})

	return fetcher.NewCachedFetcher(&resilient, store), doer
}
