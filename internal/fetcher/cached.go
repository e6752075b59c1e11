package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rohmanhakim/coin-checker/internal/cache"
	"github.com/rohmanhakim/coin-checker/pkg/failure"
)

// CachedFetcher layers the response cache over a Fetcher for JSON
// endpoints: a fresh cached payload short-circuits the network, and a
// 200 body is written back before being returned. The cache is checked
// before the limiter is ever consulted, so cache hits cost no window slot.
type CachedFetcher struct {
	fetcher Fetcher
	store   cache.Store
}

func NewCachedFetcher(fetcher Fetcher, store cache.Store) CachedFetcher {
	return CachedFetcher{
		fetcher: fetcher,
		store:   store,
	}
}

// FetchJSON returns the decoded-later raw JSON payload for logicalKey,
// serving from the cache while an entry is younger than maxAge.
// Only 200 responses are cached or returned; any other status surfaces
// as a non-retryable FetchError for the caller to interpret.
func (c *CachedFetcher) FetchJSON(
	ctx context.Context,
	logicalKey string,
	fetchParam FetchParam,
	maxAge time.Duration,
) (json.RawMessage, failure.ClassifiedError) {
	if payload, ok := c.store.Get(logicalKey, fetchParam.params, maxAge); ok {
		return payload, nil
	}

	result, err := c.fetcher.Fetch(ctx, fetchParam)
	if err != nil {
		return nil, err
	}

	if result.Code() != http.StatusOK {
		return nil, &FetchError{
			Message:   fmt.Sprintf("unexpected status %d for %s", result.Code(), logicalKey),
			Retryable: false,
			Cause:     ErrCauseUnexpectedStatus,
		}
	}

	c.store.Set(logicalKey, fetchParam.params, result.Body())

	return result.Body(), nil
}
