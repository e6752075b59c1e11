package markets

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rohmanhakim/coin-checker/internal/coins"
	"github.com/rohmanhakim/coin-checker/internal/fetcher"
	"github.com/rohmanhakim/coin-checker/pkg/failure"
	"github.com/rohmanhakim/coin-checker/pkg/jsonutil"
	"github.com/shopspring/decimal"
)

const (
	// Issuance drifts slowly; a day-old figure is still usable.
	messariMaxAge = 24 * time.Hour
	// Grace period before the single post-failure retry.
	messariGracePeriod = 5 * time.Second
)

type MessariClient struct {
	cached fetcher.CachedFetcher
	base   string
	apiKey string
	sleep  func(time.Duration)
}

func NewMessariClient(cached fetcher.CachedFetcher, base string, apiKey string) MessariClient {
	return MessariClient{
		cached: cached,
		base:   base,
		apiKey: apiKey,
		sleep:  time.Sleep,
	}
}

// SetSleeperForTest replaces the grace-period sleep call.
func (c *MessariClient) SetSleeperForTest(sleep func(time.Duration)) {
	c.sleep = sleep
}

// Issuance derives annual issuance from the Messari metrics document.
// Preference order mirrors the upstream schema: y2y realized inflation
// first, the declared annual inflation rate second. When Messari is
// unavailable or throttled, one more single-attempt fetch is made after
// a short grace period before giving up.
func (c *MessariClient) Issuance(ctx context.Context, slug string) (Issuance, failure.ClassifiedError) {
	messariSlug := slug
	if coin, ok := coins.Lookup(coins.NormalizeInput(slug)); ok {
		messariSlug = coin.MessariSlug()
	}

	endpoint, err := url.Parse(fmt.Sprintf("%s/v1/assets/%s/metrics", c.base, messariSlug))
	if err != nil {
		return Issuance{}, &MarketError{
			Message: fmt.Sprintf("building Messari URL: %v", err),
			Cause:   ErrCauseUpstreamFailure,
		}
	}

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{
			"X-Messari-API-Key": c.apiKey,
		}
	}

	logicalKey := "messari_issuance_" + messariSlug
	fetchParam := fetcher.NewFetchParam(*endpoint, nil, headers)

	payload, fetchErr := c.cached.FetchJSON(ctx, logicalKey, fetchParam, messariMaxAge)
	if fetchErr != nil {
		c.sleep(messariGracePeriod)
		payload, fetchErr = c.cached.FetchJSON(ctx, logicalKey, fetchParam.WithMaxRetries(1), messariMaxAge)
		if fetchErr != nil {
			return Issuance{}, fetchErr
		}
	}

	obj, err := jsonutil.Decode(payload)
	if err != nil {
		return Issuance{}, &MarketError{
			Message: fmt.Sprintf("decoding Messari response: %v", err),
			Cause:   ErrCauseParseFailure,
		}
	}

	data, ok := jsonutil.Get(obj, "data")
	if !ok {
		return Issuance{}, &MarketError{
			Message: "Messari response carries no data object",
			Cause:   ErrCauseMissingData,
		}
	}

	circulating := SafeDecimal(valueAt(data, "supply.circulating"), decimal.Zero)
	if circulating.IsPositive() {
		// A present-but-zero metric counts as absent; fall through to
		// the next preference.
		if y2yRealized, found := jsonutil.GetNumber(data, "supply.y2y_realized_inflation_rate"); found {
			annual := decimal.NewFromFloat(y2yRealized).Mul(circulating)
			if annual.IsPositive() {
				return Issuance{
					annual: annual,
					source: fmt.Sprintf("Messari API (%s) - y2y realized inflation", endpoint),
				}, nil
			}
		}

		if annualRate, found := jsonutil.GetNumber(data, "supply.annual_inflation_percent"); found {
			annual := decimal.NewFromFloat(annualRate).Div(decimal.NewFromInt(100)).Mul(circulating)
			if annual.IsPositive() {
				return Issuance{
					annual: annual,
					source: fmt.Sprintf("Messari API (%s) - annual inflation rate", endpoint),
				}, nil
			}
		}
	}

	return Issuance{}, &MarketError{
		Message: fmt.Sprintf("no issuance metrics for %s", messariSlug),
		Cause:   ErrCauseMissingData,
	}
}

func valueAt(obj any, path string) any {
	v, _ := jsonutil.Get(obj, path)
	return v
}
