package markets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/rohmanhakim/coin-checker/internal/fetcher"
	"github.com/rohmanhakim/coin-checker/pkg/failure"
	"github.com/rohmanhakim/coin-checker/pkg/jsonutil"
	"github.com/shopspring/decimal"
)

const defillamaMaxAge = 1 * time.Hour

type DefillamaClient struct {
	cached fetcher.CachedFetcher
	base   string
}

func NewDefillamaClient(cached fetcher.CachedFetcher, base string) DefillamaClient {
	return DefillamaClient{
		cached: cached,
		base:   base,
	}
}

// ChainTVL returns the most recent total value locked for a chain slug
// from the historical series.
func (c *DefillamaClient) ChainTVL(ctx context.Context, chainSlug string) (ValueLocked, failure.ClassifiedError) {
	endpoint, err := url.Parse(fmt.Sprintf("%s/v2/historicalChainTvl/%s", c.base, chainSlug))
	if err != nil {
		return ValueLocked{}, &MarketError{
			Message: fmt.Sprintf("building DeFiLlama URL: %v", err),
			Cause:   ErrCauseUpstreamFailure,
		}
	}

	logicalKey := "defillama_chain_" + chainSlug
	fetchParam := fetcher.NewFetchParam(*endpoint, nil, nil)

	payload, fetchErr := c.cached.FetchJSON(ctx, logicalKey, fetchParam, defillamaMaxAge)
	if fetchErr != nil {
		return ValueLocked{}, fetchErr
	}

	var series []map[string]any
	if err := json.Unmarshal(payload, &series); err != nil {
		return ValueLocked{}, &MarketError{
			Message: fmt.Sprintf("decoding DeFiLlama chain series: %v", err),
			Cause:   ErrCauseParseFailure,
		}
	}

	if len(series) == 0 {
		return ValueLocked{}, &MarketError{
			Message: fmt.Sprintf("empty TVL series for chain %s", chainSlug),
			Cause:   ErrCauseMissingData,
		}
	}

	tvl := SafeDecimal(series[len(series)-1]["tvl"], decimal.Zero)
	if !tvl.IsPositive() {
		return ValueLocked{}, &MarketError{
			Message: fmt.Sprintf("non-positive TVL for chain %s", chainSlug),
			Cause:   ErrCauseMissingData,
		}
	}

	return ValueLocked{
		amountUsd: tvl,
		source:    fmt.Sprintf("DeFiLlama API (%s) - %s chain TVL", endpoint, chainSlug),
	}, nil
}

// ProtocolTVL returns the latest total value locked for a protocol slug.
// The endpoint serves either a time series or a plain number; both
// shapes are accepted.
func (c *DefillamaClient) ProtocolTVL(ctx context.Context, protocolSlug string) (ValueLocked, failure.ClassifiedError) {
	endpoint, err := url.Parse(fmt.Sprintf("%s/protocol/%s", c.base, protocolSlug))
	if err != nil {
		return ValueLocked{}, &MarketError{
			Message: fmt.Sprintf("building DeFiLlama URL: %v", err),
			Cause:   ErrCauseUpstreamFailure,
		}
	}

	logicalKey := "defillama_protocol_" + protocolSlug
	fetchParam := fetcher.NewFetchParam(*endpoint, nil, nil)

	payload, fetchErr := c.cached.FetchJSON(ctx, logicalKey, fetchParam, defillamaMaxAge)
	if fetchErr != nil {
		return ValueLocked{}, fetchErr
	}

	obj, err := jsonutil.Decode(payload)
	if err != nil {
		return ValueLocked{}, &MarketError{
			Message: fmt.Sprintf("decoding DeFiLlama protocol response: %v", err),
			Cause:   ErrCauseParseFailure,
		}
	}

	tvlValue, _ := jsonutil.Get(obj, "tvl")

	var tvl decimal.Decimal
	switch series := tvlValue.(type) {
	case []any:
		if len(series) == 0 {
			break
		}
		if point, ok := series[len(series)-1].(map[string]any); ok {
			tvl = SafeDecimal(point["totalLiquidityUSD"], decimal.Zero)
		}
	case float64:
		tvl = decimal.NewFromFloat(series)
	}

	if !tvl.IsPositive() {
		return ValueLocked{}, &MarketError{
			Message: fmt.Sprintf("no usable TVL for protocol %s", protocolSlug),
			Cause:   ErrCauseMissingData,
		}
	}

	return ValueLocked{
		amountUsd: tvl,
		source:    fmt.Sprintf("DeFiLlama API (%s) - protocol TVL", endpoint),
	}, nil
}
