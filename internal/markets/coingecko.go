package markets

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rohmanhakim/coin-checker/internal/coins"
	"github.com/rohmanhakim/coin-checker/internal/fetcher"
	"github.com/rohmanhakim/coin-checker/pkg/failure"
	"github.com/rohmanhakim/coin-checker/pkg/jsonutil"
	"github.com/shopspring/decimal"
)

// coinGeckoMaxAge bounds how long a market snapshot may be reused;
// prices move too fast for the 24h issuance horizon.
const coinGeckoMaxAge = 1 * time.Hour

type CoingeckoClient struct {
	cached fetcher.CachedFetcher
	base   string
}

func NewCoingeckoClient(cached fetcher.CachedFetcher, base string) CoingeckoClient {
	return CoingeckoClient{
		cached: cached,
		base:   base,
	}
}

// MarketData fetches the /coins/{id} document for the given registry
// slug and reduces it to the fields the valuation consumes.
func (c *CoingeckoClient) MarketData(ctx context.Context, slug string) (MarketData, failure.ClassifiedError) {
	coinID := slug
	if coin, ok := coins.Lookup(coins.NormalizeInput(slug)); ok {
		coinID = coin.CoingeckoID()
	}

	endpoint, err := url.Parse(fmt.Sprintf("%s/coins/%s", c.base, coinID))
	if err != nil {
		return MarketData{}, &MarketError{
			Message: fmt.Sprintf("building CoinGecko URL: %v", err),
			Cause:   ErrCauseUpstreamFailure,
		}
	}

	params := map[string]string{
		"localization":   "false",
		"tickers":        "false",
		"market_data":    "true",
		"community_data": "false",
		"developer_data": "false",
		"sparkline":      "false",
	}

	logicalKey := "coingecko_" + coinID
	fetchParam := fetcher.NewFetchParam(*endpoint, params, nil)

	payload, fetchErr := c.cached.FetchJSON(ctx, logicalKey, fetchParam, coinGeckoMaxAge)
	if fetchErr != nil {
		return MarketData{}, fetchErr
	}

	obj, err := jsonutil.Decode(payload)
	if err != nil {
		return MarketData{}, &MarketError{
			Message: fmt.Sprintf("decoding CoinGecko response: %v", err),
			Cause:   ErrCauseParseFailure,
		}
	}

	zero := decimal.Zero
	name := jsonutil.GetString(obj, "name")
	if name == "" {
		name = "Unknown"
	}

	price, _ := jsonutil.Get(obj, "market_data.current_price.usd")
	circulating, _ := jsonutil.Get(obj, "market_data.circulating_supply")
	maxSupply, _ := jsonutil.Get(obj, "market_data.max_supply")
	totalSupply, _ := jsonutil.Get(obj, "market_data.total_supply")

	return MarketData{
		name:        name,
		symbol:      strings.ToUpper(jsonutil.GetString(obj, "symbol")),
		priceUsd:    SafeDecimal(price, zero),
		circulating: SafeDecimal(circulating, zero),
		maxSupply:   SafeDecimal(maxSupply, zero),
		totalSupply: SafeDecimal(totalSupply, zero),
		sourceURL:   endpoint.String(),
	}, nil
}
