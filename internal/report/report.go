package report

import (
	"context"

	"github.com/rohmanhakim/coin-checker/internal/coins"
	"github.com/rohmanhakim/coin-checker/internal/markets"
	"github.com/rohmanhakim/coin-checker/internal/valuation"
	"github.com/rohmanhakim/coin-checker/internal/whitepaper"
	"github.com/rohmanhakim/coin-checker/pkg/failure"
	"github.com/shopspring/decimal"
)

/*
Pipeline
- Resolve the requested coin against the registry
- Market data from CoinGecko (hard requirement)
- Annual issuance from Messari, overridable from the command line
- Value locked from the best available source for the coin
- Valuation verdict from the assembled figures

Value locked resolution order
- Manual override when given
- Scraped dashboard for coins flagged with special metrics
- DeFiLlama chain TVL when the coin has a chain slug
- DeFiLlama protocol TVL for any coin, registered or not
- Otherwise none; the ratio degrades to its infinity proxy
*/

type MarketSource interface {
	MarketData(ctx context.Context, slug string) (markets.MarketData, failure.ClassifiedError)
}

type IssuanceSource interface {
	Issuance(ctx context.Context, slug string) (markets.Issuance, failure.ClassifiedError)
}

type TVLSource interface {
	ChainTVL(ctx context.Context, chainSlug string) (markets.ValueLocked, failure.ClassifiedError)
	ProtocolTVL(ctx context.Context, protocolSlug string) (markets.ValueLocked, failure.ClassifiedError)
}

type ShieldedPoolSource interface {
	ShieldedValueLockedUsd(ctx context.Context, priceUsd decimal.Decimal) (markets.ValueLocked, failure.ClassifiedError)
}

type WhitepaperSource interface {
	Analyze(ctx context.Context, whitepaperURL string) (whitepaper.Analysis, failure.ClassifiedError)
}

// Overrides carries the manual figures from the command line. A nil
// member means "resolve from the network".
type Overrides struct {
	annualIssuance *decimal.Decimal
	valueLockedUsd *decimal.Decimal
	whitepaperURL  string
}

func NewOverrides(
	annualIssuance *decimal.Decimal,
	valueLockedUsd *decimal.Decimal,
	whitepaperURL string,
) Overrides {
	return Overrides{
		annualIssuance: annualIssuance,
		valueLockedUsd: valueLockedUsd,
		whitepaperURL:  whitepaperURL,
	}
}

type Report struct {
	slug             string
	market           markets.MarketData
	annualIssuance   decimal.Decimal
	issuanceSource   string
	valueLocked      markets.ValueLocked
	assessment       valuation.Assessment
	analysis         *whitepaper.Analysis
	degradedIssuance bool
	degradedValue    bool
}

func (r *Report) Slug() string {
	return r.slug
}

func (r *Report) Market() markets.MarketData {
	return r.market
}

func (r *Report) AnnualIssuance() decimal.Decimal {
	return r.annualIssuance
}

func (r *Report) IssuanceSource() string {
	return r.issuanceSource
}

func (r *Report) ValueLocked() markets.ValueLocked {
	return r.valueLocked
}

func (r *Report) Assessment() valuation.Assessment {
	return r.assessment
}

// Analysis returns the whitepaper analysis, or nil when none was
// requested or it failed.
func (r *Report) Analysis() *whitepaper.Analysis {
	return r.analysis
}

// DegradedIssuance reports that the issuance source failed and zero was
// assumed.
func (r *Report) DegradedIssuance() bool {
	return r.degradedIssuance
}

// DegradedValueLocked reports that no value locked source produced a
// figure.
func (r *Report) DegradedValueLocked() bool {
	return r.degradedValue
}

type Runner struct {
	marketSource   MarketSource
	issuanceSource IssuanceSource
	tvl            TVLSource
	shieldedPool   ShieldedPoolSource
	whitepapers    WhitepaperSource
}

func NewRunner(
	marketSource MarketSource,
	issuanceSource IssuanceSource,
	tvl TVLSource,
	shieldedPool ShieldedPoolSource,
	whitepapers WhitepaperSource,
) Runner {
	return Runner{
		marketSource:   marketSource,
		issuanceSource: issuanceSource,
		tvl:            tvl,
		shieldedPool:   shieldedPool,
		whitepapers:    whitepapers,
	}
}

// Run assembles the full report for one coin. Only the market fetch is
// fatal; issuance and value locked degrade with a note in the report.
func (r *Runner) Run(ctx context.Context, input string, overrides Overrides) (Report, failure.ClassifiedError) {
	slug := coins.NormalizeInput(input)
	coin, registered := coins.Lookup(slug)

	market, marketErr := r.marketSource.MarketData(ctx, slug)
	if marketErr != nil {
		return Report{}, marketErr
	}

	annualIssuance := decimal.Zero
	issuanceSource := "None (assumed 0)"
	degradedIssuance := false
	if overrides.annualIssuance != nil {
		annualIssuance = *overrides.annualIssuance
		issuanceSource = "User provided"
	} else {
		issuance, issuanceErr := r.issuanceSource.Issuance(ctx, slug)
		if issuanceErr != nil {
			degradedIssuance = true
		} else {
			annualIssuance = issuance.Annual()
			issuanceSource = issuance.Source()
		}
	}

	valueLocked, degradedValue := r.resolveValueLocked(ctx, slug, coin, registered, market, overrides)

	assessment := valuation.Assess(valuation.NewInput(
		market.PriceUsd(),
		market.Circulating(),
		market.MaxSupply(),
		market.TotalSupply(),
		annualIssuance,
		valueLocked.AmountUsd(),
	))

	var analysis *whitepaper.Analysis
	if overrides.whitepaperURL != "" {
		if result, analysisErr := r.whitepapers.Analyze(ctx, overrides.whitepaperURL); analysisErr == nil {
			analysis = &result
		}
	}

	return Report{
		slug:             slug,
		market:           market,
		annualIssuance:   annualIssuance,
		issuanceSource:   issuanceSource,
		valueLocked:      valueLocked,
		assessment:       assessment,
		analysis:         analysis,
		degradedIssuance: degradedIssuance,
		degradedValue:    degradedValue,
	}, nil
}

func (r *Runner) resolveValueLocked(
	ctx context.Context,
	slug string,
	coin coins.Coin,
	registered bool,
	market markets.MarketData,
	overrides Overrides,
) (markets.ValueLocked, bool) {
	if overrides.valueLockedUsd != nil {
		return markets.NewValueLocked(*overrides.valueLockedUsd, "User provided"), false
	}

	if registered && coin.HasSpecialMetrics() {
		if locked, err := r.shieldedPool.ShieldedValueLockedUsd(ctx, market.PriceUsd()); err == nil {
			return locked, false
		}
	}

	if registered && coin.DefillamaSlug() != "" {
		if locked, err := r.tvl.ChainTVL(ctx, coin.DefillamaSlug()); err == nil {
			return locked, false
		}
	}

	// Protocol TVL is the last networked fallback and applies to every
	// coin, registered or not.
	if locked, err := r.tvl.ProtocolTVL(ctx, slug); err == nil {
		return locked, false
	}

	return markets.NewValueLocked(decimal.Zero, "None"), true
}
