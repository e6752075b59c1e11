package valuation

import "github.com/shopspring/decimal"

/*
Heuristic
- Inflation pressure: annual issuance relative to circulating supply
- Dilution exposure: fully diluted market cap over value locked

All arithmetic is decimal with two-place banker's rounding, so the same
inputs always produce the same verdict.
*/

// ratioInfinityProxy stands in for an undefined ratio when no value
// locked figure exists. Large enough to land in the worst band.
var ratioInfinityProxy = decimal.NewFromInt(999999)

var (
	inflationStrongMax = decimal.NewFromInt(3)
	inflationFairMax   = decimal.NewFromInt(5)
	ratioStrongMax     = decimal.NewFromInt(3)
	ratioFairMax       = decimal.NewFromInt(5)
	ratioCautiousMax   = decimal.NewFromInt(10)
)

// Assess derives the valuation verdict from market, issuance and value
// locked figures.
func Assess(input Input) Assessment {
	inflationPct := decimal.Zero
	if input.circulating.IsPositive() {
		inflationPct = input.annualIssuance.
			Div(input.circulating).
			Mul(decimal.NewFromInt(100)).
			RoundBank(2)
	}

	effectiveCap := input.maxSupply
	if !effectiveCap.IsPositive() {
		effectiveCap = input.totalSupply
	}
	if !effectiveCap.IsPositive() {
		effectiveCap = input.circulating
	}

	fdmc := input.priceUsd.Mul(effectiveCap).RoundBank(2)

	ratio := ratioInfinityProxy
	if input.valueLockedUsd.IsPositive() {
		ratio = fdmc.Div(input.valueLockedUsd).RoundBank(2)
	}

	verdict, reasoning := classify(inflationPct, ratio)

	return Assessment{
		inflationPct:   inflationPct,
		fdmc:           fdmc,
		ratio:          ratio,
		effectiveCap:   effectiveCap,
		valueLockedUsd: input.valueLockedUsd,
		verdict:        verdict,
		reasoning:      reasoning,
	}
}

func classify(inflationPct decimal.Decimal, ratio decimal.Decimal) (Verdict, string) {
	switch {
	case inflationPct.LessThan(inflationStrongMax) && ratio.LessThan(ratioStrongMax):
		return VerdictUndervalued,
			"Low inflation + low FDMC/Value ratio indicates undervaluation"
	case inflationPct.LessThan(inflationFairMax) && ratio.LessThan(ratioFairMax):
		return VerdictFairlyValued,
			"Moderate metrics suggest fair valuation"
	case ratio.LessThan(ratioCautiousMax):
		return VerdictSlightlyOvervalued,
			"Higher ratio suggests some overvaluation"
	default:
		return VerdictOvervalued,
			"High FDMC/Value ratio indicates significant overvaluation"
	}
}
