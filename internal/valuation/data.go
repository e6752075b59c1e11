package valuation

import "github.com/shopspring/decimal"

// Representation

type Verdict string

const (
	VerdictUndervalued        Verdict = "UNDERVALUED - STRONG BUY"
	VerdictFairlyValued       Verdict = "FAIRLY VALUED - HOLD"
	VerdictSlightlyOvervalued Verdict = "SLIGHTLY OVERVALUED - CAUTIOUS HOLD"
	VerdictOvervalued         Verdict = "OVERVALUED - AVOID/SELL"
)

type Input struct {
	priceUsd       decimal.Decimal
	circulating    decimal.Decimal
	maxSupply      decimal.Decimal
	totalSupply    decimal.Decimal
	annualIssuance decimal.Decimal
	valueLockedUsd decimal.Decimal
}

func NewInput(
	priceUsd decimal.Decimal,
	circulating decimal.Decimal,
	maxSupply decimal.Decimal,
	totalSupply decimal.Decimal,
	annualIssuance decimal.Decimal,
	valueLockedUsd decimal.Decimal,
) Input {
	return Input{
		priceUsd:       priceUsd,
		circulating:    circulating,
		maxSupply:      maxSupply,
		totalSupply:    totalSupply,
		annualIssuance: annualIssuance,
		valueLockedUsd: valueLockedUsd,
	}
}

type Assessment struct {
	inflationPct   decimal.Decimal
	fdmc           decimal.Decimal
	ratio          decimal.Decimal
	effectiveCap   decimal.Decimal
	valueLockedUsd decimal.Decimal
	verdict        Verdict
	reasoning      string
}

// InflationPct is the annual issuance over circulating supply, as a
// percentage rounded to two places.
func (a Assessment) InflationPct() decimal.Decimal {
	return a.inflationPct
}

// FDMC is the fully diluted market cap: price times the effective
// supply cap.
func (a Assessment) FDMC() decimal.Decimal {
	return a.fdmc
}

// Ratio is FDMC over value locked.
func (a Assessment) Ratio() decimal.Decimal {
	return a.ratio
}

// EffectiveCap is the supply figure the FDMC was computed against:
// max supply when declared, falling back to total then circulating.
func (a Assessment) EffectiveCap() decimal.Decimal {
	return a.effectiveCap
}

func (a Assessment) ValueLockedUsd() decimal.Decimal {
	return a.valueLockedUsd
}

func (a Assessment) Verdict() Verdict {
	return a.verdict
}

func (a Assessment) Reasoning() string {
	return a.reasoning
}
