package markets

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MarketData is the CoinGecko view of one asset: spot price plus the
// supply figures the valuation needs.
type MarketData struct {
	name        string
	symbol      string
	priceUsd    decimal.Decimal
	circulating decimal.Decimal
	maxSupply   decimal.Decimal
	totalSupply decimal.Decimal
	sourceURL   string
}

func (m MarketData) Name() string {
	return m.name
}

func (m MarketData) Symbol() string {
	return m.symbol
}

func (m MarketData) PriceUsd() decimal.Decimal {
	return m.priceUsd
}

func (m MarketData) Circulating() decimal.Decimal {
	return m.circulating
}

func (m MarketData) MaxSupply() decimal.Decimal {
	return m.maxSupply
}

func (m MarketData) TotalSupply() decimal.Decimal {
	return m.totalSupply
}

func (m MarketData) SourceURL() string {
	return m.sourceURL
}

// NewMarketDataForTest constructs a MarketData without going through a
// client, for test packages that cannot set unexported fields.
func NewMarketDataForTest(
	name string,
	symbol string,
	priceUsd decimal.Decimal,
	circulating decimal.Decimal,
	maxSupply decimal.Decimal,
	totalSupply decimal.Decimal,
) MarketData {
	return MarketData{
		name:        name,
		symbol:      symbol,
		priceUsd:    priceUsd,
		circulating: circulating,
		maxSupply:   maxSupply,
		totalSupply: totalSupply,
	}
}

// Issuance is the Messari-derived annual issuance figure with its
// provenance, so reports can attribute the number.
type Issuance struct {
	annual decimal.Decimal
	source string
}

func (i Issuance) Annual() decimal.Decimal {
	return i.annual
}

func (i Issuance) Source() string {
	return i.source
}

// ValueLocked pairs a USD amount with the source that produced it.
type ValueLocked struct {
	amountUsd decimal.Decimal
	source    string
}

func (v ValueLocked) AmountUsd() decimal.Decimal {
	return v.amountUsd
}

func (v ValueLocked) Source() string {
	return v.source
}

func NewValueLocked(amountUsd decimal.Decimal, source string) ValueLocked {
	return ValueLocked{
		amountUsd: amountUsd,
		source:    source,
	}
}

// SafeDecimal converts loosely typed API values to a Decimal, falling
// back to the default on anything unparseable. Strings may carry comma
// separators.
func SafeDecimal(value any, fallback decimal.Decimal) decimal.Decimal {
	switch v := value.(type) {
	case nil:
		return fallback
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case string:
		cleaned := strings.ReplaceAll(v, ",", "")
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return fallback
		}
		return d
	case decimal.Decimal:
		return v
	default:
		return fallback
	}
}
