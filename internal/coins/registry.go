package coins

import (
	"sort"
	"strings"
)

// Coin carries the per-source identifiers of one supported asset.
// The same asset goes by different slugs on CoinGecko, Messari and
// DeFiLlama; the registry is the single mapping between them.
type Coin struct {
	slug              string
	symbol            string
	coingeckoID       string
	messariSlug       string
	defillamaSlug     string
	hasSpecialMetrics bool
}

func (c Coin) Slug() string {
	return c.slug
}

func (c Coin) Symbol() string {
	return c.symbol
}

func (c Coin) CoingeckoID() string {
	return c.coingeckoID
}

func (c Coin) MessariSlug() string {
	return c.messariSlug
}

// DefillamaSlug returns the DeFiLlama chain slug, or "" when the chain
// has no TVL listing there.
func (c Coin) DefillamaSlug() string {
	return c.defillamaSlug
}

// HasSpecialMetrics reports whether value locked comes from a scraped
// dashboard instead of a TVL API (currently only Zcash's shielded pool).
func (c Coin) HasSpecialMetrics() bool {
	return c.hasSpecialMetrics
}

var registry = map[string]Coin{
	"bitcoin": {
		slug:        "bitcoin",
		symbol:      "BTC",
		coingeckoID: "bitcoin",
		messariSlug: "bitcoin",
	},
	"ethereum": {
		slug:          "ethereum",
		symbol:        "ETH",
		coingeckoID:   "ethereum",
		messariSlug:   "ethereum",
		defillamaSlug: "Ethereum",
	},
	"zcash": {
		slug:              "zcash",
		symbol:            "ZEC",
		coingeckoID:       "zcash",
		messariSlug:       "zcash",
		hasSpecialMetrics: true,
	},
	"ripple": {
		slug:        "ripple",
		symbol:      "XRP",
		coingeckoID: "ripple",
		messariSlug: "xrp",
	},
	"cardano": {
		slug:          "cardano",
		symbol:        "ADA",
		coingeckoID:   "cardano",
		messariSlug:   "cardano",
		defillamaSlug: "Cardano",
	},
	"solana": {
		slug:          "solana",
		symbol:        "SOL",
		coingeckoID:   "solana",
		messariSlug:   "solana",
		defillamaSlug: "Solana",
	},
	"polkadot": {
		slug:          "polkadot",
		symbol:        "DOT",
		coingeckoID:   "polkadot",
		messariSlug:   "polkadot",
		defillamaSlug: "Polkadot",
	},
}

// symbolToSlug is the reverse lookup built from the registry.
var symbolToSlug = func() map[string]string {
	m := make(map[string]string, len(registry))
	for slug, coin := range registry {
		m[coin.symbol] = slug
	}
	return m
}()

var aliases = map[string]string{
	"btc": "bitcoin",
	"eth": "ethereum",
	"zec": "zcash",
	"xrp": "ripple",
	"ada": "cardano",
	"sol": "solana",
	"dot": "polkadot",
}

// NormalizeInput maps whatever the user typed (name, symbol, alias) to
// a registry slug. Unknown input is lowercased and passed through, so
// unsupported coins still reach the upstream APIs as-is.
func NormalizeInput(input string) string {
	lowered := strings.ToLower(strings.TrimSpace(input))

	if _, ok := registry[lowered]; ok {
		return lowered
	}

	if slug, ok := symbolToSlug[strings.ToUpper(lowered)]; ok {
		return slug
	}

	if slug, ok := aliases[lowered]; ok {
		return slug
	}

	return lowered
}

// Lookup returns the registry entry for a slug.
func Lookup(slug string) (Coin, bool) {
	coin, ok := registry[slug]
	return coin, ok
}

// Supported lists every registered slug, for help output.
func Supported() []string {
	slugs := make([]string, 0, len(registry))
	for slug := range registry {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
