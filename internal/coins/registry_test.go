package coins_test

import (
	"testing"

	"github.com/rohmanhakim/coin-checker/internal/coins"
)

func TestNormalizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "slug passes through",
			input: "bitcoin",
			want:  "bitcoin",
		},
		{
			name:  "uppercase name",
			input: "Zcash",
			want:  "zcash",
		},
		{
			name:  "symbol",
			input: "ZEC",
			want:  "zcash",
		},
		{
			name:  "lowercase alias",
			input: "xrp",
			want:  "ripple",
		},
		{
			name:  "surrounding whitespace",
			input: "  solana  ",
			want:  "solana",
		},
		{
			name:  "unknown coin passes through lowercased",
			input: "DogeCoin",
			want:  "dogecoin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coins.NormalizeInput(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeInput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	coin, ok := coins.Lookup("ripple")
	if !ok {
		t.Fatal("ripple should be registered")
	}
	if coin.Symbol() != "XRP" {
		t.Errorf("symbol = %q, want XRP", coin.Symbol())
	}
	if coin.MessariSlug() != "xrp" {
		t.Errorf("messari slug = %q, want xrp", coin.MessariSlug())
	}

	if _, ok := coins.Lookup("dogecoin"); ok {
		t.Error("unregistered coin must not resolve")
	}
}

func TestLookup_SpecialMetricsFlag(t *testing.T) {
	zcash, ok := coins.Lookup("zcash")
	if !ok {
		t.Fatal("zcash should be registered")
	}
	if !zcash.HasSpecialMetrics() {
		t.Error("zcash value locked comes from a scraped dashboard")
	}
	if zcash.DefillamaSlug() != "" {
		t.Error("zcash has no DeFiLlama chain listing")
	}

	ethereum, _ := coins.Lookup("ethereum")
	if ethereum.HasSpecialMetrics() {
		t.Error("ethereum uses the TVL API, not a dashboard")
	}
	if ethereum.DefillamaSlug() != "Ethereum" {
		t.Errorf("ethereum DeFiLlama slug = %q, want Ethereum", ethereum.DefillamaSlug())
	}
}

func TestSupported_SortedAndComplete(t *testing.T) {
	slugs := coins.Supported()

	if len(slugs) == 0 {
		t.Fatal("registry must not be empty")
	}
	for i := 1; i < len(slugs); i++ {
		if slugs[i-1] >= slugs[i] {
			t.Errorf("slugs not sorted: %q before %q", slugs[i-1], slugs[i])
		}
	}

	for _, slug := range slugs {
		if _, ok := coins.Lookup(slug); !ok {
			t.Errorf("supported slug %q does not resolve", slug)
		}
	}
}
