package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/coin-checker/internal/fetcher"
	"github.com/rohmanhakim/coin-checker/internal/markets"
	"github.com/rohmanhakim/coin-checker/pkg/failure"
	"github.com/shopspring/decimal"
)

/*
Responsibilities
- Pull the Zcash shielded pool size off public dashboards
- Tolerate markup churn: several patterns per dashboard, text and raw HTML
- Fall back from ZKP.baby to ZecHub before giving up

The scraper never caches; dashboard values move and a stale shielded
pool would silently skew the valuation.
*/

const scrapeMaxRetries = 2

// zkpBabyPatterns match the total first, individual pools second.
var zkpBabyPatterns = []struct {
	pattern *regexp.Regexp
	pool    string
}{
	{regexp.MustCompile(`(?is)Total\s*Shielded\s*(?:Value)?\s*[·:\-]?\s*([\d,.\s]+)\s*ZEC`), "total"},
	{regexp.MustCompile(`(?is)([\d,.\s]+)\s*ZEC\s*(?:Total\s*)?Shielded`), "total"},
	{regexp.MustCompile(`(?is)Sapling\s*Pool\s*[·:\-]?\s*([\d,.\s]+)\s*ZEC`), "sapling"},
	{regexp.MustCompile(`(?is)Orchard\s*Pool\s*[·:\-]?\s*([\d,.\s]+)\s*ZEC`), "orchard"},
}

var zecHubPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(Sapling|Orchard)\s*Pool\s*[—–\-:]+\s*([\d,.\s]+)\s*ZEC`),
	regexp.MustCompile(`(?is)(Sapling|Orchard)[^Z]*?([\d,.\s]+)\s*ZEC`),
}

type ShieldedPoolScraper struct {
	fetcher    fetcher.Fetcher
	zkpBabyURL string
	zecHubURL  string
}

func NewShieldedPoolScraper(
	poolFetcher fetcher.Fetcher,
	zkpBabyURL string,
	zecHubURL string,
) ShieldedPoolScraper {
	return ShieldedPoolScraper{
		fetcher:    poolFetcher,
		zkpBabyURL: zkpBabyURL,
		zecHubURL:  zecHubURL,
	}
}

// ShieldedValueLockedUsd converts the scraped shielded ZEC amount to
// USD at the given price. ZKP.baby is tried first, ZecHub second.
func (s *ShieldedPoolScraper) ShieldedValueLockedUsd(
	ctx context.Context,
	priceUsd decimal.Decimal,
) (markets.ValueLocked, failure.ClassifiedError) {
	if html, ok := s.fetchDashboard(ctx, s.zkpBabyURL); ok {
		if zec, detail, found := totalShieldedFromZkpBaby(html); found {
			return markets.NewValueLocked(
				zec.Mul(priceUsd),
				fmt.Sprintf("ZKP.baby (%s) - %s", s.zkpBabyURL, detail),
			), nil
		}
	}

	if html, ok := s.fetchDashboard(ctx, s.zecHubURL); ok {
		if zec, detail, found := totalShieldedFromZecHub(html); found {
			return markets.NewValueLocked(
				zec.Mul(priceUsd),
				fmt.Sprintf("ZecHub (%s) - %s", s.zecHubURL, detail),
			), nil
		}
	}

	return markets.ValueLocked{}, &ScrapeError{
		Message: "no shielded pool value on any dashboard",
		Cause:   ErrCauseNoMatch,
	}
}

// fetchDashboard returns the page as searchable text: the rendered text
// extracted by goquery concatenated with the raw markup, so patterns
// survive both flat text dashboards and value-in-attribute layouts.
func (s *ShieldedPoolScraper) fetchDashboard(ctx context.Context, dashboardURL string) (string, bool) {
	parsed, err := url.Parse(dashboardURL)
	if err != nil {
		return "", false
	}

	fetchParam := fetcher.NewFetchParam(*parsed, nil, nil).WithMaxRetries(scrapeMaxRetries)

	result, fetchErr := s.fetcher.Fetch(ctx, fetchParam)
	if fetchErr != nil || result.Code() != http.StatusOK {
		return "", false
	}

	raw := string(result.Body())

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.Body()))
	if err != nil {
		return raw, true
	}

	return doc.Text() + "\n" + raw, true
}

func totalShieldedFromZkpBaby(html string) (decimal.Decimal, string, bool) {
	values := map[string]float64{}
	for _, entry := range zkpBabyPatterns {
		if _, seen := values[entry.pool]; seen {
			continue
		}
		match := entry.pattern.FindStringSubmatch(html)
		if match == nil {
			continue
		}
		if value, ok := ParseNumberFromText(match[1]); ok && value > 0 {
			values[entry.pool] = value
		}
	}

	if total, ok := values["total"]; ok {
		return decimal.NewFromFloat(total), "Total Shielded", true
	}

	sapling, hasSapling := values["sapling"]
	orchard, hasOrchard := values["orchard"]
	if hasSapling || hasOrchard {
		return decimal.NewFromFloat(sapling + orchard), "Sapling+Orchard", true
	}

	return decimal.Zero, "", false
}

func totalShieldedFromZecHub(html string) (decimal.Decimal, string, bool) {
	pools := map[string]float64{}
	for _, pattern := range zecHubPatterns {
		for _, match := range pattern.FindAllStringSubmatch(html, -1) {
			name := strings.ToLower(match[1])
			if _, seen := pools[name]; seen {
				continue
			}
			if value, ok := ParseNumberFromText(match[2]); ok && value > 0 {
				pools[name] = value
			}
		}
	}

	if len(pools) == 0 {
		return decimal.Zero, "", false
	}

	var total float64
	names := make([]string, 0, len(pools))
	for name, value := range pools {
		total += value
		names = append(names, name)
	}
	sort.Strings(names)

	return decimal.NewFromFloat(total), strings.Join(names, "+"), true
}
