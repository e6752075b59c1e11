package report

import (
	"fmt"
	"io"
	"strings"
)

const rule = "======================================================================"

// Render writes the human-readable report. Layout is fixed-width so
// figures line up when several coins are checked in sequence.
func Render(w io.Writer, r Report) {
	market := r.Market()
	assessment := r.Assessment()

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s (%s) - UNDERVALUATION ANALYSIS\n", strings.ToUpper(market.Name()), market.Symbol())
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Price:              $%s\n", market.PriceUsd().StringFixed(2))
	fmt.Fprintf(w, "Circulating Supply: %s\n", market.Circulating().StringFixed(0))
	fmt.Fprintf(w, "Max Supply:         %s\n", assessment.EffectiveCap().StringFixed(0))
	fmt.Fprintf(w, "FDMC:               $%s\n", assessment.FDMC().StringFixed(2))
	fmt.Fprintf(w, "New Coins/Year:     %s\n", r.AnnualIssuance().StringFixed(0))
	fmt.Fprintf(w, "Inflation Rate:     %s%%\n", assessment.InflationPct().StringFixed(2))
	fmt.Fprintf(w, "Value Locked:       $%s\n", r.ValueLocked().AmountUsd().StringFixed(2))
	fmt.Fprintf(w, "FDMC/Value Ratio:   %sx\n", assessment.Ratio().StringFixed(2))

	fmt.Fprintln(w, "\n--- Data Sources ---")
	fmt.Fprintf(w, "Market Data:  %s\n", market.SourceURL())
	fmt.Fprintf(w, "Issuance:     %s\n", r.IssuanceSource())
	fmt.Fprintf(w, "Value Locked: %s\n", r.ValueLocked().Source())

	if r.DegradedIssuance() {
		fmt.Fprintln(w, "Note: issuance source unavailable, inflation assumed 0")
	}
	if r.DegradedValueLocked() {
		fmt.Fprintln(w, "Note: no value locked source, ratio reported at its maximum")
	}

	if analysis := r.Analysis(); analysis != nil {
		fmt.Fprintln(w, "\n--- Whitepaper ---")
		fmt.Fprintf(w, "Source:           %s\n", analysis.SourceURL())
		fmt.Fprintf(w, "Use Case Score:   %d/100\n", analysis.UseCaseScore())
		fmt.Fprintf(w, "Technology Score: %d/100\n", analysis.TechnologyScore())
		if analysis.TotalSupply() != "" {
			fmt.Fprintf(w, "Total Supply:     %s\n", analysis.TotalSupply())
		}
		if analysis.BlockTime() != "" {
			fmt.Fprintf(w, "Block Time:       %s\n", analysis.BlockTime())
		}
		if analysis.Consensus() != "" {
			fmt.Fprintf(w, "Consensus:        %s\n", analysis.Consensus())
		}
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "\nVERDICT: %s\n", assessment.Verdict())
	fmt.Fprintf(w, "%s\n", assessment.Reasoning())
}
