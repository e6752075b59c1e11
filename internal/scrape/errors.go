package scrape

import (
	"fmt"

	"github.com/rohmanhakim/coin-checker/pkg/failure"
)

type ScrapeErrorCause string

const (
	ErrCauseDashboardUnavailable ScrapeErrorCause = "dashboard unavailable"
	ErrCauseNoMatch              ScrapeErrorCause = "no recognizable pool values"
)

type ScrapeError struct {
	Message string
	Cause   ScrapeErrorCause
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape error: %s", e.Cause)
}

func (e *ScrapeError) Severity() failure.Severity {
	// a failed scrape always has a manual-entry fallback
	return failure.SeverityRecoverable
}
