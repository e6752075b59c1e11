package markets

import (
	"fmt"

	"github.com/rohmanhakim/coin-checker/pkg/failure"
)

type MarketErrorCause string

const (
	ErrCauseUpstreamFailure MarketErrorCause = "upstream failure"
	ErrCauseParseFailure    MarketErrorCause = "parse failure"
	ErrCauseMissingData     MarketErrorCause = "missing data"
)

type MarketError struct {
	Message   string
	Retryable bool
	Cause     MarketErrorCause
}

func (e *MarketError) Error() string {
	return fmt.Sprintf("market data error: %s", e.Cause)
}

func (e *MarketError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable
func (e *MarketError) IsRetryable() bool {
	return e.Retryable
}
