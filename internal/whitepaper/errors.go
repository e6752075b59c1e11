package whitepaper

import (
	"fmt"

	"github.com/rohmanhakim/coin-checker/pkg/failure"
)

type AnalysisErrorCause string

const (
	ErrCauseFetchFailure      AnalysisErrorCause = "whitepaper fetch failed"
	ErrCauseConversionFailure AnalysisErrorCause = "markdown conversion failed"
	ErrCauseEmptyDocument     AnalysisErrorCause = "document has no content"
)

type AnalysisError struct {
	Message string
	Cause   AnalysisErrorCause
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("whitepaper analysis error: %s", e.Cause)
}

func (e *AnalysisError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *AnalysisError) Is(target error) bool {
	other, ok := target.(*AnalysisError)
	if !ok {
		return false
	}
	return e.Cause == other.Cause
}
