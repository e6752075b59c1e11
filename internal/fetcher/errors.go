package fetcher

import (
	"fmt"

	"github.com/rohmanhakim/coin-checker/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseNetworkFailure        FetchErrorCause = "network issues"
	ErrCauseReadResponseBodyError FetchErrorCause = "failed to read response body"
	ErrCauseRequestTooMany        FetchErrorCause = "too many requests"
	ErrCauseRequest5xx            FetchErrorCause = "5xx"
	ErrCauseExhaustedAttempts     FetchErrorCause = "exhausted attempts"
	ErrCauseUnexpectedStatus      FetchErrorCause = "unexpected status"
)

type FetchError struct {
	Message   string
	Retryable bool
	Cause     FetchErrorCause
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetcher error: %s", e.Cause)
}

func (e *FetchError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable
func (e *FetchError) IsRetryable() bool {
	return e.Retryable
}

// Is allows errors.Is to match FetchError types
func (e *FetchError) Is(target error) bool {
	_, ok := target.(*FetchError)
	return ok
}
