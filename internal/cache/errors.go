package cache

import (
	"fmt"

	"github.com/rohmanhakim/coin-checker/pkg/failure"
)

type CacheErrorCause string

const (
	ErrCauseReadFailure   CacheErrorCause = "read failure"
	ErrCauseDecodeFailure CacheErrorCause = "decode failure"
	ErrCauseWriteFailure  CacheErrorCause = "write failure"
	ErrCausePathFailure   CacheErrorCause = "path failure"
)

// CacheError never crosses the package boundary: the store swallows it
// after recording. It exists so internal helpers can classify failures
// the same way every other package does.
type CacheError struct {
	Message string
	Cause   CacheErrorCause
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache error: %s", e.Cause)
}

func (e *CacheError) Severity() failure.Severity {
	// the cache is best-effort; nothing in it is fatal to a caller
	return failure.SeverityRecoverable
}
