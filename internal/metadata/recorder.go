package metadata

import (
	"time"

	"github.com/charmbracelet/log"
)

/*
Metadata Collected
- Fetch timestamps, HTTP status codes, attempt counts
- Cache hits, misses, stale reads, writes
- Rate limiter wait durations
- Failure causes and attributes

Logging Goals
- Debuggable fetch behavior
- Post-run auditability
- Failure diagnostics

Determinism guarantees:
 - Metadata does not affect control flow
 - A recording failure never fails the caller

Metadata is write-only.
No component may read metadata to influence fetch or cache decisions.
*/

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		attempts int,
	)

	RecordCacheEvent(event CacheEvent, logicalKey string, recordName string)

	RecordRateLimitWait(fetchUrl string, wait time.Duration)
}

// Recorder captures structured events on a charmbracelet logger.
// It must not:
// - perform I/O decisions
// - affect control flow
// Events are recorded synchronously in the order they are received.
type Recorder struct {
	logger *log.Logger
}

func NewRecorder(logger *log.Logger) Recorder {
	return Recorder{
		logger: logger,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	keyvals := []interface{}{
		"observed_at", observedAt.Format(time.RFC3339),
		"package", packageName,
		"action", action,
		"cause", string(cause),
		"details", details,
	}
	for _, attr := range attrs {
		keyvals = append(keyvals, string(attr.Key()), attr.Value())
	}
	r.logger.Warn("recorded error", keyvals...)
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	attempts int,
) {
	r.logger.Debug("fetch",
		"url", fetchUrl,
		"status", httpStatus,
		"duration", duration.Round(time.Millisecond),
		"attempts", attempts,
	)
}

func (r *Recorder) RecordCacheEvent(event CacheEvent, logicalKey string, recordName string) {
	r.logger.Debug("cache",
		"event", string(event),
		"logical_key", logicalKey,
		"record", recordName,
	)
}

func (r *Recorder) RecordRateLimitWait(fetchUrl string, wait time.Duration) {
	r.logger.Debug("rate limit wait",
		"url", fetchUrl,
		"wait", wait.Round(time.Millisecond),
	)
}

// NoopSink implements MetadataSink but does nothing.
// Callers (or tests) decide whether to inject Recorder or NoopSink.
// Purpose is to make metadata orthogonal.
type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	attempts int,
) {
}

func (n *NoopSink) RecordCacheEvent(event CacheEvent, logicalKey string, recordName string) {}

func (n *NoopSink) RecordRateLimitWait(fetchUrl string, wait time.Duration) {}
