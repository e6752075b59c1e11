package metadata

// ErrorCause is the canonical cause table for recorded errors.
// Causes are observational labels, never control-flow inputs.
type ErrorCause string

const (
	CauseNetworkFailure    ErrorCause = "network failure"
	CauseThrottled         ErrorCause = "throttled"
	CauseServerError       ErrorCause = "server error"
	CauseRetryFailure      ErrorCause = "retry failure"
	CauseCacheReadFailure  ErrorCause = "cache read failure"
	CauseCacheWriteFailure ErrorCause = "cache write failure"
	CauseParseFailure      ErrorCause = "parse failure"
	CauseUnknown           ErrorCause = "unknown"
)

// CacheEvent labels the outcome of one cache lookup or write.
type CacheEvent string

const (
	CacheHit   CacheEvent = "hit"
	CacheMiss  CacheEvent = "miss"
	CacheStale CacheEvent = "stale"
	CacheWrite CacheEvent = "write"
)

type AttributeKey string

const (
	AttrURL      AttributeKey = "url"
	AttrMessage  AttributeKey = "message"
	AttrCacheKey AttributeKey = "cache_key"
	AttrCoin     AttributeKey = "coin"
	AttrSource   AttributeKey = "source"
)

// Attribute is a single primitive key/value pair attached to an event.
type Attribute struct {
	key   AttributeKey
	value string
}

func NewAttr(key AttributeKey, value string) Attribute {
	return Attribute{
		key:   key,
		value: value,
	}
}

func (a Attribute) Key() AttributeKey {
	return a.key
}

func (a Attribute) Value() string {
	return a.value
}
