package cache

import (
	"encoding/json"
	"time"
)

// persistence boundary

// cacheRecord is the on-disk layout of one entry: a creation timestamp
// plus the opaque payload. Staleness is judged per read against a
// caller-supplied max age; it is never stored in the record.
type cacheRecord struct {
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}
