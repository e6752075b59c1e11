package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rohmanhakim/coin-checker/internal/metadata"
	"github.com/rohmanhakim/coin-checker/pkg/hashutil"
	"github.com/rohmanhakim/coin-checker/pkg/urlutil"
)

/*
Responsibilities
- Persist fetched payloads under deterministic record names
- Serve payloads back while they are younger than the caller's max age
- Swallow every storage failure: a broken cache degrades to a miss, never to an error

Store Semantics
- One record per composite key, no index or manifest
- Records are overwritten on write and never deleted
- A stale record is unreadable, not removed
*/

type Store interface {
	Get(logicalKey string, params map[string]string, maxAge time.Duration) (json.RawMessage, bool)
	Set(logicalKey string, params map[string]string, payload json.RawMessage)
}

// FileStore keeps one JSON file per composite key under rootDir.
// The directory is created lazily on the first write.
type FileStore struct {
	rootDir      string
	hashAlgo     hashutil.HashAlgo
	metadataSink metadata.MetadataSink
	now          func() time.Time
}

func NewFileStore(
	rootDir string,
	hashAlgo hashutil.HashAlgo,
	metadataSink metadata.MetadataSink,
) *FileStore {
	return &FileStore{
		rootDir:      rootDir,
		hashAlgo:     hashAlgo,
		metadataSink: metadataSink,
		now:          time.Now,
	}
}

// SetClockForTest replaces the wall clock used for freshness checks.
func (s *FileStore) SetClockForTest(now func() time.Time) {
	s.now = now
}

// CompositeKey joins the logical key with the canonical (name-sorted)
// encoding of the parameter set, so identical logical requests with
// differently-ordered parameters collide on the same record.
func CompositeKey(logicalKey string, params map[string]string) string {
	query := urlutil.CanonicalQuery(params)
	if query == "" {
		return logicalKey
	}
	return logicalKey + "_" + query
}

// recordPath maps a composite key to its file. The key is hashed so
// arbitrary parameter values can never escape the cache directory.
func (s *FileStore) recordPath(compositeKey string) (string, *CacheError) {
	name, err := hashutil.HashString(compositeKey, s.hashAlgo)
	if err != nil {
		return "", &CacheError{
			Message: fmt.Sprintf("hashing composite key: %v", err),
			Cause:   ErrCausePathFailure,
		}
	}
	return filepath.Join(s.rootDir, name+".json"), nil
}

// Get returns the payload stored for the composite key while it is
// younger than maxAge. Any read, decode, or age failure behaves as a
// miss; the cause is recorded, never raised.
func (s *FileStore) Get(logicalKey string, params map[string]string, maxAge time.Duration) (json.RawMessage, bool) {
	compositeKey := CompositeKey(logicalKey, params)

	path, cacheErr := s.recordPath(compositeKey)
	if cacheErr != nil {
		s.recordError("FileStore.Get", metadata.CauseCacheReadFailure, cacheErr, compositeKey)
		return nil, false
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.recordError("FileStore.Get", metadata.CauseCacheReadFailure, &CacheError{
				Message: fmt.Sprintf("reading record: %v", err),
				Cause:   ErrCauseReadFailure,
			}, compositeKey)
		}
		s.metadataSink.RecordCacheEvent(metadata.CacheMiss, logicalKey, filepath.Base(path))
		return nil, false
	}

	var record cacheRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		s.recordError("FileStore.Get", metadata.CauseCacheReadFailure, &CacheError{
			Message: fmt.Sprintf("decoding record: %v", err),
			Cause:   ErrCauseDecodeFailure,
		}, compositeKey)
		s.metadataSink.RecordCacheEvent(metadata.CacheMiss, logicalKey, filepath.Base(path))
		return nil, false
	}

	if s.now().Sub(record.Timestamp) >= maxAge {
		s.metadataSink.RecordCacheEvent(metadata.CacheStale, logicalKey, filepath.Base(path))
		return nil, false
	}

	s.metadataSink.RecordCacheEvent(metadata.CacheHit, logicalKey, filepath.Base(path))
	return record.Payload, true
}

// Set stores the payload under the composite key with the current
// timestamp, overwriting any prior record. Write failures are recorded
// and swallowed; caching is best-effort, never load-bearing.
func (s *FileStore) Set(logicalKey string, params map[string]string, payload json.RawMessage) {
	compositeKey := CompositeKey(logicalKey, params)

	path, cacheErr := s.recordPath(compositeKey)
	if cacheErr != nil {
		s.recordError("FileStore.Set", metadata.CauseCacheWriteFailure, cacheErr, compositeKey)
		return
	}

	if err := os.MkdirAll(s.rootDir, 0755); err != nil {
		s.recordError("FileStore.Set", metadata.CauseCacheWriteFailure, &CacheError{
			Message: fmt.Sprintf("creating cache dir: %v", err),
			Cause:   ErrCausePathFailure,
		}, compositeKey)
		return
	}

	record := cacheRecord{
		Timestamp: s.now(),
		Payload:   payload,
	}

	raw, err := json.Marshal(record)
	if err != nil {
		s.recordError("FileStore.Set", metadata.CauseCacheWriteFailure, &CacheError{
			Message: fmt.Sprintf("encoding record: %v", err),
			Cause:   ErrCauseWriteFailure,
		}, compositeKey)
		return
	}

	if err := os.WriteFile(path, raw, 0644); err != nil {
		s.recordError("FileStore.Set", metadata.CauseCacheWriteFailure, &CacheError{
			Message: fmt.Sprintf("writing record: %v", err),
			Cause:   ErrCauseWriteFailure,
		}, compositeKey)
		return
	}

	s.metadataSink.RecordCacheEvent(metadata.CacheWrite, logicalKey, filepath.Base(path))
}

func (s *FileStore) recordError(action string, cause metadata.ErrorCause, cacheErr *CacheError, compositeKey string) {
	s.metadataSink.RecordError(
		s.now(),
		"cache",
		action,
		cause,
		cacheErr.Message,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrCacheKey, compositeKey),
		},
	)
}
