package urlutil

import (
	"net/url"
	"sort"
	"strings"
)

// CanonicalQuery encodes query parameters in a deterministic form:
// parameters are sorted by name, then percent-encoded.
// Two maps carrying the same pairs always produce the same string,
// regardless of insertion or iteration order.
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
//   - Idempotent on the pair set: ordering of the input never matters
func CanonicalQuery(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[name]))
	}
	return b.String()
}

// WithQuery returns a copy of sourceUrl carrying the canonical encoding
// of params as its raw query. The original URL is never mutated.
func WithQuery(sourceUrl url.URL, params map[string]string) url.URL {
	target := sourceUrl
	target.RawQuery = CanonicalQuery(params)
	return target
}
