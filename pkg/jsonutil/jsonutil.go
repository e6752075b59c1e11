package jsonutil

import (
	"encoding/json"
	"strings"
)

// Get walks a decoded JSON object along a dot-separated path
// ("market_data.current_price.usd") and returns the value found there.
// Any missing or non-object segment returns (nil, false).
func Get(obj any, path string) (any, bool) {
	cur := obj
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetString returns the string at path, or "" when absent or not a string.
func GetString(obj any, path string) string {
	v, ok := Get(obj, path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetNumber returns the numeric value at path.
// JSON numbers decode as float64; anything else reports false.
func GetNumber(obj any, path string) (float64, bool) {
	v, ok := Get(obj, path)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Decode unmarshals raw JSON into the generic any representation
// that Get and friends operate on.
func Decode(raw []byte) (any, error) {
	var obj any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}
