package persistence

import (
	"encoding/json"
	"time"
)

// Lenient field readers. Each reports ok=false when the field is present
// but has the wrong shape, so callers can count the repair.

type fields map[string]json.RawMessage

func (f fields) has(key string) bool {
	raw, ok := f[key]
	return ok && string(raw) != "null"
}

func (f fields) str(key string) (string, bool) {
	if !f.has(key) {
		return "", true
	}
	var s string
	if err := json.Unmarshal(f[key], &s); err != nil {
		return "", false
	}
	return s, true
}

func (f fields) optStr(key string) (*string, bool) {
	if !f.has(key) {
		return nil, true
	}
	s, ok := f.str(key)
	if !ok {
		return nil, false
	}
	return &s, true
}

func (f fields) integer(key string) (int, bool) {
	if !f.has(key) {
		return 0, true
	}
	var n float64
	if err := json.Unmarshal(f[key], &n); err != nil {
		return 0, false
	}
	return int(n), true
}

func (f fields) boolean(key string) (bool, bool) {
	if !f.has(key) {
		return false, true
	}
	var b bool
	if err := json.Unmarshal(f[key], &b); err != nil {
		return false, false
	}
	return b, true
}

func (f fields) timestamp(key string) (time.Time, bool) {
	if !f.has(key) {
		return time.Time{}, true
	}
	var t time.Time
	if err := json.Unmarshal(f[key], &t); err != nil {
		return time.Time{}, false
	}
	return t, true
}

// array splits an array field into its raw elements. A missing field is an
// empty array; any other non-array value is reported as malformed.
func (f fields) array(key string) ([]json.RawMessage, bool) {
	if !f.has(key) {
		return nil, !isPresent(f, key)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(f[key], &items); err != nil {
		return nil, false
	}
	return items, true
}

// strings reads an array of strings, keeping only the string elements.
func (f fields) strings(key string) ([]string, bool) {
	items, ok := f.array(key)
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			ok = false
			continue
		}
		out = append(out, s)
	}
	return out, ok
}

func (f fields) object(key string) (fields, bool) {
	if !f.has(key) {
		return nil, true
	}
	return asFields(f[key])
}

func isPresent(f fields, key string) bool {
	_, ok := f[key]
	return ok
}

func asFields(raw json.RawMessage) (fields, bool) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return nil, false
	}
	return fields(m), true
}
