package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SchemaVersion is the envelope version written by Encode.
const SchemaVersion = 1

type envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// Encode wraps state in the current envelope.
func Encode(state any) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return json.Marshal(envelope{Version: SchemaVersion, State: raw})
}

// document is a decoded slot: the state object's fields plus the version
// the writer declared.
type document struct {
	version int
	fields  map[string]json.RawMessage
}

// decodeDocument accepts the enveloped form {"version":N,"state":{...}} and
// a bare state object (version 0). ok is false when raw is not a JSON object.
func decodeDocument(raw []byte) (doc document, ok bool) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(raw, &outer); err != nil || outer == nil {
		return document{}, false
	}

	inner, hasState := outer["state"]
	if !hasState || !isObject(inner) {
		return document{fields: outer}, true
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(inner, &fields); err != nil {
		return document{}, false
	}
	var version int
	if v, found := outer["version"]; found {
		_ = json.Unmarshal(v, &version)
	}
	return document{version: version, fields: fields}, true
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
