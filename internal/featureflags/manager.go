package featureflags

import (
	"hash/fnv"
	"maps"
	"strconv"
	"strings"
)

// Known flags. Each gates one optional read model of the facade.
const (
	Trending    = "trending"
	Suggestions = "suggestions"
	NotePublish = "note_publish"
)

// Defaults is applied before the configured list, so configuration only
// needs to name the flags it changes.
const Defaults = "trending=on,suggestions=on,note_publish=on"

// Manager evaluates flags defined in a key=value list such as
// "trending=on,suggestions=25%,note_publish=off".
type Manager struct {
	flags map[string]string
}

// NewManager parses Defaults followed by raw. Malformed pairs are skipped.
func NewManager(raw string) *Manager {
	out := make(map[string]string)
	parse(Defaults, out)
	parse(raw, out)
	return &Manager{flags: out}
}

func parse(raw string, out map[string]string) {
	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
}

// Enabled reports whether name is on for userID.
// Values: on/true/1, off/false/0, or N% for a stable per-user rollout.
// Percentage rollouts are off for signed-out callers (empty userID).
func (m *Manager) Enabled(name, userID string) bool {
	if m == nil {
		return false
	}
	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	switch {
	case err != nil, pct <= 0:
		return false
	case pct >= 100:
		return true
	case userID == "":
		return false
	}
	return rolloutBucket(name, userID) < pct
}

// Raw returns a copy of the configured values.
func (m *Manager) Raw() map[string]string {
	return maps.Clone(m.flags)
}

// Snapshot evaluates every flag for userID.
func (m *Manager) Snapshot(userID string) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name, userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalize(name) + ":" + userID))
	return int(h.Sum32() % 100)
}
