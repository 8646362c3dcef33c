package metadata

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/JaimeStill/douane/internal/features"
)

// Snapshot holds the known values of every field, sorted and de-duplicated.
// It is built once by Load and never modified afterwards.
type Snapshot struct {
	values [features.Count][]string
}

// NewSnapshot builds a Snapshot from per-field value lists.
// Fields not present in values get an empty list.
func NewSnapshot(values map[features.Field][]string) Snapshot {
	var s Snapshot
	for _, f := range features.Fields() {
		s.values[f] = clean(values[f])
	}
	return s
}

// Values returns a copy of the known values for f.
func (s Snapshot) Values(f features.Field) []string {
	if !f.Valid() {
		return []string{}
	}
	return slices.Clone(s.values[f])
}

// Contains reports whether v is a known value of f.
func (s Snapshot) Contains(f features.Field, v string) bool {
	if !f.Valid() {
		return false
	}
	_, found := slices.BinarySearch(s.values[f], v)
	return found
}

// Map returns the snapshot keyed by wire name. Every field is present.
func (s Snapshot) Map() map[string][]string {
	m := make(map[string][]string, features.Count)
	for _, f := range features.Fields() {
		m[f.String()] = s.Values(f)
	}
	return m
}

// MarshalJSON encodes the snapshot as an object keyed by wire name.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

func clean(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
