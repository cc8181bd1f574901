// src/models/raw.go
package models

import (
	"fmt"
	"strings"
)

// RawRow is one loosely typed record from a ledger source: a flat mapping
// from column header to a scalar value. Sources also key every cell by its
// 0-based column index (as a string), so legacy index-based fallbacks can
// live in the same candidate lists as named headers.
// Values are strings for CSV/XLSX sources and may be float64 for JSON
// payloads. Normalization and aggregation treat RawRow as read-only input.
type RawRow map[string]any

const (
	// FilterAll is the reserved filter value meaning "unconstrained" for a
	// given dimension. It must never collide with a real ledger value.
	FilterAll = "Tous"

	// Placeholder is substituted for missing text fields so downstream
	// grouping never sees an empty key.
	Placeholder = "—"
)

// First returns the first non-empty value among the candidate keys.
// Candidate lists are data owned by each normalizer, not scattered
// conditionals.
func (r RawRow) First(keys ...string) any {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

// FirstString is First with the result coerced to a trimmed string.
// Returns def when no candidate key holds a value.
func (r RawRow) FirstString(def string, keys ...string) string {
	v := r.First(keys...)
	if v == nil {
		return def
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
