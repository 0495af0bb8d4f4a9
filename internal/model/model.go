// Package model holds the shared domain types flowing through the audit
// pipeline: raw audit reports, remediation suggestions, persisted result
// records and per-URL batch outcomes.
package model

import "time"

// Violation is a single raw accessibility finding produced by the scanner.
// The pipeline treats it as an opaque structured value; only the advisor and
// the stored record consume it.
type Violation map[string]any

// AuditReport is the scanner's structured output for one page. Its exact
// shape is owned by the audit engine; the pipeline only relies on the
// "violations" sub-list being extractable.
type AuditReport map[string]any

// Violations returns the report's violations sub-list. A missing or
// malformed "violations" key yields an empty list, never an error.
func (r AuditReport) Violations() []Violation {
	if r == nil {
		return []Violation{}
	}
	raw, ok := r["violations"]
	if !ok {
		return []Violation{}
	}
	items, ok := raw.([]any)
	if !ok {
		// Already-typed lists show up when the report was built in-process.
		if vs, ok := raw.([]Violation); ok {
			return vs
		}
		return []Violation{}
	}
	out := make([]Violation, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, Violation(m))
		}
	}
	return out
}

// SuggestionEntry is one remediation suggestion. Entries are positional
// within a SuggestionSet and carry no identifier of their own.
type SuggestionEntry struct {
	Problem     string `json:"problema"`
	Solution    string `json:"solucion"`
	CodeExample string `json:"ejemplo_codigo"`
}

// SuggestionSet is the advisor's structured output for one page. Error is
// set when the advisor failed and the set was degraded to empty; the scan
// result is still kept in that case.
type SuggestionSet struct {
	Violations []SuggestionEntry `json:"violations"`
	Error      string            `json:"error,omitempty"`
}

// EmptySuggestionSet returns a degraded SuggestionSet carrying the advisor
// failure reason and no entries.
func EmptySuggestionSet(reason string) *SuggestionSet {
	return &SuggestionSet{Violations: []SuggestionEntry{}, Error: reason}
}

// ResultRecord is the durable unit persisted after a successful scan. It is
// assembled once inside a job and never mutated afterwards.
type ResultRecord struct {
	URL         string        `json:"url"`
	Domain      string        `json:"domain"`
	UniqueID    string        `json:"unique_id"`
	Report      AuditReport   `json:"results"`
	Suggestions SuggestionSet `json:"suggestions"`
	CreatedAt   time.Time     `json:"date"`
}
