package model

import "time"

// ErrorKind classifies a per-URL failure. The values are part of the API
// response contract.
type ErrorKind string

const (
	ErrKindInvalidInput ErrorKind = "INVALID_INPUT"
	ErrKindAnalysis     ErrorKind = "ANALYSIS_ERROR"
	ErrKindStore        ErrorKind = "DB_ERROR"
	ErrKindUnexpected   ErrorKind = "UNEXPECTED_ERROR"
)

// BatchOutcome is the terminal result for one input URL. On success it
// carries a bounded projection of the stored record (never the raw report);
// on failure it carries a machine-readable kind plus a human message.
type BatchOutcome struct {
	URL string `json:"url"`

	// Success fields
	UniqueID    string         `json:"unique_id,omitempty"`
	StorageID   string         `json:"_id,omitempty"`
	CreatedAt   time.Time      `json:"date,omitzero"`
	Suggestions *SuggestionSet `json:"suggestions,omitempty"`

	// Failure fields
	ErrorKind ErrorKind `json:"code,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Succeeded reports whether the outcome is a success.
func (o BatchOutcome) Succeeded() bool { return o.ErrorKind == "" }

// Failure builds a failure outcome for url.
func Failure(url string, kind ErrorKind, msg string) BatchOutcome {
	return BatchOutcome{URL: url, ErrorKind: kind, Error: msg}
}

// BatchSummary collects one outcome per input URL, in completion order.
// Callers correlate outcomes to inputs via the URL field, not by position.
type BatchSummary struct {
	Outcomes []BatchOutcome `json:"data"`
}

// Failed returns the number of failed outcomes.
func (s *BatchSummary) Failed() int {
	n := 0
	for _, o := range s.Outcomes {
		if !o.Succeeded() {
			n++
		}
	}
	return n
}
