// Package store persists scan result records and serves the history
// lookups: by storage id and by domain.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/webaxs/webaxs/internal/model"
)

// ErrRecordNotFound is returned when a lookup matches no stored record.
var ErrRecordNotFound = errors.New("record not found")

// RecordSummary is the bounded projection used by history listings.
type RecordSummary struct {
	ID        string    `json:"_id"`
	URL       string    `json:"url"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"date"`
}

// StoredRecord is a full result record together with its storage id.
type StoredRecord struct {
	ID string `json:"_id"`
	model.ResultRecord
}

// Store is the persistence contract consumed by the orchestration pipeline
// and the history API. Implementations must be safe for concurrent use.
type Store interface {
	// Insert persists record and returns the storage id assigned to it.
	Insert(ctx context.Context, record *model.ResultRecord) (string, error)

	// ListRecords returns summaries of all stored records, newest first.
	ListRecords(ctx context.Context) ([]RecordSummary, error)

	// GetRecord returns the full record for a storage id.
	GetRecord(ctx context.Context, id string) (*StoredRecord, error)

	// GetRecordsByDomain returns summaries for one domain, newest first.
	GetRecordsByDomain(ctx context.Context, domain string) ([]RecordSummary, error)

	// Close releases storage resources.
	Close() error
}
