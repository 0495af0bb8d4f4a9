package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/webaxs/webaxs/internal/logging"
	"github.com/webaxs/webaxs/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

// timeLayout is fixed-width so lexicographic ORDER BY on the text column
// matches temporal order down to the nanosecond.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists result records in a single SQLite database. The raw
// report and the suggestion set are stored as JSON text columns.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path and applies the
// schema. Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string, logger logging.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

// applySchema applies the SQLite schema and sets appropriate pragmas.
func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous=NORMAL", // Balance between safety and performance
		"PRAGMA foreign_keys=ON",    // Enable foreign key constraints
		"PRAGMA busy_timeout=5000",  // Wait up to 5 seconds on locked database
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Insert persists record and returns a freshly generated storage id.
func (s *SQLiteStore) Insert(ctx context.Context, record *model.ResultRecord) (string, error) {
	if record == nil {
		return "", fmt.Errorf("record is nil")
	}

	reportJSON, err := json.Marshal(record.Report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	suggestionsJSON, err := json.Marshal(record.Suggestions)
	if err != nil {
		return "", fmt.Errorf("marshal suggestions: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx, `INSERT INTO records
		(id, url, domain, unique_id, report, suggestions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, record.URL, record.Domain, record.UniqueID,
		string(reportJSON), string(suggestionsJSON),
		record.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("insert record for %s: %w", record.URL, err)
	}

	if s.logger != nil {
		s.logger.Debug("stored result record",
			logging.Field{Key: "id", Value: id},
			logging.Field{Key: "url", Value: record.URL},
			logging.Field{Key: "domain", Value: record.Domain})
	}
	return id, nil
}

// ListRecords returns summaries of every stored record, newest first.
func (s *SQLiteStore) ListRecords(ctx context.Context) ([]RecordSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, domain, created_at FROM records ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// GetRecordsByDomain returns summaries for one domain, newest first.
func (s *SQLiteStore) GetRecordsByDomain(ctx context.Context, domain string) ([]RecordSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, domain, created_at FROM records WHERE domain = ? ORDER BY created_at DESC`,
		domain)
	if err != nil {
		return nil, fmt.Errorf("list records for domain %s: %w", domain, err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]RecordSummary, error) {
	out := []RecordSummary{}
	for rows.Next() {
		var sum RecordSummary
		var createdAt string
		if err := rows.Scan(&sum.ID, &sum.URL, &sum.Domain, &createdAt); err != nil {
			return nil, fmt.Errorf("scan record summary: %w", err)
		}
		ts, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		sum.CreatedAt = ts
		out = append(out, sum)
	}
	return out, rows.Err()
}

// GetRecord returns the full record for id, including the raw report.
func (s *SQLiteStore) GetRecord(ctx context.Context, id string) (*StoredRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, url, domain, unique_id, report, suggestions, created_at FROM records WHERE id = ?`,
		id)

	var rec StoredRecord
	var reportJSON, suggestionsJSON, createdAt string
	err := row.Scan(&rec.ID, &rec.URL, &rec.Domain, &rec.UniqueID,
		&reportJSON, &suggestionsJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(reportJSON), &rec.Report); err != nil {
		return nil, fmt.Errorf("unmarshal report for %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(suggestionsJSON), &rec.Suggestions); err != nil {
		return nil, fmt.Errorf("unmarshal suggestions for %s: %w", id, err)
	}
	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	rec.CreatedAt = ts
	return &rec, nil
}

// DB exposes the underlying handle for advanced use (tests, migrations).
func (s *SQLiteStore) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
