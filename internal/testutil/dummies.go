// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/webaxs/webaxs/internal/logging"
	"github.com/webaxs/webaxs/internal/model"
	"github.com/webaxs/webaxs/internal/scanner"
	"github.com/webaxs/webaxs/internal/store"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ─── Scanner ───────────────────────────────────────────────────────────

// DummyScanner implements scanner.Scanner in memory. By default every URL
// yields a report with one violation. Set FailURLs[url] = true to force an
// error, PanicURLs[url] = true to panic mid-call, and ResponseDelay to slow
// calls down. The scanner tracks how many calls were in flight at once so
// tests can observe the concurrency cap.
type DummyScanner struct {
	ResponseDelay time.Duration
	FailURLs      map[string]bool
	PanicURLs     map[string]bool
	Report        model.AuditReport

	mu          sync.Mutex
	Calls       []string
	inFlight    int
	MaxInFlight int
}

func (d *DummyScanner) Analyze(ctx context.Context, rawURL string) (*scanner.Result, error) {
	d.mu.Lock()
	d.Calls = append(d.Calls, rawURL)
	d.inFlight++
	if d.inFlight > d.MaxInFlight {
		d.MaxInFlight = d.inFlight
	}
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.inFlight--
		d.mu.Unlock()
	}()

	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if d.PanicURLs != nil && d.PanicURLs[rawURL] {
		panic("dummy scanner panic for " + rawURL)
	}
	if d.FailURLs != nil && d.FailURLs[rawURL] {
		return nil, &errString{"dummy scan fail for " + rawURL}
	}

	domain, err := scanner.DeriveDomain(rawURL)
	if err != nil {
		return nil, err
	}

	report := d.Report
	if report == nil {
		report = model.AuditReport{
			"violations": []any{
				map[string]any{"id": "image-alt", "impact": "critical"},
			},
		}
	}

	return &scanner.Result{
		Report:   report,
		Domain:   domain,
		UniqueID: uuid.New().String(),
	}, nil
}

func (d *DummyScanner) Close() error { return nil }

// ─── Advisor ───────────────────────────────────────────────────────────

// DummyAdvisor implements advisor.Advisor with a preconfigured result.
type DummyAdvisor struct {
	Set *model.SuggestionSet
	Err error

	mu    sync.Mutex
	Calls int
}

func (d *DummyAdvisor) Suggest(_ context.Context, violations []model.Violation, _ string) (*model.SuggestionSet, error) {
	d.mu.Lock()
	d.Calls++
	d.mu.Unlock()

	if d.Err != nil {
		return nil, d.Err
	}
	if d.Set != nil {
		return d.Set, nil
	}

	entries := make([]model.SuggestionEntry, 0, len(violations))
	for range violations {
		entries = append(entries, model.SuggestionEntry{
			Problem:     "dummy problem",
			Solution:    "dummy solution",
			CodeExample: "<div>dummy</div>",
		})
	}
	return &model.SuggestionSet{Violations: entries}, nil
}

// CallCount returns how many times Suggest was invoked.
func (d *DummyAdvisor) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Calls
}

// ─── Store ─────────────────────────────────────────────────────────────

// DummyStore implements store.Store with in-memory recording.
type DummyStore struct {
	InsertErr error

	mu      sync.Mutex
	Records []*model.ResultRecord
	ids     map[string]*model.ResultRecord
}

func (d *DummyStore) Insert(_ context.Context, record *model.ResultRecord) (string, error) {
	if d.InsertErr != nil {
		return "", d.InsertErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ids == nil {
		d.ids = make(map[string]*model.ResultRecord)
	}
	id := uuid.New().String()
	d.Records = append(d.Records, record)
	d.ids[id] = record
	return id, nil
}

func (d *DummyStore) ListRecords(context.Context) ([]store.RecordSummary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]store.RecordSummary, 0, len(d.ids))
	for id, rec := range d.ids {
		out = append(out, store.RecordSummary{
			ID: id, URL: rec.URL, Domain: rec.Domain, CreatedAt: rec.CreatedAt,
		})
	}
	return out, nil
}

func (d *DummyStore) GetRecord(_ context.Context, id string) (*store.StoredRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.ids[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	return &store.StoredRecord{ID: id, ResultRecord: *rec}, nil
}

func (d *DummyStore) GetRecordsByDomain(_ context.Context, domain string) ([]store.RecordSummary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []store.RecordSummary{}
	for id, rec := range d.ids {
		if rec.Domain == domain {
			out = append(out, store.RecordSummary{
				ID: id, URL: rec.URL, Domain: rec.Domain, CreatedAt: rec.CreatedAt,
			})
		}
	}
	return out, nil
}

func (d *DummyStore) Close() error { return nil }

// InsertCount returns how many records were inserted.
func (d *DummyStore) InsertCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Records)
}

// ─── helpers ───────────────────────────────────────────────────────────

type errString struct{ s string }

func (e *errString) Error() string { return e.s }
