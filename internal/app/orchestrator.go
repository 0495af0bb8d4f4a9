// Package app wires the scanner, advisor and store into the concurrent
// batch-audit pipeline and exposes the operations the API surface calls.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/webaxs/webaxs/internal/advisor"
	"github.com/webaxs/webaxs/internal/logging"
	"github.com/webaxs/webaxs/internal/model"
	"github.com/webaxs/webaxs/internal/scanner"
	"github.com/webaxs/webaxs/internal/store"
)

// ErrInvalidInput is returned by RunBatch before any work is scheduled when
// the URL list is missing or empty.
var ErrInvalidInput = errors.New("urls must be a non-empty list")

// Orchestrator runs audit jobs for batches of URLs with bounded parallelism.
// All collaborators are injected at construction so tests can substitute
// doubles.
type Orchestrator struct {
	cfg     *Config
	scanner scanner.Scanner
	advisor advisor.Advisor
	store   store.Store
	logger  logging.Logger
}

// NewOrchestrator ties together config and the three collaborators.
func NewOrchestrator(cfg *Config, sc scanner.Scanner, adv advisor.Advisor, st store.Store, logger logging.Logger) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = DefaultConfig().MaxWorkers
	}
	return &Orchestrator{
		cfg:     cfg,
		scanner: sc,
		advisor: adv,
		store:   st,
		logger:  logger,
	}
}

// RunBatch audits every URL in urls and returns one outcome per URL, in
// completion order. A failed URL never affects its siblings; the returned
// error is non-nil only for invalid input or a broken batch context.
func (o *Orchestrator) RunBatch(ctx context.Context, urls []string) (*model.BatchSummary, error) {
	summary := &model.BatchSummary{Outcomes: make([]model.BatchOutcome, 0, len(urls))}
	err := o.RunBatchStream(ctx, urls, func(out model.BatchOutcome) {
		summary.Outcomes = append(summary.Outcomes, out)
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// RunBatchStream is RunBatch with incremental delivery: emit is called once
// per URL as its outcome completes. emit runs on a single collector
// goroutine, so it needs no locking of its own. When ctx is canceled the
// batch unwinds without waiting on emit and the context error is returned.
func (o *Orchestrator) RunBatchStream(ctx context.Context, urls []string, emit func(model.BatchOutcome)) error {
	if len(urls) == 0 {
		return ErrInvalidInput
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, o.cfg.MaxWorkers)
	outcomeCh := make(chan model.BatchOutcome)
	collectorDone := make(chan struct{})

	go func() {
		defer close(collectorDone)
		for out := range outcomeCh {
			emit(out)
		}
	}()

	for _, url := range urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			// A canceled batch must not strand workers on the send.
			select {
			case outcomeCh <- o.processURL(ctx, url):
			case <-ctx.Done():
			}
		}(url)
	}

	wg.Wait()
	close(outcomeCh)
	<-collectorDone

	return ctx.Err()
}

// processURL runs one URL through scan, suggest and store. Every failure
// path yields a well-formed failure outcome; nothing escapes the job
// boundary, including panics from collaborators.
func (o *Orchestrator) processURL(ctx context.Context, url string) (out model.BatchOutcome) {
	defer func() {
		if r := recover(); r != nil {
			if o.logger != nil {
				o.logger.Error("audit job panicked",
					logging.Field{Key: "url", Value: url},
					logging.Field{Key: "panic", Value: fmt.Sprint(r)})
			}
			out = model.Failure(url, model.ErrKindUnexpected, fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	scanCtx, cancelScan := o.withTimeout(ctx, o.cfg.ScanTimeout)
	res, err := o.scanner.Analyze(scanCtx, url)
	cancelScan()
	if err != nil {
		if o.logger != nil {
			o.logger.Warn("accessibility audit failed",
				logging.Field{Key: "url", Value: url},
				logging.Field{Key: "error", Value: err.Error()})
		}
		return model.Failure(url, model.ErrKindAnalysis, err.Error())
	}

	violations := res.Report.Violations()

	// Advisor failure degrades the suggestion set but keeps the scan:
	// the audit findings are valuable on their own.
	suggestCtx, cancelSuggest := o.withTimeout(ctx, o.cfg.SuggestTimeout)
	suggestions, err := o.advisor.Suggest(suggestCtx, violations, url)
	cancelSuggest()
	if err != nil {
		if o.logger != nil {
			o.logger.Warn("suggestion generation failed, storing scan without guidance",
				logging.Field{Key: "url", Value: url},
				logging.Field{Key: "error", Value: err.Error()})
		}
		suggestions = model.EmptySuggestionSet(err.Error())
	}

	record := &model.ResultRecord{
		URL:         url,
		Domain:      res.Domain,
		UniqueID:    res.UniqueID,
		Report:      res.Report,
		Suggestions: *suggestions,
		CreatedAt:   time.Now().UTC(),
	}

	storeCtx, cancelStore := o.withTimeout(ctx, o.cfg.StoreTimeout)
	storageID, err := o.store.Insert(storeCtx, record)
	cancelStore()
	if err != nil {
		if o.logger != nil {
			o.logger.Error("storing result record failed",
				logging.Field{Key: "url", Value: url},
				logging.Field{Key: "error", Value: err.Error()})
		}
		return model.Failure(url, model.ErrKindStore, err.Error())
	}

	return model.BatchOutcome{
		URL:         url,
		UniqueID:    record.UniqueID,
		StorageID:   storageID,
		CreatedAt:   record.CreatedAt,
		Suggestions: &record.Suggestions,
	}
}

func (o *Orchestrator) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// ─── History delegates ─────────────────────────────────────────────────

func (o *Orchestrator) ListHistory(ctx context.Context) ([]store.RecordSummary, error) {
	return o.store.ListRecords(ctx)
}

func (o *Orchestrator) GetRecord(ctx context.Context, id string) (*store.StoredRecord, error) {
	return o.store.GetRecord(ctx, id)
}

func (o *Orchestrator) GetDomainHistory(ctx context.Context, domain string) ([]store.RecordSummary, error) {
	return o.store.GetRecordsByDomain(ctx, domain)
}

// CompareRecords diffs the suggestion text of two stored records.
func (o *Orchestrator) CompareRecords(ctx context.Context, baseID, headID string) (*store.RecordDiff, error) {
	base, err := o.store.GetRecord(ctx, baseID)
	if err != nil {
		return nil, fmt.Errorf("load base record: %w", err)
	}
	head, err := o.store.GetRecord(ctx, headID)
	if err != nil {
		return nil, fmt.Errorf("load head record: %w", err)
	}
	return store.CompareRecords(base, head), nil
}
