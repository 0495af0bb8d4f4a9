package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/webaxs/webaxs/internal/model"
	"github.com/webaxs/webaxs/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(url, domain string, created time.Time) *model.ResultRecord {
	return &model.ResultRecord{
		URL:      url,
		Domain:   domain,
		UniqueID: "uid-" + url,
		Report: model.AuditReport{
			"violations": []any{
				map[string]any{"id": "image-alt", "impact": "critical"},
			},
		},
		Suggestions: model.SuggestionSet{
			Violations: []model.SuggestionEntry{
				{Problem: "Missing alt text", Solution: "Add alt attributes", CodeExample: `<img alt="...">`},
			},
		},
		CreatedAt: created,
	}
}

// ─── Insert / GetRecord ────────────────────────────────────────────────

func TestSQLiteStore_InsertAndGetRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	rec := sampleRecord("https://example.com/page", "example.com", created)

	id, err := s.Insert(ctx, rec)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty storage id")
	}

	got, err := s.GetRecord(ctx, id)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if got.ID != id {
		t.Errorf("id = %q, want %q", got.ID, id)
	}
	if got.URL != rec.URL || got.Domain != rec.Domain || got.UniqueID != rec.UniqueID {
		t.Errorf("record fields lost in round trip: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, created)
	}

	violations := got.Report.Violations()
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation in stored report, got %d", len(violations))
	}
	if violations[0]["id"] != "image-alt" {
		t.Errorf("violation id = %v", violations[0]["id"])
	}
	if len(got.Suggestions.Violations) != 1 || got.Suggestions.Violations[0].Problem != "Missing alt text" {
		t.Errorf("suggestions lost in round trip: %+v", got.Suggestions)
	}
}

func TestSQLiteStore_InsertNilRecord(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	if _, err := s.Insert(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil record")
	}
}

func TestSQLiteStore_InsertGeneratesDistinctIDs(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	a := sampleRecord("https://example.com/a", "example.com", time.Now().UTC())
	b := sampleRecord("https://example.com/b", "example.com", time.Now().UTC())

	idA, err := s.Insert(ctx, a)
	if err != nil {
		t.Fatalf("Insert a: %v", err)
	}
	idB, err := s.Insert(ctx, b)
	if err != nil {
		t.Fatalf("Insert b: %v", err)
	}
	if idA == idB {
		t.Errorf("expected distinct storage ids, both %q", idA)
	}
}

func TestSQLiteStore_GetRecordNotFound(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.GetRecord(context.Background(), "no-such-id")
	if !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

// ─── Listing ───────────────────────────────────────────────────────────

func TestSQLiteStore_ListRecordsNewestFirst(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	urls := []string{"https://a.example/", "https://b.example/", "https://c.example/"}
	for i, url := range urls {
		rec := sampleRecord(url, "multi.example", base.Add(time.Duration(i)*time.Hour))
		if _, err := s.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert %s: %v", url, err)
		}
	}

	summaries, err := s.ListRecords(ctx)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	if summaries[0].URL != "https://c.example/" || summaries[2].URL != "https://a.example/" {
		t.Errorf("expected newest-first ordering, got %s .. %s", summaries[0].URL, summaries[2].URL)
	}
}

func TestSQLiteStore_SubSecondOrdering(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	// Timestamps whose fractional parts differ in digit count expose any
	// divergence between text ordering and temporal ordering.
	base := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	older := sampleRecord("https://x.example/older", "x.example", base.Add(100*time.Millisecond))
	newer := sampleRecord("https://x.example/newer", "x.example", base.Add(150*time.Millisecond))

	if _, err := s.Insert(ctx, older); err != nil {
		t.Fatalf("Insert older: %v", err)
	}
	if _, err := s.Insert(ctx, newer); err != nil {
		t.Fatalf("Insert newer: %v", err)
	}

	summaries, err := s.ListRecords(ctx)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if summaries[0].URL != "https://x.example/newer" {
		t.Errorf("newest-first violated: got %s (%v) first", summaries[0].URL, summaries[0].CreatedAt)
	}

	byDomain, err := s.GetRecordsByDomain(ctx, "x.example")
	if err != nil {
		t.Fatalf("GetRecordsByDomain: %v", err)
	}
	if byDomain[0].URL != "https://x.example/newer" {
		t.Errorf("domain listing newest-first violated: got %s first", byDomain[0].URL)
	}
}

func TestSQLiteStore_ListRecordsEmpty(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	summaries, err := s.ListRecords(context.Background())
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if summaries == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(summaries) != 0 {
		t.Errorf("expected no summaries, got %d", len(summaries))
	}
}

func TestSQLiteStore_GetRecordsByDomain(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	inserts := []struct{ url, domain string }{
		{"https://one.example/home", "one.example"},
		{"https://one.example/about", "one.example"},
		{"https://two.example/", "two.example"},
	}
	for i, in := range inserts {
		if _, err := s.Insert(ctx, sampleRecord(in.url, in.domain, now.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Insert %s: %v", in.url, err)
		}
	}

	summaries, err := s.GetRecordsByDomain(ctx, "one.example")
	if err != nil {
		t.Fatalf("GetRecordsByDomain: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	for _, sum := range summaries {
		if sum.Domain != "one.example" {
			t.Errorf("unexpected domain %q in result", sum.Domain)
		}
	}

	none, err := s.GetRecordsByDomain(ctx, "absent.example")
	if err != nil {
		t.Fatalf("GetRecordsByDomain: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no summaries for unknown domain, got %d", len(none))
	}
}

// ─── Compare ───────────────────────────────────────────────────────────

func storedWith(id string, entries ...model.SuggestionEntry) *store.StoredRecord {
	return &store.StoredRecord{
		ID: id,
		ResultRecord: model.ResultRecord{
			Suggestions: model.SuggestionSet{Violations: entries},
		},
	}
}

func TestCompareRecords_Unchanged(t *testing.T) {
	t.Parallel()

	entry := model.SuggestionEntry{Problem: "Low contrast", Solution: "Darken text"}
	diff := store.CompareRecords(storedWith("base", entry), storedWith("head", entry))

	if !diff.Unchanged() {
		t.Errorf("expected no chunks for identical guidance, got %+v", diff.Chunks)
	}
	if diff.BaseID != "base" || diff.HeadID != "head" {
		t.Errorf("ids not carried through: %+v", diff)
	}
}

func TestCompareRecords_AddedAndRemoved(t *testing.T) {
	t.Parallel()

	shared := model.SuggestionEntry{Problem: "Low contrast", Solution: "Darken text"}
	removed := model.SuggestionEntry{Problem: "Missing alt text", Solution: "Add alt attributes"}
	added := model.SuggestionEntry{Problem: "Missing form label", Solution: "Associate a label"}

	diff := store.CompareRecords(
		storedWith("base", shared, removed),
		storedWith("head", shared, added))

	if diff.Unchanged() {
		t.Fatal("expected chunks for changed guidance")
	}

	var sawAdded, sawRemoved bool
	for _, c := range diff.Chunks {
		switch c.Type {
		case "added":
			sawAdded = true
		case "removed":
			sawRemoved = true
		default:
			t.Errorf("unexpected chunk type %q", c.Type)
		}
	}
	if !sawAdded || !sawRemoved {
		t.Errorf("expected both added and removed chunks, got %+v", diff.Chunks)
	}
}

func TestCompareRecords_EmptyGuidance(t *testing.T) {
	t.Parallel()

	diff := store.CompareRecords(storedWith("base"), storedWith("head"))
	if !diff.Unchanged() {
		t.Errorf("two empty records should be unchanged, got %+v", diff.Chunks)
	}
}
