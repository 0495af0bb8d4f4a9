package store

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffChunk is one added or removed span of remediation text between two
// scans of the same page.
type DiffChunk struct {
	Type    string `json:"type"` // "added" | "removed"
	Content string `json:"content"`
}

// RecordDiff describes how the remediation guidance changed between a base
// and a head scan.
type RecordDiff struct {
	BaseID string      `json:"base_id"`
	HeadID string      `json:"head_id"`
	Chunks []DiffChunk `json:"chunks"`
}

// Unchanged reports whether the two records carry identical guidance.
func (d *RecordDiff) Unchanged() bool { return len(d.Chunks) == 0 }

// CompareRecords diffs the rendered suggestion text of two stored records.
// It supports the re-scan workflow: scan a URL again later and see which
// findings appeared or went away.
func CompareRecords(base, head *StoredRecord) *RecordDiff {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(renderSuggestions(base), renderSuggestions(head), true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	chunks := make([]DiffChunk, 0)
	for _, d := range diffs {
		var chunkType string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			chunkType = "added"
		case diffmatchpatch.DiffDelete:
			chunkType = "removed"
		case diffmatchpatch.DiffEqual:
			continue
		}
		if strings.TrimSpace(d.Text) != "" {
			chunks = append(chunks, DiffChunk{Type: chunkType, Content: d.Text})
		}
	}

	return &RecordDiff{BaseID: base.ID, HeadID: head.ID, Chunks: chunks}
}

// renderSuggestions flattens a record's suggestion entries into one line per
// entry so the diff operates on stable, human-readable text.
func renderSuggestions(rec *StoredRecord) string {
	var b strings.Builder
	for _, entry := range rec.Suggestions.Violations {
		b.WriteString(entry.Problem)
		b.WriteString(" | ")
		b.WriteString(entry.Solution)
		b.WriteString(" | ")
		b.WriteString(entry.CodeExample)
		b.WriteString("\n")
	}
	return b.String()
}
