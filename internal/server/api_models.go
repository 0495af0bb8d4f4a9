package server

import (
	"github.com/webaxs/webaxs/internal/model"
	"github.com/webaxs/webaxs/internal/store"
)

// AnalyzeRequest contains the URLs to audit in one batch.
type AnalyzeRequest struct {
	URLs []string `json:"urls" example:"https://example.com,https://example.org"`
}

// AnalyzeResponse wraps the per-URL outcomes of one batch.
type AnalyzeResponse struct {
	Status  string               `json:"status" example:"success"`
	Message string               `json:"message" example:"analysis completed"`
	Data    []model.BatchOutcome `json:"data"`
}

// HistoryResponse wraps record summaries for the history listings.
type HistoryResponse struct {
	Status string                `json:"status" example:"success"`
	Data   []store.RecordSummary `json:"data"`
}

// RecordResponse wraps one full stored record.
type RecordResponse struct {
	Status string              `json:"status" example:"success"`
	Data   *store.StoredRecord `json:"data"`
}

// CompareResponse wraps the suggestion diff between two records.
type CompareResponse struct {
	Status string            `json:"status" example:"success"`
	Data   *store.RecordDiff `json:"data"`
}

// StatusResponse is a uniform status/error payload.
type StatusResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message" example:"record not found"`
	Code    string `json:"code,omitempty" example:"INVALID_INPUT"`
}
