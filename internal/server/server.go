// Package server is the HTTP + WebSocket API surface: a thin caller of the
// batch orchestrator plus the history lookups.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/webaxs/webaxs/internal/app"
	"github.com/webaxs/webaxs/internal/logging"
	"github.com/webaxs/webaxs/internal/store"

	_ "github.com/webaxs/webaxs/docs/swagger" // swagger spec registration
)

// Server routes API requests to the orchestrator.
type Server struct {
	cfg          Config
	orchestrator *app.Orchestrator
	router       chi.Router
	upgrader     websocket.Upgrader
	logger       logging.Logger
}

// NewServer creates a Server around an already-wired orchestrator.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Orchestrator == nil {
		return nil, fmt.Errorf("orchestrator is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:          cfg,
		orchestrator: cfg.Orchestrator,
		router:       r,
		logger:       logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/analyze", s.optionsHandler("POST"))
	r.Options("/history", s.optionsHandler("GET"))
	r.Options("/history/compare", s.optionsHandler("GET"))
	r.Options("/history/domain/{domain}", s.optionsHandler("GET"))
	r.Options("/history/{recordID}", s.optionsHandler("GET"))

	// Batch audits
	r.Post("/analyze", s.handleAnalyze)
	r.Get("/ws/analyze", s.handleAnalyzeWS)

	// History
	r.Get("/history", s.handleHistory)
	r.Get("/history/compare", s.handleCompareRecords)
	r.Get("/history/domain/{domain}", s.handleDomainHistory)
	r.Get("/history/{recordID}", s.handleRecordDetail)

	// Interactive docs
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && r.Method == http.MethodPost {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // batches can take a while
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, StatusResponse{Status: "error", Message: msg})
}

// --- HTTP handlers ---

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("decoding analyze body", logging.Field{Key: "error", Value: err.Error()})
		// A well-formed document with the wrong shape for urls is the
		// same caller mistake as an empty list.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			writeJSON(w, http.StatusBadRequest, StatusResponse{
				Status:  "error",
				Message: "the 'urls' field must be a non-empty list",
				Code:    "INVALID_INPUT",
			})
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	summary, err := s.orchestrator.RunBatch(r.Context(), body.URLs)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			s.logger.Warn("rejecting analyze request: empty url list")
			writeJSON(w, http.StatusBadRequest, StatusResponse{
				Status:  "error",
				Message: "the 'urls' field must be a non-empty list",
				Code:    "INVALID_INPUT",
			})
			return
		}
		s.logger.Error("running batch", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("batch completed",
		logging.Field{Key: "urls", Value: len(body.URLs)},
		logging.Field{Key: "failed", Value: summary.Failed()})
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Status:  "success",
		Message: "analysis completed",
		Data:    summary.Outcomes,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.orchestrator.ListHistory(r.Context())
	if err != nil {
		s.logger.Warn("listing history", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("listed history", logging.Field{Key: "count", Value: len(records)})
	writeJSON(w, http.StatusOK, HistoryResponse{Status: "success", Data: records})
}

func (s *Server) handleRecordDetail(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")

	record, err := s.orchestrator.GetRecord(r.Context(), recordID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			s.logger.Warn("record not found", logging.Field{Key: "record_id", Value: recordID})
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		s.logger.Warn("getting record", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("got record", logging.Field{Key: "record_id", Value: recordID})
	writeJSON(w, http.StatusOK, RecordResponse{Status: "success", Data: record})
}

func (s *Server) handleDomainHistory(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")

	records, err := s.orchestrator.GetDomainHistory(r.Context(), domain)
	if err != nil {
		s.logger.Warn("listing domain history",
			logging.Field{Key: "domain", Value: domain},
			logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("listed domain history",
		logging.Field{Key: "domain", Value: domain},
		logging.Field{Key: "count", Value: len(records)})
	writeJSON(w, http.StatusOK, HistoryResponse{Status: "success", Data: records})
}

func (s *Server) handleCompareRecords(w http.ResponseWriter, r *http.Request) {
	baseID := r.URL.Query().Get("base")
	headID := r.URL.Query().Get("head")
	if baseID == "" || headID == "" {
		writeError(w, http.StatusBadRequest, "missing base or head query parameter")
		return
	}

	diff, err := s.orchestrator.CompareRecords(r.Context(), baseID, headID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		s.logger.Warn("comparing records", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("compared records",
		logging.Field{Key: "base", Value: baseID},
		logging.Field{Key: "head", Value: headID},
		logging.Field{Key: "chunks", Value: len(diff.Chunks)})
	writeJSON(w, http.StatusOK, CompareResponse{Status: "success", Data: diff})
}
