package server

import (
	"net/http"
	"strings"

	"github.com/webaxs/webaxs/internal/logging"
	"github.com/webaxs/webaxs/internal/model"
)

// handleAnalyzeWS streams batch outcomes over a websocket as they complete,
// so clients can show per-URL progress instead of waiting for the whole
// batch. URLs are passed as repeated "urls" query parameters (comma-joined
// values are also accepted).
func (s *Server) handleAnalyzeWS(w http.ResponseWriter, r *http.Request) {
	urls := splitURLParams(r.URL.Query()["urls"])

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	if len(urls) == 0 {
		_ = conn.WriteJSON(StatusResponse{
			Status:  "error",
			Message: "the 'urls' query parameter must be a non-empty list",
			Code:    "INVALID_INPUT",
		})
		return
	}

	s.logger.Info("started streaming batch", logging.Field{Key: "urls", Value: len(urls)})

	outcomes := make(chan model.BatchOutcome)
	go func() {
		defer close(outcomes)
		_ = s.orchestrator.RunBatchStream(r.Context(), urls, func(out model.BatchOutcome) {
			// The handler stops reading once the client goes away; the
			// request context unblocks this relay so the batch can unwind.
			select {
			case outcomes <- out:
			case <-r.Context().Done():
			}
		})
	}()

	processed := 0
	for out := range outcomes {
		processed++
		if err := conn.WriteJSON(out); err != nil {
			// Client went away; the batch context is tied to the request
			// and unwinds with it.
			s.logger.Warn("websocket write failed", logging.Field{Key: "error", Value: err.Error()})
			return
		}
	}

	_ = conn.WriteJSON(StatusResponse{Status: "success", Message: "analysis completed"})
	s.logger.Info("finished streaming batch", logging.Field{Key: "processed", Value: processed})
}

func splitURLParams(params []string) []string {
	var out []string
	for _, p := range params {
		for _, u := range strings.Split(p, ",") {
			if u = strings.TrimSpace(u); u != "" {
				out = append(out, u)
			}
		}
	}
	return out
}
