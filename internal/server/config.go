package server

import (
	"github.com/webaxs/webaxs/internal/app"
	"github.com/webaxs/webaxs/internal/logging"
)

type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string

	// Orchestrator is the batch pipeline the server fronts. Required.
	Orchestrator *app.Orchestrator

	// Logger is optional; a stdout logger is used when nil.
	Logger logging.Logger
}
