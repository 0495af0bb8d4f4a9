package app

import "time"

// Config contains the runtime options for the batch orchestrator. The
// concurrency cap is the only knob the pipeline itself requires; the
// timeouts bound the individual collaborator calls.
type Config struct {
	// MaxWorkers caps how many URLs are audited simultaneously.
	MaxWorkers int

	// Per-collaborator timeouts. Zero means no bound beyond the batch
	// context.
	ScanTimeout    time.Duration
	SuggestTimeout time.Duration
	StoreTimeout   time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxWorkers:     5,
		ScanTimeout:    90 * time.Second,
		SuggestTimeout: 60 * time.Second,
		StoreTimeout:   10 * time.Second,
	}
}
