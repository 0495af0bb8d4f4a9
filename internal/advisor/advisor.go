// Package advisor turns raw accessibility violations into structured
// remediation suggestions using a chat-completion model, and provides the
// parser for the model's line-tagged reply format.
package advisor

import (
	"context"
	"time"

	"github.com/webaxs/webaxs/internal/model"
)

// Advisor is the contract for generating remediation suggestions from raw
// violations. Implementations may call external services; callers bound them
// with the context.
type Advisor interface {
	// Suggest produces a SuggestionSet for the violations found on url.
	Suggest(ctx context.Context, violations []model.Violation, url string) (*model.SuggestionSet, error)
}

// Config holds the settings for the OpenAI-backed advisor.
type Config struct {
	// Endpoint is the API base URL, e.g. "https://api.openai.com".
	Endpoint string
	APIKey   string
	Model    string

	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns the advisor defaults used when options are not set.
func DefaultConfig() Config {
	return Config{
		Endpoint:    "https://api.openai.com",
		Model:       "gpt-3.5-turbo",
		MaxTokens:   2048,
		Temperature: 0.7,
		Timeout:     60 * time.Second,
	}
}
