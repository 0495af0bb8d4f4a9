// Package scanner loads pages in a headless browser, runs the axe-core audit
// engine against them and returns the structured violation report.
package scanner

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/webaxs/webaxs/internal/model"
)

// Result is the output of one page audit: the raw report plus the derived
// domain and the fresh unique id for this scan attempt.
type Result struct {
	Report   model.AuditReport
	Domain   string
	UniqueID string
}

// Scanner is the contract for auditing a single URL. Implementations own
// their browser lifecycle; callers bound individual audits with the context.
type Scanner interface {
	// Analyze audits rawURL and returns the structured report.
	Analyze(ctx context.Context, rawURL string) (*Result, error)

	// Close releases browser resources.
	Close() error
}

// Config holds the settings for the chromedp-backed scanner.
type Config struct {
	// AxeScriptURL is where the axe-core source is fetched from. The script
	// is downloaded once and injected into every audited page.
	AxeScriptURL string

	// NetworkIdleAfter is how long the network must stay quiet after
	// navigation before the audit runs.
	NetworkIdleAfter time.Duration

	// NavigateTimeout bounds a full page audit. Zero means no limit beyond
	// the caller's context.
	NavigateTimeout time.Duration

	// Headless controls browser visibility. Only set false for debugging.
	Headless bool
}

// DefaultConfig returns scanner defaults.
func DefaultConfig() Config {
	return Config{
		AxeScriptURL:     "https://cdnjs.cloudflare.com/ajax/libs/axe-core/4.10.2/axe.min.js",
		NetworkIdleAfter: 2 * time.Second,
		NavigateTimeout:  60 * time.Second,
		Headless:         true,
	}
}

// DeriveDomain extracts the URL authority (host, including port when set)
// from rawURL. Well-formed absolute URLs always yield a non-empty domain.
func DeriveDomain(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("url %q has no host", rawURL)
	}
	return u.Host, nil
}
