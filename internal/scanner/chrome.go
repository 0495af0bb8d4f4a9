package scanner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/webaxs/webaxs/internal/logging"
	"github.com/webaxs/webaxs/internal/model"
)

// ChromeScanner audits pages through a shared headless Chrome instance.
// Each Analyze call opens its own tab, so the scanner is safe for
// concurrent use.
type ChromeScanner struct {
	cfg    Config
	logger logging.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc

	axeMu  sync.Mutex
	axeSrc string
}

var _ Scanner = (*ChromeScanner)(nil)

// NewChromeScanner prepares a browser allocator with the given config. The
// browser process itself starts lazily on the first audit.
func NewChromeScanner(cfg Config, logger logging.Logger) (*ChromeScanner, error) {
	def := DefaultConfig()
	if cfg.AxeScriptURL == "" {
		cfg.AxeScriptURL = def.AxeScriptURL
	}
	if cfg.NetworkIdleAfter == 0 {
		cfg.NetworkIdleAfter = def.NetworkIdleAfter
	}

	opts := append([]chromedp.ExecAllocatorOption{},
		chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromeScanner{
		cfg:         cfg,
		logger:      logger,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}, nil
}

// Analyze navigates to rawURL in a fresh tab, waits for the network to go
// idle, injects axe-core and returns its report enriched with document
// metadata. The domain is derived before any browser work so malformed URLs
// fail fast.
func (s *ChromeScanner) Analyze(ctx context.Context, rawURL string) (*Result, error) {
	domain, err := DeriveDomain(rawURL)
	if err != nil {
		return nil, err
	}

	axeSrc, err := s.axeSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("load axe-core: %w", err)
	}

	tabCtx, cancelTab := chromedp.NewContext(s.allocCtx)
	defer cancelTab()
	if s.cfg.NavigateTimeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, s.cfg.NavigateTimeout)
		defer cancel()
	}
	// Propagate caller cancellation into the tab context.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	idleCh := waitNetworkIdle(tabCtx, s.cfg.NetworkIdleAfter)

	if err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(rawURL),
	); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", rawURL, err)
	}

	select {
	case <-idleCh:
	case <-tabCtx.Done():
		return nil, fmt.Errorf("waiting for network idle on %s: %w", rawURL, tabCtx.Err())
	}

	var report model.AuditReport
	var pageHTML string
	if err := chromedp.Run(tabCtx,
		chromedp.Evaluate(axeSrc, nil),
		chromedp.Evaluate(`axe.run(document)`, &report, awaitPromise),
		chromedp.OuterHTML("html", &pageHTML),
	); err != nil {
		return nil, fmt.Errorf("run accessibility audit on %s: %w", rawURL, err)
	}

	if meta, err := extractDocumentMeta(pageHTML); err != nil {
		if s.logger != nil {
			s.logger.Warn("extracting document metadata",
				logging.Field{Key: "url", Value: rawURL},
				logging.Field{Key: "error", Value: err.Error()})
		}
	} else {
		report["document"] = meta
	}

	res := &Result{
		Report:   report,
		Domain:   domain,
		UniqueID: uuid.New().String(),
	}

	if s.logger != nil {
		s.logger.Info("audited page",
			logging.Field{Key: "url", Value: rawURL},
			logging.Field{Key: "domain", Value: domain},
			logging.Field{Key: "violations", Value: len(report.Violations())})
	}

	return res, nil
}

// Close shuts down the shared browser instance.
func (s *ChromeScanner) Close() error {
	s.allocCancel()
	return nil
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// axeSource downloads the axe-core script and caches it for the lifetime of
// the scanner. Only a successful download is cached; a failed fetch is
// retried on the next audit.
func (s *ChromeScanner) axeSource(ctx context.Context) (string, error) {
	s.axeMu.Lock()
	defer s.axeMu.Unlock()

	if s.axeSrc != "" {
		return s.axeSrc, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.AxeScriptURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", s.cfg.AxeScriptURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	s.axeSrc = string(body)
	return s.axeSrc, nil
}

// waitNetworkIdle returns a channel that closes once no requests have been
// in flight for idleAfter.
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) chan struct{} {
	idleChan := make(chan struct{})
	var activeReqs int32
	var timer *time.Timer
	var timerMutex sync.Mutex
	var once sync.Once

	startTimer := func() {
		timerMutex.Lock()
		defer timerMutex.Unlock()

		if timer != nil {
			timer.Stop()
		}

		timer = time.AfterFunc(idleAfter, func() {
			if atomic.LoadInt32(&activeReqs) == 0 {
				once.Do(func() {
					close(idleChan)
				})
			}
		})
	}

	// Pages that issue no requests at all still go idle.
	startTimer()

	chromedp.ListenTarget(ctx,
		func(ev any) {
			switch ev.(type) {
			case *network.EventRequestWillBeSent:
				atomic.AddInt32(&activeReqs, 1)
			case *network.EventLoadingFinished, *network.EventLoadingFailed:
				if atomic.AddInt32(&activeReqs, -1) == 0 {
					startTimer()
				}
			}
		})

	return idleChan
}
