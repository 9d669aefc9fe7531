// internal/tiers/render/browser.go
package render

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"hermesx/internal/platform/errors"
	"hermesx/internal/platform/logx"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Browser renders pages with an isolated headless Chrome instance per call.
// The instance is torn down on every exit path; a crashed or hung render
// must not leak a browser process under sustained concurrent load.
type Browser struct {
	navTimeout time.Duration
	settle     time.Duration
	logger     logx.Logger
}

// BrowserConfig holds the render timings.
type BrowserConfig struct {
	// NavTimeout bounds navigation plus the wait for document readiness.
	// Default: 15s.
	NavTimeout time.Duration

	// Settle is the fixed interval granted to client-side rendering after
	// the document is ready. Default: 3s.
	Settle time.Duration
}

// NewBrowser creates a chromedp-backed renderer.
func NewBrowser(cfg BrowserConfig, logger logx.Logger) *Browser {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 15 * time.Second
	}
	if cfg.Settle <= 0 {
		cfg.Settle = 3 * time.Second
	}
	return &Browser{
		navTimeout: cfg.NavTimeout,
		settle:     cfg.Settle,
		logger:     logger.With("component", "browser"),
	}
}

// Render navigates to rawURL, waits for readiness plus the settle interval,
// and returns the rendered markup.
func (b *Browser) Render(ctx context.Context, rawURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("lang", "en-US"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(browserUserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	// Hard ceiling over navigation, settle, and capture together.
	browserCtx, cancel := context.WithTimeout(browserCtx, b.navTimeout+b.settle+5*time.Second)
	defer cancel()

	start := time.Now()
	var markup string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(b.settle),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	)
	if err != nil {
		return "", errors.Wrap(errors.ErrRenderFailed, err.Error())
	}

	b.logger.Debug("rendered",
		"url", rawURL,
		"bytes", len(markup),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return markup, nil
}
