// Package render implements the tier-3 strategy: a full client-side render
// through a headless browser, re-scanned with the structural tier. Rendering
// is expensive, so a keyword heuristic over the raw markup gates it — a page
// with no trace of a JS framework will not render anything new.
package render

import (
	"context"
	"strings"

	"hermesx/internal/core/domain"
	"hermesx/internal/core/ports"
	"hermesx/internal/platform/logx"
)

// DefaultJSKeywords are the framework indicators that justify paying the
// rendering cost. Matched case-insensitively as substrings of the raw markup.
var DefaultJSKeywords = []string{
	"react",
	"vue",
	"angular",
	"next.js",
	"nuxt",
	"__next",
	"data-reactroot",
	"ng-version",
}

// Scanner re-runs the structural scan against rendered markup.
// Satisfied by *structural.Extractor.
type Scanner interface {
	ExtractFromHTML(ctx context.Context, siteURL, markup string) (string, error)
}

// Extractor is the tier-3 strategy.
type Extractor struct {
	enabled  bool
	keywords []string
	renderer ports.Renderer
	scanner  Scanner
	logger   logx.Logger
}

// Options configures the tier-3 extractor.
type Options struct {
	// Enabled is the global kill-switch for the rendering fallback.
	Enabled bool

	// Keywords override DefaultJSKeywords when non-empty.
	Keywords []string

	Renderer ports.Renderer
	Scanner  Scanner
	Logger   logx.Logger
}

// New creates the tier-3 extractor.
func New(opts Options) *Extractor {
	keywords := opts.Keywords
	if len(keywords) == 0 {
		keywords = DefaultJSKeywords
	}
	logger := opts.Logger
	if logger == nil {
		logger = logx.New()
	}
	return &Extractor{
		enabled:  opts.Enabled,
		keywords: keywords,
		renderer: opts.Renderer,
		scanner:  opts.Scanner,
		logger:   logger.With("tier", "render"),
	}
}

func (e *Extractor) Name() string { return "tier3-render" }

func (e *Extractor) Method() domain.Method { return domain.MethodTier3Render }

// Extract renders siteURL and scans the rendered markup. Disabled or gated
// invocations, and every rendering fault, resolve to "no email" — a render
// problem must never abort the record, let alone the run.
func (e *Extractor) Extract(ctx context.Context, siteURL string, page *ports.Page) (string, error) {
	if !e.enabled {
		return "", domain.ErrNoEmail
	}
	if page.RawHTML != "" && !e.jsHeavy(page.RawHTML) {
		e.logger.Debug("render skipped, no JS framework detected", "url", siteURL)
		return "", domain.ErrNoEmail
	}

	e.logger.Debug("rendering", "url", siteURL)
	markup, err := e.renderer.Render(ctx, siteURL)
	if err != nil {
		e.logger.Debug("render failed", "url", siteURL, "error", err.Error())
		return "", domain.ErrNoEmail
	}

	return e.scanner.ExtractFromHTML(ctx, siteURL, markup)
}

// jsHeavy reports whether markup carries any configured framework indicator.
func (e *Extractor) jsHeavy(markup string) bool {
	lower := strings.ToLower(markup)
	for _, kw := range e.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
