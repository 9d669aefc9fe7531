// Package pattern implements the cheapest extraction tier: fetch the landing
// page once and scan the raw markup with regular expressions. No DOM parsing,
// no sub-page crawling. The fetched markup is stored on the page context so
// later tiers avoid a duplicate round-trip.
package pattern

import (
	"context"
	"net/url"
	"regexp"

	"hermesx/internal/core/domain"
	"hermesx/internal/core/ports"
	"hermesx/internal/extract/emailaddr"
	"hermesx/internal/platform/logx"
)

// Patterns ordered by confidence: an address inside a mailto: target is
// near-certainly a contact address, a bare match may be anything.
var (
	mailtoRe     = regexp.MustCompile(`(?i)mailto:([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})`)
	plaintextRe  = regexp.MustCompile(`\b([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})\b`)
	urlencodedRe = regexp.MustCompile(`\b([a-zA-Z0-9._%+\-]+%40[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})\b`)
)

// Extractor is the tier-1 strategy.
type Extractor struct {
	fetcher ports.Fetcher
	logger  logx.Logger
}

// New creates the tier-1 extractor.
func New(fetcher ports.Fetcher, logger logx.Logger) *Extractor {
	return &Extractor{
		fetcher: fetcher,
		logger:  logger.With("tier", "pattern"),
	}
}

func (e *Extractor) Name() string { return "tier1-pattern" }

func (e *Extractor) Method() domain.Method { return domain.MethodTier1Regex }

// Extract fetches siteURL and scans the raw markup. The markup is kept on
// the page context even when no email validates, so the structural tier can
// reuse it.
func (e *Extractor) Extract(ctx context.Context, siteURL string, page *ports.Page) (string, error) {
	page.Fetched = true
	html, err := e.fetcher.Fetch(ctx, siteURL)
	if err != nil {
		return "", err
	}
	page.RawHTML = html

	scans := []struct {
		re     *regexp.Regexp
		label  string
		decode bool
	}{
		{mailtoRe, "mailto", false},
		{plaintextRe, "plaintext", false},
		{urlencodedRe, "urlencoded", true},
	}

	for _, scan := range scans {
		for _, m := range scan.re.FindAllStringSubmatch(html, -1) {
			raw := m[1]
			if scan.decode {
				decoded, err := url.QueryUnescape(raw)
				if err != nil {
					continue
				}
				raw = decoded
			}
			if email, ok := emailaddr.Normalize(raw); ok {
				e.logger.Debug("email found", "pattern", scan.label, "url", siteURL)
				return email, nil
			}
		}
	}

	return "", domain.ErrNoEmail
}
