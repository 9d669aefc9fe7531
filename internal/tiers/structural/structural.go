// Package structural implements the tier-2 strategy: an attribute-level DOM
// scan for mail links and obfuscated addresses, followed by a bounded
// same-site hop to likely contact pages. Candidate pages are never crawled
// further than that single hop.
package structural

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"hermesx/internal/core/domain"
	"hermesx/internal/core/ports"
	"hermesx/internal/extract/cfdecode"
	"hermesx/internal/extract/emailaddr"
	"hermesx/internal/platform/errors"
	"hermesx/internal/platform/logx"

	neturl "net/url"
)

const (
	protectionPath  = "/cdn-cgi/l/email-protection#"
	maxContactLinks = 3
)

var contactRe = regexp.MustCompile(`(?i)(contact|about|reach-us|get-in-touch)`)

// Extractor is the tier-2 strategy.
type Extractor struct {
	fetcher ports.Fetcher
	logger  logx.Logger
}

// New creates the tier-2 extractor.
func New(fetcher ports.Fetcher, logger logx.Logger) *Extractor {
	return &Extractor{
		fetcher: fetcher,
		logger:  logger.With("tier", "structural"),
	}
}

func (e *Extractor) Name() string { return "tier2-structural" }

func (e *Extractor) Method() domain.Method { return domain.MethodTier2Dom }

// Extract scans the landing page DOM, reusing markup a prior tier already
// fetched; it only fetches itself when the page context is empty.
func (e *Extractor) Extract(ctx context.Context, siteURL string, page *ports.Page) (string, error) {
	markup := page.RawHTML
	if markup == "" {
		fetched, err := e.fetcher.Fetch(ctx, siteURL)
		if err != nil {
			return "", err
		}
		page.RawHTML = fetched
		page.Fetched = true
		markup = fetched
	}
	return e.ExtractFromHTML(ctx, siteURL, markup)
}

// ExtractFromHTML runs the structural scan over the given markup: DOM scan
// first, then the single-hop contact-page crawl. The render tier reuses this
// entry point against rendered markup.
func (e *Extractor) ExtractFromHTML(ctx context.Context, siteURL, markup string) (string, error) {
	doc, err := parse(markup)
	if err != nil {
		return "", errors.Wrap(err, "parsing markup")
	}

	if email, ok := scanDocument(doc); ok {
		e.logger.Debug("email found on landing page", "url", siteURL)
		return email, nil
	}

	for _, candidate := range contactLinks(doc, siteURL) {
		e.logger.Debug("following contact page", "url", candidate)
		sub, err := e.fetcher.Fetch(ctx, candidate)
		if err != nil {
			continue
		}
		subDoc, err := parse(sub)
		if err != nil {
			continue
		}
		if email, ok := scanDocument(subDoc); ok {
			e.logger.Debug("email found on contact page", "url", candidate)
			return email, nil
		}
	}

	return "", domain.ErrNoEmail
}

// parse builds a goquery document from raw markup.
func parse(markup string) (*goquery.Document, error) {
	node, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(node), nil
}

// scanDocument looks for a validated address in a parsed tree. Checks, in
// order: mailto anchors, data-cfemail attributes, and Cloudflare
// email-protection redirect links.
func scanDocument(doc *goquery.Document) (string, bool) {
	var found string

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if !strings.HasPrefix(strings.ToLower(href), "mailto:") {
			return true
		}
		raw := href[len("mailto:"):]
		if i := strings.IndexByte(raw, '?'); i >= 0 {
			raw = raw[:i] // strip ?subject=... params
		}
		if email, ok := emailaddr.Normalize(raw); ok {
			found = email
			return false
		}
		return true
	})
	if found != "" {
		return found, true
	}

	doc.Find("[data-cfemail]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		encoded, _ := s.Attr("data-cfemail")
		decoded, ok := cfdecode.Decode(encoded)
		if !ok {
			return true
		}
		if email, ok := emailaddr.Normalize(decoded); ok {
			found = email
			return false
		}
		return true
	})
	if found != "" {
		return found, true
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		i := strings.Index(href, protectionPath)
		if i < 0 {
			return true
		}
		decoded, ok := cfdecode.Decode(href[i+len(protectionPath):])
		if !ok {
			return true
		}
		if email, ok := emailaddr.Normalize(decoded); ok {
			found = email
			return false
		}
		return true
	})

	return found, found != ""
}

// contactLinks returns up to three same-host links that look like contact or
// about pages, in document order, with "contact" links sorted ahead of the
// rest.
func contactLinks(doc *goquery.Document, baseURL string) []string {
	base, err := neturl.Parse(baseURL)
	if err != nil {
		return nil
	}

	var candidates []string
	seen := make(map[string]bool)

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		text := strings.ToLower(strings.TrimSpace(s.Text()))

		if !contactRe.MatchString(text) && !contactRe.MatchString(href) {
			return true
		}

		ref, err := neturl.Parse(href)
		if err != nil {
			return true
		}
		full := base.ResolveReference(ref)
		if full.Host != base.Host {
			return true // same-domain hop only
		}

		u := full.String()
		if !seen[u] {
			seen[u] = true
			candidates = append(candidates, u)
			if len(candidates) >= maxContactLinks {
				return false
			}
		}
		return true
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		ci := strings.Contains(strings.ToLower(candidates[i]), "contact")
		cj := strings.Contains(strings.ToLower(candidates[j]), "contact")
		return ci && !cj
	})
	return candidates
}
