// internal/tiers/structural/structural_test.go
package structural

import (
	"context"
	"testing"

	"hermesx/internal/core/domain"
	"hermesx/internal/core/ports"
	"hermesx/internal/platform/errors"
	"hermesx/internal/platform/logx"
	"hermesx/internal/testutil"
)

// mapFetcher serves canned bodies per URL and records every fetch.
type mapFetcher struct {
	pages map[string]string
	calls []string
}

func (f *mapFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	body, ok := f.pages[url]
	if !ok {
		return "", errors.ErrNoContent
	}
	return body, nil
}

func newExtractor(f ports.Fetcher) *Extractor {
	return New(f, logx.NewSilent())
}

func TestExtractMailtoAnchor(t *testing.T) {
	f := &mapFetcher{}
	page := &ports.Page{RawHTML: `<html><body><a href="mailto:info@acme.com">mail</a></body></html>`}
	email, err := newExtractor(f).Extract(context.Background(), "https://acme.com", page)

	testutil.AssertNoError(t, err, "extract")
	testutil.AssertEqual(t, email, "info@acme.com", "mailto anchor")
	testutil.AssertEqual(t, len(f.calls), 0, "markup reused, no fetch")
}

func TestExtractMailtoStripsParams(t *testing.T) {
	f := &mapFetcher{}
	page := &ports.Page{RawHTML: `<a href="mailto:info@acme.com?subject=Hello&body=Hi">mail</a>`}
	email, err := newExtractor(f).Extract(context.Background(), "https://acme.com", page)

	testutil.AssertNoError(t, err, "extract")
	testutil.AssertEqual(t, email, "info@acme.com", "query params stripped")
}

func TestExtractCFEmailAttribute(t *testing.T) {
	// "412001236f222e" XOR-decodes to a@b.co.
	f := &mapFetcher{}
	page := &ports.Page{RawHTML: `<span data-cfemail="412001236f222e">[protected]</span>`}
	email, err := newExtractor(f).Extract(context.Background(), "https://acme.com", page)

	testutil.AssertNoError(t, err, "extract")
	testutil.AssertEqual(t, email, "a@b.co", "data-cfemail decoded")
}

func TestExtractProtectionLink(t *testing.T) {
	f := &mapFetcher{}
	page := &ports.Page{RawHTML: `<a href="/cdn-cgi/l/email-protection#412001236f222e">email</a>`}
	email, err := newExtractor(f).Extract(context.Background(), "https://acme.com", page)

	testutil.AssertNoError(t, err, "extract")
	testutil.AssertEqual(t, email, "a@b.co", "protection link decoded")
}

func TestExtractFollowsContactPage(t *testing.T) {
	landing := `<html><body>
		<a href="/about">About</a>
		<a href="/contact">Contact</a>
	</body></html>`
	f := &mapFetcher{pages: map[string]string{
		"https://acme.com/about":   `<p>our story</p>`,
		"https://acme.com/contact": `<a href="mailto:hello@acme.com">write</a>`,
	}}

	page := &ports.Page{RawHTML: landing}
	email, err := newExtractor(f).Extract(context.Background(), "https://acme.com", page)

	testutil.AssertNoError(t, err, "extract")
	testutil.AssertEqual(t, email, "hello@acme.com", "email found one hop away")
	// "contact" candidates are tried before other matches.
	testutil.AssertEqual(t, f.calls[0], "https://acme.com/contact", "contact page preferred")
}

func TestExtractContactHopIsCapped(t *testing.T) {
	landing := `<html><body>
		<a href="/contact-1">Contact</a>
		<a href="/contact-2">Contact</a>
		<a href="/contact-3">Contact</a>
		<a href="/contact-4">Contact</a>
	</body></html>`
	f := &mapFetcher{pages: map[string]string{}}

	page := &ports.Page{RawHTML: landing}
	_, err := newExtractor(f).Extract(context.Background(), "https://acme.com", page)

	testutil.AssertTrue(t, errors.Is(err, domain.ErrNoEmail), "no email anywhere")
	testutil.AssertEqual(t, len(f.calls), maxContactLinks, "candidate fetches capped")
}

func TestExtractContactHopStaysOnHost(t *testing.T) {
	landing := `<a href="https://other.example.net/contact">Contact</a>`
	f := &mapFetcher{pages: map[string]string{}}

	page := &ports.Page{RawHTML: landing}
	_, err := newExtractor(f).Extract(context.Background(), "https://acme.com", page)

	testutil.AssertTrue(t, errors.Is(err, domain.ErrNoEmail), "no email")
	testutil.AssertEqual(t, len(f.calls), 0, "cross-host candidate never fetched")
}

func TestExtractContactPageIsNotCrawledFurther(t *testing.T) {
	// The contact page links to yet another contact-looking page; the scan
	// stops after the first hop.
	f := &mapFetcher{pages: map[string]string{
		"https://acme.com/contact": `<a href="/contact/deeper">Contact</a>`,
	}}
	page := &ports.Page{RawHTML: `<a href="/contact">Contact</a>`}
	_, err := newExtractor(f).Extract(context.Background(), "https://acme.com", page)

	testutil.AssertTrue(t, errors.Is(err, domain.ErrNoEmail), "no email")
	testutil.AssertEqual(t, len(f.calls), 1, "single hop only")
}

func TestExtractFetchesWhenPageEmpty(t *testing.T) {
	f := &mapFetcher{pages: map[string]string{
		"https://acme.com": `<a href="mailto:info@acme.com">mail</a>`,
	}}
	page := &ports.Page{}
	email, err := newExtractor(f).Extract(context.Background(), "https://acme.com", page)

	testutil.AssertNoError(t, err, "extract")
	testutil.AssertEqual(t, email, "info@acme.com", "fetched and scanned")
	testutil.AssertEqual(t, page.RawHTML, f.pages["https://acme.com"], "markup stored for later tiers")
}

func TestExtractFetchErrorPropagates(t *testing.T) {
	f := &mapFetcher{}
	_, err := newExtractor(f).Extract(context.Background(), "https://acme.com", &ports.Page{})

	testutil.AssertTrue(t, errors.Is(err, errors.ErrNoContent), "fetch error propagated")
}

func TestExtractCandidateFetchFailureContinues(t *testing.T) {
	landing := `<html><body>
		<a href="/contact">Contact</a>
		<a href="/about">About</a>
	</body></html>`
	f := &mapFetcher{pages: map[string]string{
		// /contact missing on purpose; /about carries the address.
		"https://acme.com/about": `<a href="mailto:info@acme.com">mail</a>`,
	}}

	page := &ports.Page{RawHTML: landing}
	email, err := newExtractor(f).Extract(context.Background(), "https://acme.com", page)

	testutil.AssertNoError(t, err, "extract")
	testutil.AssertEqual(t, email, "info@acme.com", "next candidate tried after fetch failure")
}
