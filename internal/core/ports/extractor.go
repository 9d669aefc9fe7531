// internal/core/ports/extractor.go
package ports

import (
	"context"

	"hermesx/internal/core/domain"
)

// Page is the per-record transient fetch context. It carries the raw markup
// fetched by the cheapest tier forward so later tiers avoid a duplicate
// round-trip. Task-local: never shared across records.
type Page struct {
	// RawHTML is the markup of the record's landing page, if any tier
	// fetched it. Empty means no fetch succeeded yet.
	RawHTML string

	// Fetched is true once a fetch was attempted, even if it failed.
	// Distinguishes "not tried" from "tried and got nothing".
	Fetched bool
}

// Extractor is one strategy in the escalation chain, ordered from cheapest
// and least certain to most expensive and most certain. Implementations must
// only return emails that already passed the validator.
type Extractor interface {
	// Name returns the unique strategy name (e.g. "tier1-pattern").
	Name() string

	// Method identifies the extraction method for outcome stamping.
	Method() domain.Method

	// Extract attempts to find a contact email for siteURL. The page context
	// is shared along the chain of one record; implementations may read the
	// markup a prior tier stored and may store markup they fetch themselves.
	// Returns domain.ErrNoEmail (or any other error) when nothing was found;
	// errors never abort the chain, only this strategy.
	Extract(ctx context.Context, siteURL string, page *Page) (string, error)
}

// Fetcher issues a single stealth GET and returns the response body.
// Implemented by platform/stealth; faked in tier tests.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Renderer produces fully client-side-rendered markup for a URL.
// Implemented by the headless browser adapter; faked in tier tests.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}
