// internal/core/domain/business.go
package domain

import (
	"net/url"
	"strings"
	"time"
)

// Business is one scraped listing handed over by the upstream collector.
// Everything except the enrichment fields is immutable input; the enrichment
// fields are write-once per run, stamped by the orchestrator.
type Business struct {
	Name        string    `json:"name"`
	Link        string    `json:"link"`
	Phone       string    `json:"phone,omitempty"`
	Website     string    `json:"website,omitempty"`
	Address     string    `json:"address,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
	Reviews     int       `json:"reviews,omitempty"`
	Category    string    `json:"category,omitempty"`
	QuerySource string    `json:"query_source,omitempty"`
	ScrapedAt   time.Time `json:"scraped_at,omitempty"`

	// Enrichment outcome. Unset fields stay absent in serialized output.
	Email      string    `json:"email,omitempty"`
	Status     Status    `json:"enrichment_status,omitempty"`
	Method     Method    `json:"enrichment_method,omitempty"`
	EnrichedAt time.Time `json:"enriched_at,omitzero"`
}

// HasWebsite reports whether the record carries a usable website URL.
func (b *Business) HasWebsite() bool {
	return strings.TrimSpace(b.Website) != ""
}

// MarkFound stamps a successful outcome. The first tier to succeed wins;
// later calls are ignored so the outcome stays write-once.
func (b *Business) MarkFound(email string, method Method) {
	if b.Status.IsTerminal() {
		return
	}
	b.Email = email
	b.Status = method.SuccessStatus()
	b.Method = method
	b.EnrichedAt = time.Now().UTC()
}

// MarkFailed stamps the record as exhausted without a validated email.
func (b *Business) MarkFailed() {
	if b.Status.IsTerminal() {
		return
	}
	b.Status = StatusFailed
	b.EnrichedAt = time.Now().UTC()
}

// MarkNoWebsite stamps the record as unprocessable. Never touches the network.
func (b *Business) MarkNoWebsite() {
	if b.Status.IsTerminal() {
		return
	}
	b.Status = StatusNoWebsite
}

// Origin returns the scheme+host of the record's website, the unit used for
// request spacing. Empty when the URL is absent or unparseable.
func Origin(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
