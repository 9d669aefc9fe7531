// internal/core/usecases/enricher.go
package usecases

import (
	"context"
	"sync"

	"hermesx/internal/core/domain"
	"hermesx/internal/core/ports"
	"hermesx/internal/platform/logx"
	"hermesx/internal/platform/workerpool"
)

// progressEvery controls how often the orchestrator logs batch progress.
const progressEvery = 10

// Enricher runs the escalation chain over a batch of records on a bounded
// worker pool. Records without a website are stamped immediately and never
// touch the network; everything else runs Tier 1 -> 2 -> 3 in order,
// short-circuiting on the first validated email.
type Enricher struct {
	extractors []ports.Extractor
	pool       *workerpool.Pool
	logger     logx.Logger

	mu        sync.Mutex
	completed int
	counts    map[domain.Status]int
}

// Options configures the enricher.
type Options struct {
	// Extractors is the escalation chain, cheapest first. Required.
	Extractors []ports.Extractor

	// Workers is the pool width. Defaults to 5.
	Workers int

	Logger logx.Logger
}

// Summary aggregates per-status counts across one run. The per-record
// outcome stamped on each Business stays authoritative; the summary exists
// for reporting only.
type Summary struct {
	Total     int
	ByStatus  map[domain.Status]int
	Processed int // records that went through the chain
}

// Found returns how many records ended with a validated email.
func (s Summary) Found() int {
	return s.ByStatus[domain.StatusTier1Success] +
		s.ByStatus[domain.StatusTier2Success] +
		s.ByStatus[domain.StatusTier3Success]
}

// NewEnricher creates an enricher.
func NewEnricher(opts Options) (*Enricher, error) {
	if len(opts.Extractors) == 0 {
		return nil, domain.ErrNoExtractors
	}
	if opts.Workers <= 0 {
		opts.Workers = 5
	}
	logger := opts.Logger
	if logger == nil {
		logger = logx.New()
	}

	return &Enricher{
		extractors: opts.Extractors,
		pool:       workerpool.New(opts.Workers, logger),
		logger:     logger.With("component", "enricher"),
		counts:     make(map[domain.Status]int),
	}, nil
}

// EnrichAll processes every record in place and returns the run summary.
// Record order is preserved: the slice is never reordered, only annotated.
// A failure (or panic) inside one record's pipeline marks that record Failed
// and never affects its siblings.
func (e *Enricher) EnrichAll(ctx context.Context, records []*domain.Business) Summary {
	var withSite []*domain.Business
	for _, b := range records {
		if b.HasWebsite() {
			withSite = append(withSite, b)
			continue
		}
		b.MarkNoWebsite()
		e.count(domain.StatusNoWebsite)
	}

	if len(withSite) == 0 {
		e.logger.Info("no records carry website URLs, nothing to enrich")
		return e.summary(len(records))
	}

	e.logger.Info("enrichment starting",
		"records", len(records),
		"with_website", len(withSite),
		"workers", e.pool.Workers(),
		"tiers", len(e.extractors),
	)

	tasks := make([]workerpool.Task, len(withSite))
	for i, b := range withSite {
		tasks[i] = &enrichTask{enricher: e, business: b, batch: len(withSite)}
	}

	results := e.pool.Run(ctx, tasks)

	// A panic recovered by the pool leaves the record unstamped; convert it
	// to a Failed outcome for that record only.
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		task := r.Task.(*enrichTask)
		e.logger.Warn("record pipeline crashed",
			"record", task.Name(),
			"error", r.Err.Error(),
		)
		if !task.business.Status.IsTerminal() {
			task.business.MarkFailed()
			e.count(domain.StatusFailed)
		}
	}

	sum := e.summary(len(records))
	e.logSummary(sum)
	return sum
}

// processOne runs the escalation chain for a single record. Tier errors only
// end that tier; the chain continues until a tier succeeds or all decline.
func (e *Enricher) processOne(ctx context.Context, b *domain.Business) {
	page := &ports.Page{}

	for _, ex := range e.extractors {
		email, err := ex.Extract(ctx, b.Website, page)
		if err != nil {
			e.logger.Debug("tier declined",
				"tier", ex.Name(),
				"record", b.Name,
				"error", err.Error(),
			)
			continue
		}
		if email != "" {
			b.MarkFound(email, ex.Method())
			e.count(b.Status)
			return
		}
	}

	b.MarkFailed()
	e.count(domain.StatusFailed)
}

func (e *Enricher) count(s domain.Status) {
	e.mu.Lock()
	e.counts[s]++
	e.mu.Unlock()
}

func (e *Enricher) progress(batch int) {
	e.mu.Lock()
	e.completed++
	done := e.completed
	e.mu.Unlock()

	if done%progressEvery == 0 || done == batch {
		e.logger.Info("enrichment progress", "done", done, "of", batch)
	}
}

func (e *Enricher) summary(total int) Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	byStatus := make(map[domain.Status]int, len(e.counts))
	processed := 0
	for s, n := range e.counts {
		byStatus[s] = n
		if s != domain.StatusNoWebsite {
			processed += n
		}
	}
	return Summary{Total: total, ByStatus: byStatus, Processed: processed}
}

func (e *Enricher) logSummary(s Summary) {
	e.logger.Info("enrichment completed",
		"total", s.Total,
		"tier1", s.ByStatus[domain.StatusTier1Success],
		"tier2", s.ByStatus[domain.StatusTier2Success],
		"tier3", s.ByStatus[domain.StatusTier3Success],
		"no_website", s.ByStatus[domain.StatusNoWebsite],
		"failed", s.ByStatus[domain.StatusFailed],
		"found", s.Found(),
	)
}
