// cmd/hermesx/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hermesx/internal/adapters/output"
	"hermesx/internal/core/ports"
	"hermesx/internal/core/usecases"
	"hermesx/internal/platform/config"
	"hermesx/internal/platform/logx"
	"hermesx/internal/platform/stealth"
	"hermesx/internal/tiers/pattern"
	"hermesx/internal/tiers/render"
	"hermesx/internal/tiers/structural"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// 1. Load centralized config (defaults -> file -> env -> flags)
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		os.Exit(2)
	}

	if cfg.PrintVersion {
		fmt.Printf("hermesx %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	// 2. Shared logger
	logger := logx.New()

	logger.Info("HermesX starting",
		"version", version,
		"input", cfg.IO.Input,
		"workers", cfg.Workers,
		"render", cfg.Render.Enabled,
	)

	// 3. Context and signals for clean shutdown
	ctx, cancel := rootContextWithSignals()
	defer cancel()

	// 4. Load the collector's records
	records, err := output.LoadBusinesses(cfg.IO.Input)
	if err != nil {
		logger.Err(err, "phase", "input")
		os.Exit(2)
	}
	if len(records) == 0 {
		logger.Warn("input file holds no records", "input", cfg.IO.Input)
		return
	}

	if !cfg.IO.NoTable {
		output.RenderHeader(version, len(records), cfg.Workers, cfg.Render.Enabled)
	}

	// 5. Build the escalation chain over one shared stealth transport
	extractors := buildExtractors(cfg, logger)

	// 6. Orchestrate
	enricher, err := usecases.NewEnricher(usecases.Options{
		Extractors: extractors,
		Workers:    cfg.Workers,
		Logger:     logger,
	})
	if err != nil {
		logger.Err(err, "phase", "setup")
		os.Exit(2)
	}

	start := time.Now()
	sum := enricher.EnrichAll(ctx, records)
	elapsed := time.Since(start)

	// 7. Write the annotated records; partial results are still results
	if err := output.WriteBusinesses(cfg.IO.Output, records); err != nil {
		logger.Err(err, "phase", "output")
		os.Exit(1)
	}

	// 8. Summary
	if !cfg.IO.NoTable {
		output.RenderSummary(sum)
	}

	logger.Info("HermesX finished",
		"elapsed_ms", elapsed.Milliseconds(),
		"total", sum.Total,
		"found", sum.Found(),
		"output", cfg.IO.Output,
	)

	if ctx.Err() != nil {
		// Interrupted or timed out mid-run; the output above holds whatever
		// completed before cancellation.
		os.Exit(1)
	}
}

// buildExtractors assembles the tier chain, cheapest first.
func buildExtractors(cfg config.Config, logger logx.Logger) []ports.Extractor {
	client := stealth.New(cfg.HTTP.ClientConfig(), logger)

	tier1 := pattern.New(client, logger)
	tier2 := structural.New(client, logger)

	browser := render.NewBrowser(render.BrowserConfig{
		NavTimeout: cfg.Render.NavTimeout(),
		Settle:     cfg.Render.Settle(),
	}, logger)

	tier3 := render.New(render.Options{
		Enabled:  cfg.Render.Enabled,
		Keywords: cfg.Render.JSKeywords,
		Renderer: browser,
		Scanner:  tier2,
		Logger:   logger,
	})

	return []ports.Extractor{tier1, tier2, tier3}
}

// rootContextWithSignals creates a root context with signal cancellation.
// Returns a context and cancel function that cleans up all resources.
func rootContextWithSignals() (context.Context, context.CancelFunc) {
	base, baseCancel := context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	cleanupCancel := func() {
		signal.Stop(ch)
		close(ch)
		baseCancel()
	}

	return base, cleanupCancel
}
