// internal/adapters/output/table.go
package output

import (
	"fmt"

	"github.com/pterm/pterm"

	"hermesx/internal/core/domain"
	"hermesx/internal/core/usecases"
)

// RenderHeader prints the run banner with the effective settings.
func RenderHeader(version string, records, workers int, renderEnabled bool) {
	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("HermesX - Contact Email Enrichment")

	pterm.Println()
	pterm.Printf("Version: %s  Records: %d  Workers: %d  Render tier: %s\n\n",
		pterm.Cyan(version),
		records,
		workers,
		onOff(renderEnabled),
	)
}

// RenderSummary prints the per-status outcome table for one run.
func RenderSummary(sum usecases.Summary) {
	pterm.Println()
	pterm.DefaultSection.Println("Enrichment Summary")

	rows := pterm.TableData{
		{"OUTCOME", "COUNT"},
		{domain.StatusTier1Success.String(), count(sum, domain.StatusTier1Success)},
		{domain.StatusTier2Success.String(), count(sum, domain.StatusTier2Success)},
		{domain.StatusTier3Success.String(), count(sum, domain.StatusTier3Success)},
		{domain.StatusNoWebsite.String(), count(sum, domain.StatusNoWebsite)},
		{domain.StatusFailed.String(), count(sum, domain.StatusFailed)},
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		pterm.Println(pterm.Red("failed to render summary table: " + err.Error()))
		return
	}

	pterm.Println()
	pterm.Printf("Total: %d  Emails found: %s\n",
		sum.Total,
		pterm.Green(fmt.Sprintf("%d", sum.Found())),
	)
}

func count(sum usecases.Summary, s domain.Status) string {
	return fmt.Sprintf("%d", sum.ByStatus[s])
}

func onOff(b bool) string {
	if b {
		return pterm.Green("on")
	}
	return pterm.Gray("off")
}
