package cli

// This file contains the list command for displaying previous benchmark runs.

import (
	"fmt"
	"time"

	"github.com/perfgo/jsbench/history"
	"github.com/perfgo/jsbench/report"
	"github.com/urfave/cli/v2"
)

func (a *App) list(ctx *cli.Context) error {
	filterVM := ctx.String("vm")
	limit := ctx.Int("limit")

	historyEntries, err := history.LoadEntries(a.logger, ctx.String("results-dir"))
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	var filteredEntries []history.Entry
	for _, entry := range historyEntries {
		if filterVM == "" || entry.History.VM == filterVM {
			filteredEntries = append(filteredEntries, entry)
		}
	}

	if len(filteredEntries) == 0 {
		if filterVM != "" {
			fmt.Fprintf(a.out, "No runs found for VM: %s\n", filterVM)
		} else {
			fmt.Fprintln(a.out, "No runs found")
		}
		return nil
	}

	displayRuns := filteredEntries
	if limit > 0 && limit < len(displayRuns) {
		displayRuns = displayRuns[:limit]
	}

	fmt.Fprintf(a.out, "\n=== Runs (%d total) ===\n\n", len(filteredEntries))

	rows := make([][]string, 0, len(displayRuns))
	for _, entry := range displayRuns {
		h := entry.History

		status := "✓"
		if h.ExitCode != 0 {
			status = "✗"
		}

		row := []string{
			status,
			shortID(h.ID),
			h.Timestamp.Format("2006-01-02 15:04:05"),
			h.Duration.Round(time.Millisecond).String(),
			h.VM,
			h.Suite,
			string(h.Type),
		}
		if s := h.Summary; s != nil {
			row = append(row,
				fmt.Sprintf("%d/%d", s.Completed, s.TestCount),
				fmt.Sprintf("%d", s.Exceptions),
				fmt.Sprintf("%.4f", s.Totals.TotalWallSeconds),
				fmt.Sprintf("%d", s.Totals.PeakResidentKB),
			)
		} else {
			row = append(row, "-", "-", "-", "-")
		}
		commit := ""
		if h.Git != nil {
			commit = shortID(h.Git.Commit)
		}
		rows = append(rows, append(row, commit))
	}

	report.RenderTable(a.out,
		[]string{"", "ID", "Time", "Duration", "VM", "Suite", "Mode", "Completed", "Exceptions", "Wall (s)", "Peak (KB)", "Commit"},
		rows, nil)

	fmt.Fprintf(a.out, "\nView results: %s view <ID>\n", AppName)
	fmt.Fprintf(a.out, "View profile: %s view <ID> -- -top\n", AppName)

	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
