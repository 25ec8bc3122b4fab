package cli

// This file contains the view command for displaying benchmark results from history.

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/perfgo/jsbench/history"
	"github.com/perfgo/jsbench/model"
	"github.com/perfgo/jsbench/report"
	"github.com/urfave/cli/v2"
)

func removeFirstDashDash(in []string) []string {
	if len(in) > 0 && in[0] == "--" {
		return in[1:]
	}
	return in
}

func parseViewArgs(in []string) (idArg string, pprofArgs []string) {
	if len(in) == 0 {
		return "0", nil
	}

	// If first arg is "--", use default "0" and rest are pprof args
	if in[0] == "--" {
		return "0", in[1:]
	}

	// A negative index is "-" followed by only digits (e.g. "-1"), anything
	// else starting with "-" is a pprof flag (e.g. "-top", "-http=:8080")
	if len(in[0]) > 1 && in[0][0] == '-' {
		if _, err := strconv.ParseInt(in[0], 10, 64); err != nil {
			return "0", in
		}
	}

	return in[0], removeFirstDashDash(in[1:])
}

func (a *App) view(ctx *cli.Context) error {
	arg, pprofArgs := parseViewArgs(ctx.Args().Slice())

	historyEntries, err := history.LoadEntries(a.logger, ctx.String("results-dir"))
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	entry, err := history.Find(historyEntries, arg)
	if err != nil {
		return err
	}

	return a.displayHistoryEntry(entry, pprofArgs)
}

func (a *App) displayHistoryEntry(entry *history.Entry, pprofArgs []string) error {
	h := entry.History

	fmt.Fprintf(a.out, "=== Run: %s ===\n", shortID(h.ID))
	fmt.Fprintf(a.out, "Time: %s\n", h.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(a.out, "Duration: %s\n", h.Duration)
	fmt.Fprintf(a.out, "Exit Code: %d\n", h.ExitCode)
	if h.Command != "" {
		fmt.Fprintf(a.out, "Command: %s\n", h.Command)
	}
	if h.WorkDir != "" {
		fmt.Fprintf(a.out, "Working Dir: %s\n", h.WorkDir)
	}
	if h.Git != nil && h.Git.Commit != "" {
		fmt.Fprintf(a.out, "Git Commit: %s", shortID(h.Git.Commit))
		if h.Git.Branch != "" {
			fmt.Fprintf(a.out, " (%s)", h.Git.Branch)
		}
		fmt.Fprintln(a.out)
	}
	if h.Target != nil {
		fmt.Fprintf(a.out, "Target: %s/%s %s (%s)\n", h.Target.OS, h.Target.Arch, h.Target.GoVersion, h.Target.Engine)
	}
	fmt.Fprintln(a.out)

	var profileArtifact, csvArtifact *model.Artifact
	for i := range h.Artifacts {
		artifact := &h.Artifacts[i]
		switch artifact.Type {
		case model.ArtifactTypePprofProfile:
			profileArtifact = artifact
		case model.ArtifactTypeResultsCSV:
			csvArtifact = artifact
		}
	}

	if len(pprofArgs) > 0 {
		if profileArtifact == nil {
			return fmt.Errorf("run %s has no profile", shortID(h.ID))
		}
		return a.displayProfile(entry.Dir, profileArtifact, pprofArgs)
	}

	if h.Summary != nil {
		if err := report.WriteSummary(a.out, *h.Summary); err != nil {
			return err
		}
		fmt.Fprintln(a.out)
	}

	if csvArtifact != nil {
		return a.displayResults(entry.Dir, csvArtifact)
	}

	fmt.Fprintln(a.out, "No results file recorded")
	fmt.Fprintf(a.out, "Results directory: %s\n", entry.Dir)
	return nil
}

func artifactPath(dir string, artifact *model.Artifact) string {
	if filepath.IsAbs(artifact.File) {
		return artifact.File
	}
	return filepath.Join(dir, artifact.File)
}

func (a *App) displayResults(dir string, artifact *model.Artifact) error {
	path := artifactPath(dir, artifact)
	fmt.Fprintf(a.out, "Results: %s\n", path)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open results: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read results: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("results file %s is empty", path)
	}

	report.RenderTable(a.out, records[0], records[1:], nil)
	return nil
}

func (a *App) displayProfile(dir string, artifact *model.Artifact, pprofArgs []string) error {
	profilePath := artifactPath(dir, artifact)
	fmt.Fprintf(a.out, "Profile: %s (%.1f KB)\n", profilePath, float64(artifact.Size)/1024)

	args := []string{"tool", "pprof"}
	args = append(args, pprofArgs...)
	args = append(args, profilePath)

	cmd := exec.Command("go", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Dir = dir

	return cmd.Run()
}
