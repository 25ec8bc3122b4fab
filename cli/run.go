package cli

// This file contains the benchmark run pipeline shared by the octane and
// manifest commands.

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/google/uuid"
	"github.com/perfgo/jsbench/catalog"
	"github.com/perfgo/jsbench/engine/gojavm"
	"github.com/perfgo/jsbench/measure"
	"github.com/perfgo/jsbench/model"
	"github.com/perfgo/jsbench/report"
	"github.com/urfave/cli/v2"
)

// reportFiles names the files of a run inside the VM results directory.
type reportFiles struct {
	dir     string
	csv     string
	summary string
	profile string
	prom    string
}

func newReportFiles(resultsDir, vm, suite, promPath string) (reportFiles, error) {
	if err := validateLabel("VM", vm); err != nil {
		return reportFiles{}, err
	}
	if err := validateLabel("suite", suite); err != nil {
		return reportFiles{}, err
	}

	dir := filepath.Join(resultsDir, vm)
	return reportFiles{
		dir:     dir,
		csv:     filepath.Join(dir, suite+"_results.csv"),
		summary: filepath.Join(dir, suite+"_summary.txt"),
		profile: filepath.Join(dir, suite+"_profile.pb.gz"),
		prom:    promPath,
	}, nil
}

// validateLabel rejects labels that would resolve outside the results directory.
func validateLabel(kind, label string) error {
	switch {
	case label == "":
		return fmt.Errorf("invalid %s label: must not be empty", kind)
	case label == "." || strings.Contains(label, ".."):
		return fmt.Errorf("invalid %s label %q: must not contain \"..\"", kind, label)
	case strings.ContainsAny(label, `/\`):
		return fmt.Errorf("invalid %s label %q: must not contain a path separator", kind, label)
	}
	return nil
}

func (a *App) runSuite(ctx *cli.Context, kind model.HistoryType, cat *catalog.Catalog, suiteRoot, vm string) (finalErr error) {
	startTime := time.Now()

	files, err := newReportFiles(ctx.String("results-dir"), vm, cat.Name(), ctx.String("prom-textfile"))
	if err != nil {
		a.logger.Error().Err(err).Msg("Invalid results location")
		return err
	}

	h := &model.History{
		ID:        uuid.NewString(),
		Type:      kind,
		Timestamp: startTime,
		Args:      os.Args,
		Command:   shellescape.QuoteCommand(os.Args),
		Suite:     cat.Name(),
		VM:        vm,
		Target: &model.Target{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			GoVersion: runtime.Version(),
			Engine:    gojavm.EngineName,
		},
	}
	if cwd, err := os.Getwd(); err == nil {
		h.WorkDir = cwd
	}
	// Capture git info of the suite checkout (non-fatal if it fails)
	if git, err := gitInfo(suiteRoot); err == nil {
		h.Git = git
	} else {
		a.logger.Debug().Err(err).Msg("Suite is not in a git repository")
	}

	if err := os.MkdirAll(files.dir, 0755); err != nil {
		a.logger.Error().Err(err).Str("dir", files.dir).Msg("Failed to create results directory")
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	// From here on the run is recorded, failed runs included
	defer func() {
		h.Duration = time.Since(startTime)
		if finalErr != nil {
			h.ExitCode = 1
		}

		// Record the history (non-fatal if it fails)
		if err := a.recordRun(files.dir, h); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to record history")
		}
	}()

	csvSink, err := report.CreateCSV(files.csv)
	if err != nil {
		a.logger.Error().Err(err).Str("path", files.csv).Msg("Failed to open results file")
		return err
	}
	sinks := []report.Sink{csvSink}
	if ctx.Bool("pprof") {
		sinks = append(sinks, report.NewProfileSink(files.profile))
	}
	if files.prom != "" {
		sinks = append(sinks, report.NewPromSink(files.prom, cat.Name(), vm))
	}
	sinks = append(sinks, report.NewTableSink(a.out))

	stackSize := ctx.Int("stack-size")
	if stackSize == 0 {
		stackSize = -1
	}
	jsvm, err := gojavm.New(a.logger, gojavm.Options{
		MaxCallStackSize: stackSize,
		Stdout:           a.out,
	})
	if err != nil {
		csvSink.Close()
		a.logger.Error().Err(err).Msg("Failed to create JavaScript runtime")
		return err
	}
	defer jsvm.Close()

	collector := measure.NewCollector(a.logger, jsvm, measure.WithMaxSourceBytes(ctx.Int64("max-source-bytes")))
	agg := report.NewAggregator(a.logger, sinks...)

	a.logger.Info().
		Str("suite", cat.Name()).
		Str("vm", vm).
		Int("tests", cat.Len()).
		Str("results", files.dir).
		Msg("Starting benchmark run")

	for _, desc := range cat.Descriptors() {
		agg.Add(collector.Run(desc))
	}

	summary := agg.Summary(vm, cat.Name(), startTime, cat.Len())
	if err := agg.Finish(summary, report.SummaryFile{Path: files.summary}); err != nil {
		a.logger.Error().Err(err).Str("path", files.summary).Msg("Failed to write summary")
		return err
	}
	if n := agg.WriteErrors(); n > 0 {
		a.logger.Warn().Int("failed_writes", n).Msg("Some records could not be written")
	}

	h.Summary = &summary
	a.registerArtifact(h, files.dir, model.ArtifactTypeResultsCSV, files.csv)
	a.registerArtifact(h, files.dir, model.ArtifactTypeSummary, files.summary)
	if ctx.Bool("pprof") {
		a.registerArtifact(h, files.dir, model.ArtifactTypePprofProfile, files.profile)
	}
	if files.prom != "" {
		a.registerArtifact(h, files.dir, model.ArtifactTypePromTextfile, files.prom)
	}

	fmt.Fprintf(a.out, "\n[Summary] %d scripts, %d completed, %d exceptions, %d load errors, wall=%.6fs user=%.6fs sys=%.6fs peak=%d KB\n",
		summary.TestCount, summary.Completed, summary.Exceptions, summary.LoadErrors,
		summary.Totals.TotalWallSeconds, summary.Totals.TotalUserSeconds, summary.Totals.TotalSysSeconds,
		summary.Totals.PeakResidentKB)
	fmt.Fprintf(a.out, "Results: %s\nReproduce: %s\n", files.csv, h.Command)

	return nil
}
