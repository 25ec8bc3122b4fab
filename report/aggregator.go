package report

// aggregator.go accumulates per-test results into run totals and fans the
// measured records out to the configured sinks.

import (
	"fmt"
	"time"

	"github.com/perfgo/jsbench/model"
	"github.com/rs/zerolog"
)

// TimestampFormat is the layout of RunSummary.Timestamp.
const TimestampFormat = "20060102-150405"

// Sink receives one record per measured test, in catalog order.
type Sink interface {
	Write(r model.TestResult) error
	Close() error
}

// SummarySink receives the final summary of a run.
type SummarySink interface {
	WriteSummary(s model.RunSummary) error
}

// Aggregator owns the run totals and the sinks for the duration of a run.
// It is append-only and never revisits written records.
type Aggregator struct {
	logger      zerolog.Logger
	sinks       []Sink
	totals      model.RunTotals
	completed   int
	exceptions  int
	loadErrors  int
	writeErrors int
}

// NewAggregator creates an aggregator writing to sinks in the given order.
func NewAggregator(logger zerolog.Logger, sinks ...Sink) *Aggregator {
	return &Aggregator{
		logger: logger,
		sinks:  sinks,
	}
}

// Add records a single result. Load errors only reach the diagnostic log.
// A failing sink is logged and does not prevent later writes.
func (a *Aggregator) Add(r model.TestResult) {
	d := r.Descriptor

	switch r.Status {
	case model.StatusLoadError:
		a.loadErrors++
		ev := a.logger.Warn()
		if d.Category == model.CategoryData {
			// many suites ship without the optional -data.js half
			ev = a.logger.Info()
		}
		ev.Str("test", d.Name).Str("detail", r.ErrorDetail).Msg("Skipping test, source not loaded")
		return
	case model.StatusException:
		a.exceptions++
	default:
		a.completed++
	}

	a.totals.Add(r)

	a.logger.Info().
		Str("test", d.Name).
		Str("type", string(d.Category)).
		Str("status", r.Status.String()).
		Str("wall", fmt.Sprintf("%.4fs", r.WallDelta())).
		Str("user", fmt.Sprintf("%.4fs", r.UserDelta())).
		Str("sys", fmt.Sprintf("%.4fs", r.SysDelta())).
		Int64("js_mem_change", r.MemoryChange()).
		Int64("rss_peak_kb", r.PeakResidentKB()).
		Msg("Test measured")

	for _, s := range a.sinks {
		if err := s.Write(r); err != nil {
			a.writeErrors++
			a.logger.Error().Err(err).Str("test", d.Name).Msg("Failed to write record")
		}
	}
}

// Totals returns the running totals.
func (a *Aggregator) Totals() model.RunTotals {
	return a.totals
}

// WriteErrors returns the number of failed record writes.
func (a *Aggregator) WriteErrors() int {
	return a.writeErrors
}

// Summary builds the run summary from the current state.
func (a *Aggregator) Summary(vm, suite string, ts time.Time, testCount int) model.RunSummary {
	return model.RunSummary{
		VMLabel:    vm,
		Suite:      suite,
		Timestamp:  ts.Format(TimestampFormat),
		TestCount:  testCount,
		Completed:  a.completed,
		Exceptions: a.exceptions,
		LoadErrors: a.loadErrors,
		Totals:     a.totals,
	}
}

// Finish closes the record sinks and writes the summary once.
func (a *Aggregator) Finish(summary model.RunSummary, out SummarySink) error {
	for _, s := range a.sinks {
		if err := s.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close record sink")
		}
	}
	a.sinks = nil

	if err := out.WriteSummary(summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	a.logger.Info().
		Str("time", fmt.Sprintf("%.6fs", summary.Totals.TotalWallSeconds)).
		Str("user", fmt.Sprintf("%.6fs", summary.Totals.TotalUserSeconds)).
		Str("sys", fmt.Sprintf("%.6fs", summary.Totals.TotalSysSeconds)).
		Int64("peak_mem_kb", summary.Totals.PeakResidentKB).
		Msg("Summary")
	return nil
}
