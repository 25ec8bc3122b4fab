package report

// csv.go writes the per-test CSV rows and the text summary.

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/perfgo/jsbench/model"
)

// CSVHeader is the first line of every results file.
const CSVHeader = "test,type,wall_time_s,user_time_s,sys_time_s,js_mem_before_bytes,js_mem_after_bytes,js_mem_change_bytes,rss_peak_kb"

// CSVSink writes one row per measured test. Rows are written straight to
// the underlying writer so every row is on disk before the next test runs.
type CSVSink struct {
	w io.Writer
}

// NewCSVSink writes the header to w and returns the sink.
func NewCSVSink(w io.Writer) (*CSVSink, error) {
	if _, err := fmt.Fprintln(w, CSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	return &CSVSink{w: w}, nil
}

// CreateCSV truncates or creates path and writes the header.
func CreateCSV(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open csv file for writing: %w", err)
	}
	s, err := NewCSVSink(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *CSVSink) Write(r model.TestResult) error {
	_, err := fmt.Fprintf(s.w, "%s,%s,%.6f,%.6f,%.6f,%d,%d,%d,%d\n",
		quote(r.Descriptor.Name),
		r.Descriptor.Category,
		r.WallDelta(),
		r.UserDelta(),
		r.SysDelta(),
		r.Before.InterpreterMemoryBytes,
		r.After.InterpreterMemoryBytes,
		r.MemoryChange(),
		r.PeakResidentKB(),
	)
	return err
}

func (s *CSVSink) Close() error {
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// quote always quotes the test name; embedded quotes are doubled.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// SummaryFile writes the summary to a file, replacing any previous one.
type SummaryFile struct {
	Path string
}

func (f SummaryFile) WriteSummary(s model.RunSummary) error {
	file, err := os.Create(f.Path)
	if err != nil {
		return fmt.Errorf("cannot open summary file: %w", err)
	}
	if err := WriteSummary(file, s); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteSummary renders the human-readable summary.
func WriteSummary(w io.Writer, s model.RunSummary) error {
	_, err := fmt.Fprintf(w, `VM: %s
Benchmark: %s
Timestamp: %s

Total scripts: %d
Completed: %d
Exceptions: %d
Load errors: %d
Total wall time (s): %.6f
Total user CPU time (s): %.6f
Total sys CPU time (s): %.6f
Peak memory usage (KB): %d
`,
		s.VMLabel,
		s.Suite,
		s.Timestamp,
		s.TestCount,
		s.Completed,
		s.Exceptions,
		s.LoadErrors,
		s.Totals.TotalWallSeconds,
		s.Totals.TotalUserSeconds,
		s.Totals.TotalSysSeconds,
		s.Totals.PeakResidentKB,
	)
	return err
}
