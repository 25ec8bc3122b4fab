package model

// EvalMode selects how a script is evaluated by the engine
type EvalMode uint8

const (
	EvalGlobal EvalMode = iota
	EvalModule
)

func (m EvalMode) String() string {
	switch m {
	case EvalModule:
		return "module"
	default:
		return "global"
	}
}

// ParseEvalMode converts a textual mode ("global", "module") into an EvalMode.
// An empty string selects EvalGlobal.
func ParseEvalMode(s string) (EvalMode, bool) {
	switch s {
	case "", "global":
		return EvalGlobal, true
	case "module":
		return EvalModule, true
	}
	return EvalGlobal, false
}

// Category is the descriptive classification of a test script
type Category string

const (
	CategoryData   Category = "data"
	CategoryMain   Category = "main"
	CategoryBase   Category = "base"
	CategoryRunner Category = "runner"
)

// TestDescriptor identifies a single script to execute. Descriptors are built
// by the catalog and never modified afterwards.
type TestDescriptor struct {
	// Name used as diagnostic label and in the test column of the report
	Name string `json:"name"`
	// Path of the script source on disk
	SourcePath string `json:"source_path"`
	// How the script is evaluated
	Mode EvalMode `json:"mode"`
	// Descriptive classification (data, main, base, runner)
	Category Category `json:"category"`
}

// ResourceSample is one point-in-time reading of timing and memory counters.
type ResourceSample struct {
	// Monotonic wall clock, seconds since the sampler was created
	WallSeconds float64 `json:"wall_s"`
	// Process user CPU time in seconds
	UserCPUSeconds float64 `json:"user_s"`
	// Process system CPU time in seconds
	SysCPUSeconds float64 `json:"sys_s"`
	// Live bytes as accounted by the engine
	InterpreterMemoryBytes uint64 `json:"js_mem_bytes"`
	// Resident set high-water mark in KB
	ResidentKB int64 `json:"rss_kb"`
}

// Status is the outcome of a single test execution
type Status uint8

const (
	StatusOK Status = iota
	StatusException
	StatusLoadError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusException:
		return "exception"
	case StatusLoadError:
		return "load_error"
	}
	return "unknown"
}

// Measured reports whether the result carries a before/after sample.
func (s Status) Measured() bool {
	return s == StatusOK || s == StatusException
}

// TestResult is the outcome of executing one descriptor. Deltas are derived
// from Before and After on demand.
type TestResult struct {
	Descriptor TestDescriptor `json:"descriptor"`
	Before     ResourceSample `json:"before"`
	After      ResourceSample `json:"after"`
	Status     Status         `json:"status"`
	// Stack trace for exceptions, I/O error text for load errors
	ErrorDetail string `json:"error_detail,omitempty"`
	// Measurement anomalies, e.g. clamped CPU counters
	Anomalies []string `json:"anomalies,omitempty"`
	// False when the interpreter may have been left mid-unwind
	MemoryReliable bool `json:"memory_reliable"`
}

// WallDelta returns elapsed wall seconds.
func (r TestResult) WallDelta() float64 {
	return r.After.WallSeconds - r.Before.WallSeconds
}

// UserDelta returns elapsed user CPU seconds, never negative.
func (r TestResult) UserDelta() float64 {
	return clampDelta(r.After.UserCPUSeconds - r.Before.UserCPUSeconds)
}

// SysDelta returns elapsed system CPU seconds, never negative.
func (r TestResult) SysDelta() float64 {
	return clampDelta(r.After.SysCPUSeconds - r.Before.SysCPUSeconds)
}

// MemoryChange returns the signed change in engine memory.
func (r TestResult) MemoryChange() int64 {
	return int64(r.After.InterpreterMemoryBytes) - int64(r.Before.InterpreterMemoryBytes)
}

// PeakResidentKB returns the larger of the two resident readings.
func (r TestResult) PeakResidentKB() int64 {
	return max(r.Before.ResidentKB, r.After.ResidentKB)
}

func clampDelta(d float64) float64 {
	if d < 0 {
		return 0
	}
	return d
}

// RunTotals accumulates measurements across all measured tests of a run.
type RunTotals struct {
	TotalWallSeconds float64 `json:"total_wall_s"`
	TotalUserSeconds float64 `json:"total_user_s"`
	TotalSysSeconds  float64 `json:"total_sys_s"`
	PeakResidentKB   int64   `json:"peak_rss_kb"`
}

// Add folds a measured result into the totals. Results without a sample are
// ignored and Add reports false.
func (t *RunTotals) Add(r TestResult) bool {
	if !r.Status.Measured() {
		return false
	}
	t.TotalWallSeconds += r.WallDelta()
	t.TotalUserSeconds += r.UserDelta()
	t.TotalSysSeconds += r.SysDelta()
	if peak := r.PeakResidentKB(); peak > t.PeakResidentKB {
		t.PeakResidentKB = peak
	}
	return true
}

// RunSummary is the final record of a run.
type RunSummary struct {
	VMLabel   string `json:"vm"`
	Suite     string `json:"suite"`
	Timestamp string `json:"timestamp"`
	// Number of descriptors in the catalog
	TestCount  int       `json:"test_count"`
	Completed  int       `json:"completed"`
	Exceptions int       `json:"exceptions"`
	LoadErrors int       `json:"load_errors"`
	Totals     RunTotals `json:"totals"`
}
