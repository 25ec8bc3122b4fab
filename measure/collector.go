package measure

// collector.go wraps a single test execution with before/after sampling.

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/perfgo/jsbench/engine"
	"github.com/perfgo/jsbench/model"
	"github.com/rs/zerolog"
)

// DefaultMaxSourceBytes is the largest script accepted for evaluation.
const DefaultMaxSourceBytes int64 = 8 << 20

// ErrEmptySource is returned for zero-length scripts.
var ErrEmptySource = errors.New("source file is empty")

// SourceTooLargeError is returned for scripts exceeding the size limit.
type SourceTooLargeError struct {
	Path  string
	Limit int64
}

func (e *SourceTooLargeError) Error() string {
	return fmt.Sprintf("source file %s exceeds the maximum of %d bytes", e.Path, e.Limit)
}

// Collector executes descriptors on a shared engine and measures each one.
type Collector struct {
	logger         zerolog.Logger
	engine         engine.Engine
	probe          Probe
	maxSourceBytes int64
}

// Option configures a Collector.
type Option func(*Collector)

// WithProbe replaces the system probe.
func WithProbe(p Probe) Option {
	return func(c *Collector) {
		c.probe = p
	}
}

// WithMaxSourceBytes sets the source size limit. Non-positive values are ignored.
func WithMaxSourceBytes(n int64) Option {
	return func(c *Collector) {
		if n > 0 {
			c.maxSourceBytes = n
		}
	}
}

// NewCollector creates a collector driving eng.
func NewCollector(logger zerolog.Logger, eng engine.Engine, opts ...Option) *Collector {
	c := &Collector{
		logger:         logger,
		engine:         eng,
		probe:          NewSystemProbe(),
		maxSourceBytes: DefaultMaxSourceBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes a single descriptor and returns exactly one result.
//
// Scripts that cannot be loaded produce a LOAD_ERROR result without a sample.
// Otherwise the engine is collected, the before sample taken, the script
// evaluated and the after sample taken. The after sample is taken on the
// exception path as well so the cost of a failing test is still accounted.
func (c *Collector) Run(desc model.TestDescriptor) model.TestResult {
	result := model.TestResult{Descriptor: desc}

	source, err := ReadSource(desc.SourcePath, c.maxSourceBytes)
	if err != nil {
		result.Status = model.StatusLoadError
		result.ErrorDetail = err.Error()
		return result
	}

	// The collection must directly precede the before sample of this test.
	c.engine.ForceCollection()
	result.Before = c.sample()

	c.logger.Debug().
		Str("test", desc.Name).
		Str("mode", desc.Mode.String()).
		Msg("Executing script")

	res := c.engine.Evaluate(source, desc.Name, desc.Mode)

	result.After = c.sample()
	result.MemoryReliable = true
	result.Status = model.StatusOK

	if res.IsException() {
		result.Status = model.StatusException
		result.MemoryReliable = false
		if detail, ok := res.Detail(); ok {
			result.ErrorDetail = detail
		} else {
			result.ErrorDetail = res.Thrown.Message
		}
		c.logger.Error().
			Str("test", desc.Name).
			Str("exception", res.Thrown.Message).
			Str("stack", res.Thrown.Stack).
			Msg("Exception during evaluation")
		c.logger.Warn().
			Str("test", desc.Name).
			Msg("Memory change recorded after an exception may be unreliable")
	}

	c.checkAnomalies(&result)
	return result
}

func (c *Collector) sample() model.ResourceSample {
	user, sys := c.probe.CPUTimes()
	return model.ResourceSample{
		WallSeconds:            c.probe.Now(),
		UserCPUSeconds:         user,
		SysCPUSeconds:          sys,
		InterpreterMemoryBytes: c.engine.MemoryUsage(),
		ResidentKB:             c.probe.ResidentKB(),
	}
}

// checkAnomalies flags counters that went backwards. CPU deltas are clamped
// to zero when read through model.TestResult.
func (c *Collector) checkAnomalies(r *model.TestResult) {
	if d := r.After.WallSeconds - r.Before.WallSeconds; d < 0 {
		r.Anomalies = append(r.Anomalies, fmt.Sprintf("wall clock went backwards by %.9fs", -d))
	}
	if d := r.After.UserCPUSeconds - r.Before.UserCPUSeconds; d < 0 {
		r.Anomalies = append(r.Anomalies, fmt.Sprintf("user cpu delta %.9fs clamped to zero", d))
	}
	if d := r.After.SysCPUSeconds - r.Before.SysCPUSeconds; d < 0 {
		r.Anomalies = append(r.Anomalies, fmt.Sprintf("sys cpu delta %.9fs clamped to zero", d))
	}
	for _, a := range r.Anomalies {
		c.logger.Warn().Str("test", r.Descriptor.Name).Str("anomaly", a).Msg("Measurement anomaly")
	}
}

// ReadSource reads the whole script at path. Files larger than limit are
// rejected rather than truncated.
func ReadSource(path string, limit int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", fmt.Errorf("read error %s: %w", path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%s: %w", path, ErrEmptySource)
	}
	if int64(len(data)) > limit {
		return "", &SourceTooLargeError{Path: path, Limit: limit}
	}
	return string(data), nil
}
