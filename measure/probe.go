package measure

// probe.go contains the process-level counters sampled around each test.

import "time"

// Probe reads process-level counters. The engine-internal memory reading is
// taken separately from the engine.
type Probe interface {
	// Now returns monotonic wall-clock seconds
	Now() float64
	// CPUTimes returns cumulative process user and system CPU seconds
	CPUTimes() (user, sys float64)
	// ResidentKB returns the process resident-set high-water mark in KB
	ResidentKB() int64
}

// SystemProbe reads counters of the current process.
type SystemProbe struct {
	base time.Time
}

// NewSystemProbe returns a probe whose wall clock starts at zero now. Wall
// readings use the monotonic clock carried by time.Time.
func NewSystemProbe() *SystemProbe {
	return &SystemProbe{base: time.Now()}
}

func (p *SystemProbe) Now() float64 {
	return time.Since(p.base).Seconds()
}
