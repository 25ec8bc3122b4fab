//go:build !unix

package measure

// CPU and resident-memory counters are only available on unix targets.

func (p *SystemProbe) CPUTimes() (user, sys float64) {
	return 0, 0
}

func (p *SystemProbe) ResidentKB() int64 {
	return 0
}
