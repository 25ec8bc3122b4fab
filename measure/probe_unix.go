//go:build unix

package measure

import "golang.org/x/sys/unix"

func (p *SystemProbe) CPUTimes() (user, sys float64) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, 0
	}
	return timevalSeconds(ru.Utime), timevalSeconds(ru.Stime)
}

// ResidentKB returns ru_maxrss, which Linux reports in kilobytes.
func (p *SystemProbe) ResidentKB() int64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	return int64(ru.Maxrss)
}

func timevalSeconds(tv unix.Timeval) float64 {
	return float64(tv.Sec) + float64(tv.Usec)/1e6
}
