package report

// profile.go exports the measured tests as a pprof profile so a run can be
// explored with `go tool pprof`.

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/google/pprof/profile"
	"github.com/perfgo/jsbench/model"
)

// ProfileSink builds one pprof sample per measured test. The stack of each
// sample is the test on top of its category, so pprof groups by category.
type ProfileSink struct {
	path       string
	profile    *profile.Profile
	functions  map[string]*profile.Function
	locations  map[string]*profile.Location
	nextID     uint64
	totalWallN int64
}

// NewProfileSink returns a sink that writes the profile to path on Close.
func NewProfileSink(path string) *ProfileSink {
	return &ProfileSink{
		path: path,
		profile: &profile.Profile{
			SampleType: []*profile.ValueType{
				{Type: "wall", Unit: "nanoseconds"},
				{Type: "user", Unit: "nanoseconds"},
				{Type: "sys", Unit: "nanoseconds"},
				{Type: "js_mem_change", Unit: "bytes"},
				{Type: "rss_peak", Unit: "kilobytes"},
			},
			DefaultSampleType: "wall",
			PeriodType:        &profile.ValueType{Type: "test", Unit: "count"},
			Period:            1,
			TimeNanos:         time.Now().UnixNano(),
		},
		functions: make(map[string]*profile.Function),
		locations: make(map[string]*profile.Location),
		nextID:    1,
	}
}

func (s *ProfileSink) Write(r model.TestResult) error {
	d := r.Descriptor
	wall := nanos(r.WallDelta())
	s.totalWallN += wall

	s.profile.Sample = append(s.profile.Sample, &profile.Sample{
		Location: []*profile.Location{
			s.location(d.Name, d.SourcePath),
			s.location(string(d.Category), ""),
		},
		Value: []int64{
			wall,
			nanos(r.UserDelta()),
			nanos(r.SysDelta()),
			r.MemoryChange(),
			r.PeakResidentKB(),
		},
		Label: map[string][]string{
			"status": {r.Status.String()},
			"type":   {string(d.Category)},
		},
	})
	return nil
}

// Profile returns the profile built so far.
func (s *ProfileSink) Profile() *profile.Profile {
	s.profile.DurationNanos = s.totalWallN
	return s.profile
}

// WriteTo writes the gzipped profile to w.
func (s *ProfileSink) WriteTo(w io.Writer) error {
	prof := s.Profile()
	if err := prof.CheckValid(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	return prof.Write(w)
}

func (s *ProfileSink) Close() error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	defer f.Close()

	if err := s.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

func (s *ProfileSink) location(name, file string) *profile.Location {
	key := name + "\x00" + file
	if loc, ok := s.locations[key]; ok {
		return loc
	}

	fn, ok := s.functions[key]
	if !ok {
		fn = &profile.Function{
			ID:         s.nextID,
			Name:       name,
			SystemName: name,
			Filename:   file,
		}
		s.nextID++
		s.functions[key] = fn
		s.profile.Function = append(s.profile.Function, fn)
	}

	loc := &profile.Location{
		ID:   s.nextID,
		Line: []profile.Line{{Function: fn}},
	}
	s.nextID++
	s.locations[key] = loc
	s.profile.Location = append(s.profile.Location, loc)
	return loc
}

func nanos(v float64) int64 {
	return int64(math.Round(v * float64(time.Second)))
}
