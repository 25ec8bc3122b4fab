package report

// prometheus.go exports per-test gauges in the node_exporter textfile format.

import (
	"fmt"

	"github.com/perfgo/jsbench/model"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink writes the measured tests to a Prometheus textfile on Close.
type PromSink struct {
	path     string
	registry *prometheus.Registry

	wall    *prometheus.GaugeVec
	user    *prometheus.GaugeVec
	sys     *prometheus.GaugeVec
	memory  *prometheus.GaugeVec
	rssPeak *prometheus.GaugeVec
	tests   *prometheus.CounterVec
}

// NewPromSink creates a sink whose series carry the suite and vm labels.
func NewPromSink(path, suite, vm string) *PromSink {
	constLabels := prometheus.Labels{"suite": suite, "vm": vm}
	testLabels := []string{"test", "type", "status"}

	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "jsbench",
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		}, testLabels)
	}

	s := &PromSink{
		path:     path,
		registry: prometheus.NewRegistry(),
		wall:     gauge("test_wall_seconds", "Wall-clock time of a single test."),
		user:     gauge("test_user_cpu_seconds", "User CPU time of a single test."),
		sys:      gauge("test_sys_cpu_seconds", "System CPU time of a single test."),
		memory:   gauge("test_js_memory_change_bytes", "Change of engine memory across a single test."),
		rssPeak:  gauge("test_rss_peak_kilobytes", "Resident set high-water mark observed around a single test."),
		tests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "jsbench",
			Name:        "tests_total",
			Help:        "Measured tests by status.",
			ConstLabels: constLabels,
		}, []string{"status"}),
	}
	s.registry.MustRegister(s.wall, s.user, s.sys, s.memory, s.rssPeak, s.tests)
	return s
}

func (s *PromSink) Write(r model.TestResult) error {
	labels := prometheus.Labels{
		"test":   r.Descriptor.Name,
		"type":   string(r.Descriptor.Category),
		"status": r.Status.String(),
	}
	s.wall.With(labels).Set(r.WallDelta())
	s.user.With(labels).Set(r.UserDelta())
	s.sys.With(labels).Set(r.SysDelta())
	s.memory.With(labels).Set(float64(r.MemoryChange()))
	s.rssPeak.With(labels).Set(float64(r.PeakResidentKB()))
	s.tests.WithLabelValues(r.Status.String()).Inc()
	return nil
}

// Gatherer exposes the registry, mainly for tests.
func (s *PromSink) Gatherer() prometheus.Gatherer {
	return s.registry
}

func (s *PromSink) Close() error {
	if err := prometheus.WriteToTextfile(s.path, s.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
