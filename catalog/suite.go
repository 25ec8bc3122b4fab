package catalog

// suite.go loads static lists from YAML suite files.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/perfgo/jsbench/model"
	"gopkg.in/yaml.v3"
)

// Suite is the YAML representation of a static list:
//
//	name: octane
//	base_file: base.js
//	runner_file: run_octane.js
//	tests:
//	  - path: octane/base.js
//	  - path: octane/richards.js
//	    mode: global
//	runner:
//	  path: run_octane.js
type Suite struct {
	Name       string       `yaml:"name"`
	BaseFile   string       `yaml:"base_file,omitempty"`
	RunnerFile string       `yaml:"runner_file,omitempty"`
	Tests      []SuiteEntry `yaml:"tests"`
	Runner     *SuiteEntry  `yaml:"runner,omitempty"`
}

// SuiteEntry is one test of a suite file.
type SuiteEntry struct {
	Name string `yaml:"name,omitempty"`
	Path string `yaml:"path"`
	Mode string `yaml:"mode,omitempty"`
}

// LoadSuite reads and validates a suite file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse suite file %s: %w", path, err)
	}

	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if len(s.Tests) == 0 && s.Runner == nil {
		return nil, fmt.Errorf("suite file %s defines no tests", path)
	}
	for i, e := range s.Tests {
		if e.Path == "" {
			return nil, fmt.Errorf("suite file %s: test %d has no path", path, i)
		}
		if _, ok := model.ParseEvalMode(e.Mode); !ok {
			return nil, fmt.Errorf("suite file %s: test %s has invalid mode %q", path, e.Path, e.Mode)
		}
	}
	if s.Runner != nil {
		if s.Runner.Path == "" {
			return nil, fmt.Errorf("suite file %s: runner has no path", path)
		}
		if _, ok := model.ParseEvalMode(s.Runner.Mode); !ok {
			return nil, fmt.Errorf("suite file %s: runner has invalid mode %q", path, s.Runner.Mode)
		}
	}

	return &s, nil
}

// Catalog builds the static catalog of the suite with paths resolved
// against root.
func (s *Suite) Catalog(root string) *Catalog {
	cl := Classifier{BaseFile: s.BaseFile, RunnerFile: s.RunnerFile}
	if cl.BaseFile == "" && cl.RunnerFile == "" {
		cl = DefaultClassifier
	}

	entries := make([]Entry, 0, len(s.Tests))
	for _, e := range s.Tests {
		entries = append(entries, e.entry())
	}

	var runner *Entry
	if s.Runner != nil {
		r := s.Runner.entry()
		runner = &r
	}
	return Static(s.Name, root, entries, runner, cl)
}

func (e SuiteEntry) entry() Entry {
	mode, _ := model.ParseEvalMode(e.Mode)
	return Entry{Name: e.Name, Path: e.Path, Mode: mode}
}
