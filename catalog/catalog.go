package catalog

// catalog.go builds the ordered list of tests for a run.

import (
	"path/filepath"
	"strings"

	"github.com/perfgo/jsbench/model"
)

// Classifier derives the descriptive category of a script from its path.
type Classifier struct {
	BaseFile   string
	RunnerFile string
}

// DefaultClassifier matches the Octane layout.
var DefaultClassifier = Classifier{
	BaseFile:   "base.js",
	RunnerFile: "run_octane.js",
}

// Classify returns data for "-data" scripts, base and runner for the
// designated files and main otherwise.
func (c Classifier) Classify(path string) model.Category {
	base := filepath.Base(path)
	switch {
	case strings.Contains(base, "-data"):
		return model.CategoryData
	case c.BaseFile != "" && base == c.BaseFile:
		return model.CategoryBase
	case c.RunnerFile != "" && base == c.RunnerFile:
		return model.CategoryRunner
	}
	return model.CategoryMain
}

// Entry is one line of a static list.
type Entry struct {
	// Label for the test; defaults to Path
	Name string
	// Path relative to the suite root
	Path string
	Mode model.EvalMode
}

// Catalog is a finite, ordered sequence of descriptors. It can be iterated
// any number of times.
type Catalog struct {
	name        string
	descriptors []model.TestDescriptor
}

// Name returns the suite label used in report file names and the summary.
func (c *Catalog) Name() string {
	return c.name
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int {
	return len(c.descriptors)
}

// Descriptors returns the descriptors in execution order. The returned
// slice is a copy.
func (c *Catalog) Descriptors() []model.TestDescriptor {
	out := make([]model.TestDescriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// Static builds a catalog from a fixed list. The runner entry, when given,
// is placed after all other entries.
func Static(name, root string, entries []Entry, runner *Entry, cl Classifier) *Catalog {
	c := &Catalog{name: name}
	for _, e := range entries {
		c.descriptors = append(c.descriptors, describe(root, e, cl))
	}
	if runner != nil {
		d := describe(root, *runner, cl)
		d.Category = model.CategoryRunner
		c.descriptors = append(c.descriptors, d)
	}
	return c
}

func describe(root string, e Entry, cl Classifier) model.TestDescriptor {
	name := e.Name
	if name == "" {
		name = e.Path
	}
	return model.TestDescriptor{
		Name:       name,
		SourcePath: filepath.Join(root, e.Path),
		Mode:       e.Mode,
		Category:   cl.Classify(e.Path),
	}
}
