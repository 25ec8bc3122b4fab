package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/perfgo/jsbench/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		path string
		want model.Category
	}{
		{path: "octane/zlib-data.js", want: model.CategoryData},
		{path: "octane/base.js", want: model.CategoryBase},
		{path: "run_octane.js", want: model.CategoryRunner},
		{path: "octane/richards.js", want: model.CategoryMain},
		{path: "kraken/ai-astar-data.js", want: model.CategoryData},
		{path: "database/base.json.js", want: model.CategoryMain},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, DefaultClassifier.Classify(tt.path))
		})
	}
}

func TestOctane(t *testing.T) {
	c := Octane("/bench")
	ds := c.Descriptors()

	require.Equal(t, OctaneName, c.Name())
	require.Len(t, ds, len(octaneScripts)+1)
	require.Equal(t, "octane/base.js", ds[0].Name)
	require.Equal(t, filepath.Join("/bench", "octane/base.js"), ds[0].SourcePath)
	require.Equal(t, model.CategoryBase, ds[0].Category)
	require.Equal(t, model.CategoryData, ds[16].Category)

	last := ds[len(ds)-1]
	require.Equal(t, "run_octane.js", last.Name)
	require.Equal(t, model.CategoryRunner, last.Category)
	for _, d := range ds {
		require.Equal(t, model.EvalGlobal, d.Mode)
	}
}

func TestCatalog_DescriptorsIsRestartable(t *testing.T) {
	c := Octane(".")
	first := c.Descriptors()
	first[0].Name = "mutated"

	second := c.Descriptors()
	require.Equal(t, "octane/base.js", second[0].Name)
	require.Equal(t, c.Len(), len(second))
}

func TestLoadSuite(t *testing.T) {
	s, err := LoadSuite("testdata/mini.yaml")
	require.NoError(t, err)

	c := s.Catalog("/root")
	ds := c.Descriptors()
	require.Equal(t, "mini", c.Name())
	require.Len(t, ds, 5)

	require.Equal(t, model.CategoryBase, ds[0].Category)
	require.Equal(t, "fib", ds[1].Name)
	require.Equal(t, model.CategoryMain, ds[1].Category)
	require.Equal(t, model.CategoryData, ds[2].Category)
	require.Equal(t, model.EvalModule, ds[3].Mode)
	require.Equal(t, model.CategoryRunner, ds[4].Category)
	require.Equal(t, filepath.Join("/root", "run.js"), ds[4].SourcePath)
}

func TestLoadSuite_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: "name: x\n"},
		{name: "missing path", content: "tests:\n  - name: a\n"},
		{name: "bad mode", content: "tests:\n  - path: a.js\n    mode: esm\n"},
		{name: "bad yaml", content: "tests: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "suite.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := LoadSuite(path)
			require.Error(t, err)
		})
	}
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(content), 0644))
	return dir
}

func TestFromManifest(t *testing.T) {
	dir := writeManifest(t, "fib\n\nloop\r\n")

	c, err := FromManifest(zerolog.Nop(), "sunspider", dir, "", DefaultClassifier)
	require.NoError(t, err)

	var paths []string
	var cats []model.Category
	for _, d := range c.Descriptors() {
		paths = append(paths, d.SourcePath)
		cats = append(cats, d.Category)
	}
	require.Equal(t, []string{
		filepath.Join(dir, "fib-data.js"),
		filepath.Join(dir, "fib.js"),
		filepath.Join(dir, "loop-data.js"),
		filepath.Join(dir, "loop.js"),
	}, paths)
	require.Equal(t, []model.Category{
		model.CategoryData, model.CategoryMain, model.CategoryData, model.CategoryMain,
	}, cats)
}

func TestFromManifest_Filter(t *testing.T) {
	dir := writeManifest(t, "fib\nloop\nsort\n")

	c, err := FromManifest(zerolog.Nop(), "sunspider", dir, "loop", DefaultClassifier)
	require.NoError(t, err)
	ds := c.Descriptors()
	require.Len(t, ds, 2)
	require.Equal(t, filepath.Join(dir, "loop-data.js"), ds[0].SourcePath)
	require.Equal(t, filepath.Join(dir, "loop.js"), ds[1].SourcePath)

	c, err = FromManifest(zerolog.Nop(), "sunspider", dir, "absent", DefaultClassifier)
	require.NoError(t, err)
	require.Zero(t, c.Len())
}

func TestFromManifest_Missing(t *testing.T) {
	_, err := FromManifest(zerolog.Nop(), "x", t.TempDir(), "", DefaultClassifier)
	var merr *ManifestError
	require.ErrorAs(t, err, &merr)
	require.ErrorIs(t, err, os.ErrNotExist)
}
