package catalog

// manifest.go builds catalogs from a benchmark folder's LIST file.

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/perfgo/jsbench/model"
	"github.com/rs/zerolog"
)

// ManifestFile is the name of the manifest inside a benchmark folder.
const ManifestFile = "LIST"

// ManifestError reports a manifest that could not be read. It is fatal for
// the run since no tests can be discovered.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("cannot open manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// FromManifest reads dir/LIST and emits a data and a main descriptor per
// non-empty line. When filter is set, lines not equal to it are skipped.
func FromManifest(logger zerolog.Logger, name, dir, filter string, cl Classifier) (*Catalog, error) {
	listPath := filepath.Join(dir, ManifestFile)
	f, err := os.Open(listPath)
	if err != nil {
		return nil, &ManifestError{Path: listPath, Err: err}
	}
	defer f.Close()

	c := &Catalog{name: name}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if filter != "" && line != filter {
			logger.Info().Str("test", line).Msg("Skipping")
			continue
		}

		for _, file := range []string{line + "-data.js", line + ".js"} {
			path := filepath.Join(dir, file)
			c.descriptors = append(c.descriptors, model.TestDescriptor{
				Name:       path,
				SourcePath: path,
				Mode:       model.EvalGlobal,
				Category:   cl.Classify(path),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ManifestError{Path: listPath, Err: err}
	}

	logger.Debug().
		Str("manifest", listPath).
		Int("tests", len(c.descriptors)).
		Msg("Loaded manifest")

	return c, nil
}
