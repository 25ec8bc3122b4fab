package cli

// This file contains run recording functionality for saving run metadata
// next to the reports of a run.

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/perfgo/jsbench/history"
	"github.com/perfgo/jsbench/model"
)

// registerArtifact adds path to the run record. Files inside dir are stored
// relative to it.
func (a *App) registerArtifact(h *model.History, dir string, typ model.ArtifactType, path string) {
	info, err := os.Stat(path)
	if err != nil {
		a.logger.Debug().Err(err).Str("file", path).Msg("Artifact not written, skipping")
		return
	}

	file := path
	if rel, err := filepath.Rel(dir, path); err == nil && !strings.HasPrefix(rel, "..") {
		file = rel
	} else if abs, err := filepath.Abs(path); err == nil {
		file = abs
	}

	h.Artifacts = append(h.Artifacts, model.Artifact{
		Type: typ,
		Size: uint64(info.Size()),
		File: file,
	})
}

func (a *App) recordRun(dir string, h *model.History) error {
	path, err := history.Write(dir, h)
	if err != nil {
		return err
	}

	a.logger.Debug().Str("path", path).Str("id", h.ID).Msg("Recorded run")
	return nil
}
