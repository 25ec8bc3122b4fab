package history

// This file contains shared history utilities for recording, loading and
// selecting benchmark runs stored in the results directory.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/perfgo/jsbench/model"
	"github.com/rs/zerolog"
)

// RunFileSuffix is appended to the suite name to form the run record file.
const RunFileSuffix = "_run.json"

type Entry struct {
	History model.History
	// Directory holding the run record and its artifacts
	Dir string
}

// RunFileName returns the run record file name for suite.
func RunFileName(suite string) string {
	return suite + RunFileSuffix
}

// Write stores h as JSON in dir, replacing the previous record of the suite.
func Write(dir string, h *model.History) (string, error) {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run record: %w", err)
	}

	path := filepath.Join(dir, RunFileName(h.Suite))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run record: %w", err)
	}
	return path, nil
}

// LoadEntries loads all run records below resultsRoot, newest first.
func LoadEntries(logger zerolog.Logger, resultsRoot string) ([]Entry, error) {
	if _, err := os.Stat(resultsRoot); os.IsNotExist(err) {
		return nil, fmt.Errorf("no runs found in %s", resultsRoot)
	}

	var entries []Entry

	err := filepath.WalkDir(resultsRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(d.Name(), RunFileSuffix) {
			return nil
		}

		h, err := parseRunJSON(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to parse run record")
			return nil
		}

		entries = append(entries, Entry{
			History: h,
			Dir:     filepath.Dir(path),
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk results directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].History.Timestamp.After(entries[j].History.Timestamp)
	})

	return entries, nil
}

// Find selects an entry from newest-first entries. arg is either 0 or a
// negative index (0=last, -1=second-to-last, ...) or a run ID prefix.
func Find(entries []Entry, arg string) (*Entry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no history entries found")
	}

	if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if parsed > 0 {
			return nil, fmt.Errorf("invalid index: %s (use 0 for last, -1 for second-to-last, -2 for third-to-last, etc.)", arg)
		}
		index := int(-parsed)
		if index >= len(entries) {
			return nil, fmt.Errorf("index %s out of range (only %d history entries)", arg, len(entries))
		}
		return &entries[index], nil
	}

	prefix := strings.ToLower(arg)
	for i := range entries {
		if strings.HasPrefix(strings.ToLower(entries[i].History.ID), prefix) {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("no history entry found matching ID: %s", arg)
}

func parseRunJSON(path string) (model.History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.History{}, err
	}

	var h model.History
	if err := json.Unmarshal(data, &h); err != nil {
		return model.History{}, err
	}

	return h, nil
}
