package cli

// This file contains Git integration utilities for tagging runs with the
// revision of the benchmark checkout.

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/perfgo/jsbench/model"
)

// gitInfo returns commit and branch of the repository containing dir.
func gitInfo(dir string) (*model.Git, error) {
	commit, err := gitOutput(dir, "rev-parse", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to get git commit: %w", err)
	}

	branch, err := gitOutput(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to get git branch: %w", err)
	}

	return &model.Git{
		Commit: commit,
		Branch: branch,
	}, nil
}

func gitOutput(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}
