package model

import "time"

// HistoryType represents the catalog mode a run was started with
type HistoryType string

const (
	HistoryTypeStatic   HistoryType = "static"
	HistoryTypeManifest HistoryType = "manifest"
)

// History represents a single jsbench run. It is written next to the
// reports of the run so previous runs can be listed and viewed.
type History struct {
	// Unique ID for this run
	ID string `json:"id"`
	// How the catalog was built
	Type HistoryType `json:"type"`
	// Timestamp when the run started
	Timestamp time.Time `json:"timestamp"`
	// Command-line arguments (including command name)
	Args []string `json:"args"`
	// Shell-quoted command line to reproduce the run
	Command string `json:"command,omitempty"`
	// Working directory the run was started from
	WorkDir string `json:"workdir"`
	// Exit code of the run
	ExitCode int `json:"exit_code"`
	// Duration of the run
	Duration time.Duration `json:"duration"`
	// Git information
	Git *Git `json:"git,omitempty"`
	// Execution environment
	Target *Target `json:"target,omitempty"`
	// Benchmark suite label
	Suite string `json:"suite"`
	// VM label used for namespacing the results
	VM string `json:"vm"`
	// Final summary (nil when the run aborted before finishing)
	Summary *RunSummary `json:"summary,omitempty"`
	// Artifacts generated during this run
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// Git contains git repository information
type Git struct {
	Commit string `json:"commit,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// Target contains information about the execution environment
type Target struct {
	OS        string `json:"os,omitempty"`
	Arch      string `json:"arch,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
	Engine    string `json:"engine,omitempty"`
}

// ArtifactType identifies the type of artifact
type ArtifactType uint8

const (
	ArtifactTypeResultsCSV ArtifactType = iota
	ArtifactTypeSummary
	ArtifactTypePprofProfile
	ArtifactTypePromTextfile
)

func (t ArtifactType) String() string {
	switch t {
	case ArtifactTypeResultsCSV:
		return "csv"
	case ArtifactTypeSummary:
		return "summary"
	case ArtifactTypePprofProfile:
		return "profile"
	case ArtifactTypePromTextfile:
		return "metrics"
	}
	return "unknown"
}

// Artifact represents a file generated during a run
type Artifact struct {
	Type ArtifactType `json:"type"`
	Size uint64       `json:"size"`
	File string       `json:"file"` // relative to the VM results dir
}
