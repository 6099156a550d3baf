package ports

import (
	"context"
)

// GitInfo holds git repository context information.
type GitInfo struct {
	Branch     string
	Commit     string
	IsClean    bool
	Repository string
}

// GitDetector defines the interface for git context detection.
// Completed work sessions are stamped with the branch and commit.
type GitDetector interface {
	// Detect scans workingDir (or its parents) for a repository.
	Detect(ctx context.Context, workingDir string) (*GitInfo, error)

	// IsAvailable checks if git context can be detected at all.
	IsAvailable() bool
}
