package entities

import (
	"fmt"
	"io"
)

// Dependency is a pinned requirement checked against the package index.
type Dependency struct {
	Name       string   `json:"name"                  yaml:"name"`
	CurrentVer string   `json:"current"               yaml:"current"`
	LatestVer  string   `json:"latest,omitempty"      yaml:"latest,omitempty"`
	FilePath   string   `json:"file"                  yaml:"file"`
	Line       int      `json:"line"                  yaml:"line"`
	Bump       BumpKind `json:"bump,omitempty"        yaml:"bump,omitempty"`
	SkipReason string   `json:"skip_reason,omitempty" yaml:"skip_reason,omitempty"`
}

// Outdated reports whether a newer version was selected.
func (d Dependency) Outdated() bool {
	return d.LatestVer != "" && d.LatestVer != d.CurrentVer && d.SkipReason == ""
}

// FileChange represents a file modification produced by a command.
type FileChange struct {
	Path       string
	Content    string
	ChangeType string // "edit" or "unchanged"
}

// UpgradeList is the output of "upgrade".
type UpgradeList []Dependency

// WriteText prints one dependency per line.
func (l UpgradeList) WriteText(w io.Writer) error {
	for _, dep := range l {
		var line string
		switch {
		case dep.SkipReason != "":
			line = fmt.Sprintf("%s==%s skipped: %s", dep.Name, dep.CurrentVer, dep.SkipReason)
		case dep.Outdated():
			line = fmt.Sprintf("%s %s -> %s (%s)", dep.Name, dep.CurrentVer, dep.LatestVer, dep.Bump)
		default:
			line = fmt.Sprintf("%s==%s up to date", dep.Name, dep.CurrentVer)
		}
		if _, err := fmt.Fprintf(w, "%s:%d: %s\n", dep.FilePath, dep.Line, line); err != nil {
			return err
		}
	}
	return nil
}

// Release is one version published on a package index.
type Release struct {
	Version string
	Yanked  bool
}
