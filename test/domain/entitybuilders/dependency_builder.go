//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/reqlint/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DependencyBuilder helps create test dependencies with a fluent interface.
type DependencyBuilder struct {
	*testkit.BaseBuilder
	name       string
	currentVer string
	latestVer  string
	filePath   string
	line       int
	skipReason string
}

// NewDependencyBuilder creates a new dependency builder with sensible defaults.
func NewDependencyBuilder() *DependencyBuilder {
	return &DependencyBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "lz4",
		currentVer:  "3.1.0",
		latestVer:   "4.0.0",
		filePath:    "requirements.txt",
		line:        1,
	}
}

// WithName sets the dependency name.
func (b *DependencyBuilder) WithName(name string) *DependencyBuilder {
	b.name = name
	return b
}

// WithCurrentVer sets the current version.
func (b *DependencyBuilder) WithCurrentVer(version string) *DependencyBuilder {
	b.currentVer = version
	return b
}

// WithLatestVer sets the latest version.
func (b *DependencyBuilder) WithLatestVer(version string) *DependencyBuilder {
	b.latestVer = version
	return b
}

// WithFilePath sets the file path.
func (b *DependencyBuilder) WithFilePath(path string) *DependencyBuilder {
	b.filePath = path
	return b
}

// WithLine sets the line number.
func (b *DependencyBuilder) WithLine(line int) *DependencyBuilder {
	b.line = line
	return b
}

// WithSkipReason marks the dependency as skipped.
func (b *DependencyBuilder) WithSkipReason(reason string) *DependencyBuilder {
	b.skipReason = reason
	return b
}

// Build creates the dependency (satisfies testkit.Builder interface).
func (b *DependencyBuilder) Build() interface{} {
	return b.BuildDependency()
}

// BuildDependency creates the dependency with a concrete return type.
func (b *DependencyBuilder) BuildDependency() entities.Dependency {
	dep := entities.Dependency{
		Name:       b.name,
		CurrentVer: b.currentVer,
		LatestVer:  b.latestVer,
		FilePath:   b.filePath,
		Line:       b.line,
		SkipReason: b.skipReason,
	}
	current, currentErr := entities.ParseVersion(b.currentVer)
	latest, latestErr := entities.ParseVersion(b.latestVer)
	if currentErr == nil && latestErr == nil {
		dep.Bump = current.BumpKind(latest)
	}
	return dep
}

// Reset clears the builder state, allowing it to be reused.
func (b *DependencyBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "lz4"
	b.currentVer = "3.1.0"
	b.latestVer = "4.0.0"
	b.filePath = "requirements.txt"
	b.line = 1
	b.skipReason = ""
	return b
}

// Clone creates a deep copy of the DependencyBuilder.
func (b *DependencyBuilder) Clone() testkit.Builder {
	return &DependencyBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		currentVer:  b.currentVer,
		latestVer:   b.latestVer,
		filePath:    b.filePath,
		line:        b.line,
		skipReason:  b.skipReason,
	}
}
