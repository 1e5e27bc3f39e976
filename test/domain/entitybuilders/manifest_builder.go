//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"strings"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ManifestBuilder assembles manifest text line by line.
type ManifestBuilder struct {
	*testkit.BaseBuilder
	path  string
	lines []string
}

// NewManifestBuilder creates a builder for an empty requirements.txt.
func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		path:        entities.DefaultManifest,
	}
}

// WithPath sets the manifest path.
func (b *ManifestBuilder) WithPath(path string) *ManifestBuilder {
	b.path = path
	return b
}

// WithLine appends a raw line.
func (b *ManifestBuilder) WithLine(line string) *ManifestBuilder {
	b.lines = append(b.lines, line)
	return b
}

// WithRequirement appends "name==version".
func (b *ManifestBuilder) WithRequirement(name, version string) *ManifestBuilder {
	return b.WithLine(name + "==" + version)
}

// WithInclude appends "-r path".
func (b *ManifestBuilder) WithInclude(path string) *ManifestBuilder {
	return b.WithLine("-r " + path)
}

// Path returns the manifest path.
func (b *ManifestBuilder) Path() string { return b.path }

// Content returns the manifest text, newline terminated.
func (b *ManifestBuilder) Content() string {
	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}

// Build creates the manifest (satisfies testkit.Builder interface).
func (b *ManifestBuilder) Build() interface{} {
	return b.BuildManifest()
}

// BuildManifest parses the accumulated content.
func (b *ManifestBuilder) BuildManifest() *entities.Manifest {
	return entities.ParseManifestString(b.path, b.Content())
}

// Reset clears the builder state, allowing it to be reused.
func (b *ManifestBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.path = entities.DefaultManifest
	b.lines = nil
	return b
}

// Clone creates a deep copy of the ManifestBuilder.
func (b *ManifestBuilder) Clone() testkit.Builder {
	return &ManifestBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		path:        b.path,
		lines:       append([]string(nil), b.lines...),
	}
}
