package repositories

import (
	"context"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
)

// IndexRepository abstracts a package index (PyPI or a mirror of it).
type IndexRepository interface {
	// Name returns the index identifier (e.g. "pypi").
	Name() string

	// Releases lists every published version of the project.
	Releases(ctx context.Context, project string) ([]entities.Release, error)
}
