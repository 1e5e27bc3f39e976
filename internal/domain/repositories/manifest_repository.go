package repositories

import (
	"context"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
)

// ManifestRepository reads and writes manifests on the working tree.
type ManifestRepository interface {
	// Load reads and parses the manifest at path. A missing file yields an
	// error matching fs.ErrNotExist.
	Load(ctx context.Context, path string) (*entities.Manifest, error)

	// Save replaces the content of the manifest at path.
	Save(ctx context.Context, path, content string) error
}

// RevisionRepository reads manifests as they were committed at a revision.
type RevisionRepository interface {
	// Load reads path (relative to the working directory) at rev, e.g. "HEAD~1".
	Load(ctx context.Context, rev, path string) (*entities.Manifest, error)
}
