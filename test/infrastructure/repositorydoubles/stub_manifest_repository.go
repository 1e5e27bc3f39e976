//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"io/fs"
	"sync"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	"github.com/rios0rios0/reqlint/internal/domain/repositories"
)

// SpyManifestRepository implements repositories.ManifestRepository over an
// in-memory file map and records every write.
type SpyManifestRepository struct {
	mu sync.Mutex

	// --- Load ---
	Files     map[string]string
	LoadErr   error
	LoadCalls []string

	// --- Save ---
	Saved   map[string]string
	SaveErr error
}

var _ repositories.ManifestRepository = (*SpyManifestRepository)(nil)

func (r *SpyManifestRepository) Load(_ context.Context, path string) (*entities.Manifest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.LoadCalls = append(r.LoadCalls, path)
	if r.LoadErr != nil {
		return nil, r.LoadErr
	}
	content, ok := r.Files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return entities.ParseManifestString(path, content), nil
}

func (r *SpyManifestRepository) Save(_ context.Context, path, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.SaveErr != nil {
		return r.SaveErr
	}
	if r.Saved == nil {
		r.Saved = make(map[string]string)
	}
	r.Saved[path] = content
	return nil
}

// StubRevisionRepository implements repositories.RevisionRepository with
// content keyed by "rev:path".
type StubRevisionRepository struct {
	Files map[string]string
}

var _ repositories.RevisionRepository = (*StubRevisionRepository)(nil)

func (r *StubRevisionRepository) Load(_ context.Context, rev, path string) (*entities.Manifest, error) {
	key := rev + ":" + path
	content, ok := r.Files[key]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: key, Err: fs.ErrNotExist}
	}
	return entities.ParseManifestString(key, content), nil
}
