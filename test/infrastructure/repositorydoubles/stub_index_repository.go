//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	"github.com/rios0rios0/reqlint/internal/domain/repositories"
)

// SpyIndexRepository implements repositories.IndexRepository with canned
// releases per normalized project name.
type SpyIndexRepository struct {
	mu sync.Mutex

	IndexName string
	Projects  map[string][]entities.Release
	Errors    map[string]error
	Queried   []string
}

var _ repositories.IndexRepository = (*SpyIndexRepository)(nil)

func (i *SpyIndexRepository) Name() string {
	if i.IndexName == "" {
		return "spy"
	}
	return i.IndexName
}

func (i *SpyIndexRepository) Releases(_ context.Context, project string) ([]entities.Release, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.Queried = append(i.Queried, project)
	if err, ok := i.Errors[project]; ok {
		return nil, err
	}
	releases, ok := i.Projects[project]
	if !ok {
		return nil, entities.ErrProjectNotFound
	}
	return releases, nil
}

// Releases builds a non-yanked release list from version strings.
func Releases(versions ...string) []entities.Release {
	releases := make([]entities.Release, 0, len(versions))
	for _, version := range versions {
		releases = append(releases, entities.Release{Version: version})
	}
	return releases
}
