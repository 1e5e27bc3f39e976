package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	domainRepos "github.com/rios0rios0/reqlint/internal/domain/repositories"
)

// IndexFactory creates an IndexRepository from the index settings.
type IndexFactory func(settings entities.IndexSettings) domainRepos.IndexRepository

// IndexRegistry manages all registered package index implementations.
type IndexRegistry struct {
	indexes map[string]IndexFactory
}

// NewIndexRegistry creates an empty index registry.
func NewIndexRegistry() *IndexRegistry {
	return &IndexRegistry{
		indexes: make(map[string]IndexFactory),
	}
}

// Register adds an index factory under the given name (e.g. "pypi").
func (r *IndexRegistry) Register(name string, factory IndexFactory) {
	r.indexes[name] = factory
}

// Get returns a configured index client for settings.Type.
func (r *IndexRegistry) Get(settings entities.IndexSettings) (domainRepos.IndexRepository, error) {
	factory, ok := r.indexes[settings.Type]
	if !ok {
		return nil, fmt.Errorf("unknown index type: %q", settings.Type)
	}
	return factory(settings), nil
}

// Names returns the sorted list of registered index names.
func (r *IndexRegistry) Names() []string {
	names := make([]string, 0, len(r.indexes))
	for name := range r.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
