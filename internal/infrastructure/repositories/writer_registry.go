package repositories

import (
	"fmt"
	"sort"

	domainRepos "github.com/rios0rios0/reqlint/internal/domain/repositories"
)

// WriterRegistry manages the output formats selectable with --output.
type WriterRegistry struct {
	writers map[string]domainRepos.ReportWriter
}

// NewWriterRegistry creates an empty writer registry.
func NewWriterRegistry() *WriterRegistry {
	return &WriterRegistry{
		writers: make(map[string]domainRepos.ReportWriter),
	}
}

// Register adds a writer under its name.
func (r *WriterRegistry) Register(w domainRepos.ReportWriter) {
	r.writers[w.Name()] = w
}

// Get returns the writer for the given format.
func (r *WriterRegistry) Get(name string) (domainRepos.ReportWriter, error) {
	w, ok := r.writers[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %v)", name, r.Names())
	}
	return w, nil
}

// Names returns the sorted list of registered formats.
func (r *WriterRegistry) Names() []string {
	names := make([]string, 0, len(r.writers))
	for name := range r.writers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
