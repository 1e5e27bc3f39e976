//go:build unit

package commands_test

import (
	infraRepos "github.com/rios0rios0/reqlint/internal/infrastructure/repositories"
	"github.com/rios0rios0/reqlint/internal/infrastructure/repositories/writers"
)

func newWriterRegistry() *infraRepos.WriterRegistry {
	registry := infraRepos.NewWriterRegistry()
	registry.Register(writers.NewTextWriter())
	registry.Register(writers.NewJSONWriter())
	registry.Register(writers.NewYAMLWriter())
	return registry
}
