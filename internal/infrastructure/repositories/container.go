package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/reqlint/internal/infrastructure/repositories/filesystem"
	"github.com/rios0rios0/reqlint/internal/infrastructure/repositories/git"
	"github.com/rios0rios0/reqlint/internal/infrastructure/repositories/pypi"
	"github.com/rios0rios0/reqlint/internal/infrastructure/repositories/writers"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Manifest storage: working tree and Git history
	if err := container.Provide(filesystem.NewManifestRepository); err != nil {
		return err
	}
	if err := container.Provide(git.NewRevisionRepository); err != nil {
		return err
	}

	// Register index registry with all index factories
	if err := container.Provide(func() *IndexRegistry {
		reg := NewIndexRegistry()
		reg.Register("pypi", pypi.NewIndexRepository)
		return reg
	}); err != nil {
		return err
	}

	// Register writer registry with every output format
	if err := container.Provide(func() *WriterRegistry {
		reg := NewWriterRegistry()
		reg.Register(writers.NewTextWriter())
		reg.Register(writers.NewJSONWriter())
		reg.Register(writers.NewYAMLWriter())
		return reg
	}); err != nil {
		return err
	}

	return nil
}
