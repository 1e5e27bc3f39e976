package filesystem

import (
	"context"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	"github.com/rios0rios0/reqlint/internal/domain/repositories"
)

const defaultFileMode = 0o644

// ManifestRepository reads and writes manifests on the local filesystem.
type ManifestRepository struct{}

// NewManifestRepository creates a filesystem-backed ManifestRepository.
func NewManifestRepository() repositories.ManifestRepository {
	return &ManifestRepository{}
}

// Load opens and parses the manifest at path.
func (r *ManifestRepository) Load(_ context.Context, path string) (*entities.Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest %q: %w", path, err)
	}
	defer file.Close()

	logger.Debugf("Parsing manifest %s", path)
	return entities.ParseManifest(path, file)
}

// Save writes content to path, keeping the existing file mode.
func (r *ManifestRepository) Save(_ context.Context, path, content string) error {
	mode := os.FileMode(defaultFileMode)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write manifest %q: %w", path, err)
	}
	return nil
}
