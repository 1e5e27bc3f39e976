package git

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	"github.com/rios0rios0/reqlint/internal/domain/repositories"
)

// RevisionRepository reads manifests from the Git history of the repository
// that contains them.
type RevisionRepository struct{}

// NewRevisionRepository creates a go-git backed RevisionRepository.
func NewRevisionRepository() repositories.RevisionRepository {
	return &RevisionRepository{}
}

// Load reads path as committed at rev. The manifest is labelled "<rev>:<path>".
func (r *RevisionRepository) Load(ctx context.Context, rev, path string) (*entities.Manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(filepath.Dir(absPath), &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository for %q: %w", path, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}
	relPath, err := filepath.Rel(worktree.Filesystem.Root(), absPath)
	if err != nil {
		return nil, fmt.Errorf("%q is outside the repository: %w", path, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %q: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", hash, err)
	}

	logger.Debugf("[git] Reading %s at %s (%s)", relPath, rev, hash.String()[:7])
	file, err := commit.File(filepath.ToSlash(relPath))
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, fmt.Errorf("%s not found at %s: %w", relPath, rev, fs.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s at %s: %w", relPath, rev, err)
	}

	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s at %s: %w", relPath, rev, err)
	}
	return entities.ParseManifestString(rev+":"+path, content), nil
}
