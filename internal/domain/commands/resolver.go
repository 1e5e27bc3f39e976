package commands

import (
	"context"
	"fmt"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	"github.com/rios0rios0/reqlint/internal/domain/repositories"
)

// treeResolver follows -r and -c directives depth-first, loading every
// manifest once. Include paths are relative to the including manifest.
type treeResolver struct {
	repo     repositories.ManifestRepository
	tree     *entities.Tree
	loaded   map[string]bool
	visiting map[string]bool
}

// resolveTree loads path and everything it includes. Only a failure to load
// the root manifest is returned as an error; include failures are recorded
// in the tree.
func resolveTree(
	ctx context.Context,
	repo repositories.ManifestRepository,
	path string,
) (*entities.Tree, error) {
	root, err := repo.Load(ctx, filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	resolver := &treeResolver{
		repo:     repo,
		tree:     &entities.Tree{Constraints: make(map[string]bool)},
		loaded:   make(map[string]bool),
		visiting: make(map[string]bool),
	}
	resolver.visit(ctx, root, false)
	return resolver.tree, nil
}

func (r *treeResolver) visit(ctx context.Context, manifest *entities.Manifest, constraint bool) {
	r.tree.Manifests = append(r.tree.Manifests, manifest)
	r.loaded[manifest.Path] = true
	if constraint {
		r.tree.Constraints[manifest.Path] = true
	}

	r.visiting[manifest.Path] = true
	defer delete(r.visiting, manifest.Path)

	for _, include := range manifest.Includes() {
		target := include.Path
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(manifest.Path), target)
		}
		target = filepath.Clean(target)
		childConstraint := constraint || include.Kind == entities.IncludeConstraints

		switch {
		case r.visiting[target]:
			r.fail(manifest, include, target, fmt.Errorf("%w: %s includes itself", entities.ErrIncludeCycle, target))
			continue
		case r.loaded[target]:
			if !childConstraint {
				delete(r.tree.Constraints, target)
			}
			continue
		}

		child, err := r.repo.Load(ctx, target)
		if err != nil {
			r.fail(manifest, include, target, err)
			continue
		}
		logger.Debugf("Following %s %s from %s", include.Flag, target, manifest.Path)
		if len(child.Errors) > 0 {
			r.fail(manifest, include, target, child.Errors[0])
		}
		r.visit(ctx, child, childConstraint)
	}
}

func (r *treeResolver) fail(from *entities.Manifest, include *entities.Include, target string, err error) {
	r.tree.Failures = append(r.tree.Failures, entities.IncludeFailure{
		From:    from.Path,
		Include: include,
		Path:    target,
		Err:     err,
	})
}
