package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	"github.com/rios0rios0/reqlint/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/reqlint/internal/infrastructure/repositories"
)

const maxConcurrentLookups = 8

// Upgrade is the interface for the upgrade command.
type Upgrade interface {
	Execute(ctx context.Context, settings *entities.Settings, opts UpgradeOptions) (entities.UpgradeList, error)
}

// UpgradeOptions holds runtime options for an upgrade run.
type UpgradeOptions struct {
	File      string
	DryRun    bool
	Pre       bool     // also consider pre-releases
	Only      []string // limit the run to these packages
	Changelog string   // CHANGELOG.md to record the new pins in
	Output    string
	Writer    io.Writer
}

// candidate is a pinned requirement eligible for an upgrade.
type candidate struct {
	manifest    *entities.Manifest
	line        *entities.Line
	requirement *entities.Requirement
}

// skipReason tells why the pin must not be touched, or "" when it may move.
func (c candidate) skipReason() string {
	if directive, ok := c.line.Pyup(); ok && directive.Ignore {
		return "pyup: ignore"
	}
	if len(c.requirement.Hashes()) > 0 {
		return "pinned with --hash"
	}
	return ""
}

// lookup is the outcome of one index query.
type lookup struct {
	releases []entities.Release
	err      error
}

// UpgradeCommand moves "==" pins to the newest release on the package index.
type UpgradeCommand struct {
	manifestRepo   repositories.ManifestRepository
	indexRegistry  *infraRepos.IndexRegistry
	writerRegistry *infraRepos.WriterRegistry
}

// NewUpgradeCommand creates a new UpgradeCommand.
func NewUpgradeCommand(
	manifestRepo repositories.ManifestRepository,
	indexRegistry *infraRepos.IndexRegistry,
	writerRegistry *infraRepos.WriterRegistry,
) *UpgradeCommand {
	return &UpgradeCommand{
		manifestRepo:   manifestRepo,
		indexRegistry:  indexRegistry,
		writerRegistry: writerRegistry,
	}
}

// Execute checks every pin of the include tree against the index and
// rewrites the manifests whose pins moved.
func (it *UpgradeCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts UpgradeOptions,
) (entities.UpgradeList, error) {
	writer, err := it.writerRegistry.Get(outputOrDefault(opts.Output))
	if err != nil {
		return nil, err
	}
	index, err := it.indexRegistry.Get(settings.Index)
	if err != nil {
		return nil, err
	}

	file := opts.File
	if file == "" {
		file = settings.Files[0]
	}
	tree, err := resolveTree(ctx, it.manifestRepo, file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", file, err)
	}
	for _, manifest := range tree.Manifests {
		if len(manifest.Errors) > 0 {
			return nil, fmt.Errorf("refusing to upgrade %s: %w", manifest.Path, manifest.Errors[0])
		}
	}

	candidates := collectCandidates(tree, opts.Only)
	logger.Infof("Checking %d pinned requirement(s) against %s", len(candidates), index.Name())

	lookups, err := prefetchReleases(ctx, index, candidates)
	if err != nil {
		return nil, err
	}

	list := entities.UpgradeList{}
	touched := make(map[*entities.Manifest]bool)
	for _, c := range candidates {
		dep := evaluateCandidate(c, lookups[c.requirement.NormalizedName()], opts.Pre)
		if dep.Outdated() {
			if pinErr := c.requirement.SetPin(dep.LatestVer); pinErr != nil {
				return list, pinErr
			}
			touched[c.manifest] = true
			logger.Infof("%s: %s %s -> %s", c.manifest.Path, dep.Name, dep.CurrentVer, dep.LatestVer)
		}
		list = append(list, dep)
	}

	if !opts.DryRun {
		if saveErr := it.save(ctx, tree, touched); saveErr != nil {
			return list, saveErr
		}
		if opts.Changelog != "" {
			if clErr := updateChangelog(opts.Changelog, list); clErr != nil {
				return list, clErr
			}
		}
	} else if len(touched) > 0 {
		logger.Infof("[dry-run] %d manifest(s) would be updated", len(touched))
	}

	if opts.Writer != nil {
		if writeErr := writer.Write(opts.Writer, list); writeErr != nil {
			return list, writeErr
		}
	}
	return list, nil
}

// save writes back the touched manifests in tree order.
func (it *UpgradeCommand) save(ctx context.Context, tree *entities.Tree, touched map[*entities.Manifest]bool) error {
	for _, manifest := range tree.Manifests {
		if !touched[manifest] {
			continue
		}
		if err := it.manifestRepo.Save(ctx, manifest.Path, manifest.String()); err != nil {
			return fmt.Errorf("failed to write %s: %w", manifest.Path, err)
		}
	}
	return nil
}

// collectCandidates returns every exact pin, optionally restricted to names in only.
func collectCandidates(tree *entities.Tree, only []string) []candidate {
	allowed := make(map[string]bool, len(only))
	for _, name := range only {
		allowed[entities.NormalizeName(name)] = true
	}

	var candidates []candidate
	for _, manifest := range tree.Manifests {
		for _, line := range manifest.Lines {
			if line.Kind != entities.LineRequirement {
				continue
			}
			requirement := line.Requirement
			if pin, ok := requirement.Specifiers.Pin(); !ok || pin.Operator != entities.OpEqual {
				continue
			}
			if len(allowed) > 0 && !allowed[requirement.NormalizedName()] {
				continue
			}
			candidates = append(candidates, candidate{manifest: manifest, line: line, requirement: requirement})
		}
	}
	return candidates
}

// prefetchReleases queries the index once per project, concurrently.
// Per-project failures are kept for the report; only cancellation aborts.
func prefetchReleases(
	ctx context.Context,
	index repositories.IndexRepository,
	candidates []candidate,
) (map[string]lookup, error) {
	lookups := make(map[string]lookup)
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	queued := make(map[string]bool)
	for _, c := range candidates {
		name := c.requirement.NormalizedName()
		if queued[name] || c.skipReason() != "" {
			continue
		}
		queued[name] = true

		g.Go(func() error {
			releases, err := index.Releases(gCtx, name)
			if err != nil && gCtx.Err() != nil {
				return gCtx.Err()
			}
			mu.Lock()
			lookups[name] = lookup{releases: releases, err: err}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to query the package index: %w", err)
	}
	return lookups, nil
}

// evaluateCandidate picks the newest acceptable release for one pin.
func evaluateCandidate(c candidate, result lookup, pre bool) entities.Dependency {
	current, _ := c.requirement.Specifiers.Pin()
	dep := entities.Dependency{
		Name:       c.requirement.Name,
		CurrentVer: current.VersionText,
		LatestVer:  current.VersionText,
		FilePath:   c.manifest.Path,
		Line:       c.requirement.Line,
		Bump:       entities.BumpNone,
	}

	directive, hasDirective := c.line.Pyup()
	switch reason := c.skipReason(); {
	case reason != "":
		dep.SkipReason = reason
		return dep
	case errors.Is(result.err, entities.ErrProjectNotFound):
		dep.SkipReason = "not found on the index"
		return dep
	case result.err != nil:
		dep.SkipReason = result.err.Error()
		return dep
	}

	allowPre := pre || current.Version.IsPrerelease()
	best := current.Version
	for _, release := range result.releases {
		if release.Yanked {
			continue
		}
		version, err := entities.ParseVersion(release.Version)
		if err != nil {
			logger.Debugf("Ignoring %s release %q: %v", dep.Name, release.Version, err)
			continue
		}
		if version.IsPrerelease() && !allowPre {
			continue
		}
		if hasDirective && len(directive.Limit) > 0 && !directive.Limit.Contains(version, true) {
			continue
		}
		if version.Compare(best) > 0 {
			best = version
		}
	}

	if best.Compare(current.Version) > 0 {
		dep.LatestVer = best.Raw()
		dep.Bump = current.Version.BumpKind(best)
	}
	return dep
}

// updateChangelog records the moved pins under the Unreleased section.
func updateChangelog(path string, list entities.UpgradeList) error {
	entries := entities.UpgradeChangelogEntries(list)
	if len(entries) == 0 {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warnf("Changelog %s not found, skipping", path)
			return nil
		}
		return fmt.Errorf("failed to read changelog: %w", err)
	}

	updated := entities.InsertChangelogEntry(string(content), entries)
	if updated == string(content) {
		logger.Warnf("Changelog %s has no [Unreleased] section, skipping", path)
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat changelog: %w", err)
	}
	if err = os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write changelog: %w", err)
	}
	logger.Infof("Recorded %d pin change(s) in %s", len(entries), path)
	return nil
}
