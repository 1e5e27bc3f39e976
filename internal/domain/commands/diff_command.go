package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	"github.com/rios0rios0/reqlint/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/reqlint/internal/infrastructure/repositories"
)

// Diff is the interface for the diff command.
type Diff interface {
	Execute(ctx context.Context, opts DiffOptions) (*entities.Diff, error)
}

// DiffOptions holds runtime options for a diff run. Each operand is either
// a file path or "<rev>:<path>".
type DiffOptions struct {
	Old    string
	New    string
	Output string
	Writer io.Writer
}

// operand is a parsed diff argument.
type operand struct {
	rev  string // empty for the working tree
	path string
}

// DiffCommand compares two manifests package by package.
type DiffCommand struct {
	manifestRepo   repositories.ManifestRepository
	revisionRepo   repositories.RevisionRepository
	writerRegistry *infraRepos.WriterRegistry
}

// NewDiffCommand creates a new DiffCommand.
func NewDiffCommand(
	manifestRepo repositories.ManifestRepository,
	revisionRepo repositories.RevisionRepository,
	writerRegistry *infraRepos.WriterRegistry,
) *DiffCommand {
	return &DiffCommand{
		manifestRepo:   manifestRepo,
		revisionRepo:   revisionRepo,
		writerRegistry: writerRegistry,
	}
}

// Execute loads both operands and writes their difference.
func (it *DiffCommand) Execute(ctx context.Context, opts DiffOptions) (*entities.Diff, error) {
	writer, err := it.writerRegistry.Get(outputOrDefault(opts.Output))
	if err != nil {
		return nil, err
	}

	old, err := it.load(ctx, parseOperand(opts.Old))
	if err != nil {
		return nil, err
	}
	current, err := it.load(ctx, parseOperand(opts.New))
	if err != nil {
		return nil, err
	}

	diff := entities.ComputeDiff(old, current)
	if opts.Writer != nil {
		if writeErr := writer.Write(opts.Writer, diff); writeErr != nil {
			return diff, writeErr
		}
	}
	return diff, nil
}

func (it *DiffCommand) load(ctx context.Context, op operand) (*entities.Manifest, error) {
	var (
		manifest *entities.Manifest
		err      error
	)
	if op.rev == "" {
		manifest, err = it.manifestRepo.Load(ctx, op.path)
	} else {
		manifest, err = it.revisionRepo.Load(ctx, op.rev, op.path)
	}
	if err != nil {
		return nil, err
	}
	if len(manifest.Errors) > 0 {
		return nil, fmt.Errorf("cannot diff %s: %w", manifest.Path, manifest.Errors[0])
	}
	return manifest, nil
}

// parseOperand treats an existing file as a path; otherwise "rev:path"
// selects a Git revision, and a bare "rev:" means the default manifest.
func parseOperand(text string) operand {
	if _, err := os.Stat(text); err == nil {
		return operand{path: text}
	}
	rev, path, found := strings.Cut(text, ":")
	if !found || rev == "" {
		return operand{path: text}
	}
	if path == "" {
		path = entities.DefaultManifest
	}
	return operand{rev: rev, path: path}
}
