package commands

import (
	"context"
	"fmt"
	"io"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	"github.com/rios0rios0/reqlint/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/reqlint/internal/infrastructure/repositories"
)

// List is the interface for the list command.
type List interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ListOptions) (entities.RequirementList, error)
}

// ListOptions holds runtime options for a list run.
type ListOptions struct {
	File     string
	Python   string            // e.g. "3.6"
	Platform string            // e.g. "linux", "windows"
	Env      map[string]string // raw marker variable overrides
	Output   string
	Writer   io.Writer
}

// ListCommand prints the requirements that apply to one environment.
type ListCommand struct {
	manifestRepo   repositories.ManifestRepository
	writerRegistry *infraRepos.WriterRegistry
}

// NewListCommand creates a new ListCommand.
func NewListCommand(
	manifestRepo repositories.ManifestRepository,
	writerRegistry *infraRepos.WriterRegistry,
) *ListCommand {
	return &ListCommand{
		manifestRepo:   manifestRepo,
		writerRegistry: writerRegistry,
	}
}

// Execute flattens the include tree of opts.File and drops every
// requirement whose marker is false in the selected environment.
func (it *ListCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts ListOptions,
) (entities.RequirementList, error) {
	writer, err := it.writerRegistry.Get(outputOrDefault(opts.Output))
	if err != nil {
		return nil, err
	}

	env, err := settings.MarkerEnvironment(opts.Python, opts.Platform, opts.Env)
	if err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	logger.Debugf("Evaluating markers for python %s on %s", env["python_version"], env["sys_platform"])

	file := opts.File
	if file == "" {
		file = settings.Files[0]
	}
	tree, err := resolveTree(ctx, it.manifestRepo, file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", file, err)
	}
	for _, failure := range tree.Failures {
		logger.Warnf("%s:%d: %v", failure.From, failure.Include.Line, failure.Err)
	}

	list := entities.RequirementList(tree.Flatten(env))
	if list == nil {
		list = entities.RequirementList{}
	}
	if opts.Writer != nil {
		if writeErr := writer.Write(opts.Writer, list); writeErr != nil {
			return list, writeErr
		}
	}
	return list, nil
}
