package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	"github.com/rios0rios0/reqlint/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/reqlint/internal/infrastructure/repositories"
)

// Check is the interface for the check command.
type Check interface {
	Execute(ctx context.Context, settings *entities.Settings, opts CheckOptions) (*entities.Report, error)
}

// CheckOptions holds runtime options for a check run.
type CheckOptions struct {
	Files  []string // Falls back to settings.Files when empty
	Output string
	Writer io.Writer
}

// declaration remembers where a package was first declared in an include tree.
type declaration struct {
	file string
	line int
}

// CheckCommand validates manifests and everything they include.
type CheckCommand struct {
	manifestRepo   repositories.ManifestRepository
	writerRegistry *infraRepos.WriterRegistry
}

// NewCheckCommand creates a new CheckCommand.
func NewCheckCommand(
	manifestRepo repositories.ManifestRepository,
	writerRegistry *infraRepos.WriterRegistry,
) *CheckCommand {
	return &CheckCommand{
		manifestRepo:   manifestRepo,
		writerRegistry: writerRegistry,
	}
}

// Execute validates every file and writes the report in the selected format.
func (it *CheckCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts CheckOptions,
) (*entities.Report, error) {
	writer, err := it.writerRegistry.Get(outputOrDefault(opts.Output))
	if err != nil {
		return nil, err
	}

	files := opts.Files
	if len(files) == 0 {
		files = settings.Files
	}

	report := &entities.Report{Files: []string{}, Findings: []entities.Finding{}}
	checked := make(map[string]bool)

	for _, file := range files {
		tree, loadErr := resolveTree(ctx, it.manifestRepo, file)
		if loadErr != nil {
			return nil, fmt.Errorf("failed to load %q: %w", file, loadErr)
		}

		declared := make(map[string]declaration)
		for _, manifest := range tree.Manifests {
			if !checked[manifest.Path] {
				checked[manifest.Path] = true
				report.Files = append(report.Files, manifest.Path)
				checkManifest(manifest, settings, report)
			}
			if !tree.Constraints[manifest.Path] {
				checkCrossFileDuplicates(manifest, declared, settings, report)
			}
		}
		for _, failure := range tree.Failures {
			report.Add(includeFinding(failure, settings))
		}
	}

	report.Sort()
	logger.Debugf("Checked %d file(s), %d finding(s)", len(report.Files), len(report.Findings))

	if opts.Writer != nil {
		if writeErr := writer.Write(opts.Writer, report); writeErr != nil {
			return report, writeErr
		}
	}
	return report, nil
}

// checkManifest applies the single-file rules.
func checkManifest(manifest *entities.Manifest, settings *entities.Settings, report *entities.Report) {
	for _, parseErr := range manifest.Errors {
		rule := ruleForParseError(parseErr)
		report.Add(entities.Finding{
			Rule:     rule,
			Severity: settings.Severity(rule),
			File:     manifest.Path,
			Line:     parseErr.Line,
			Column:   parseErr.Column,
			Message:  parseErr.Err.Error(),
		})
	}

	for _, duplicate := range manifest.Duplicates() {
		for _, line := range duplicate.Lines[1:] {
			report.Add(entities.Finding{
				Rule:     entities.RuleDuplicate,
				Severity: settings.Severity(entities.RuleDuplicate),
				File:     manifest.Path,
				Line:     line,
				Message:  fmt.Sprintf("%s is already listed on line %d", duplicate.Name, duplicate.Lines[0]),
			})
		}
	}

	for _, requirement := range manifest.Requirements() {
		if requirement.URL != "" || requirement.IsPinned() {
			continue
		}
		report.Add(entities.Finding{
			Rule:     entities.RuleUnpinned,
			Severity: settings.Severity(entities.RuleUnpinned),
			File:     manifest.Path,
			Line:     requirement.Line,
			Message:  fmt.Sprintf("%s is not pinned to an exact version", requirement.Name),
		})
	}

	if !manifest.RoundTrips() {
		report.Add(entities.Finding{
			Rule:     entities.RuleRoundTrip,
			Severity: settings.Severity(entities.RuleRoundTrip),
			File:     manifest.Path,
			Message:  "re-serialising the manifest does not reproduce the file",
		})
	}
}

// checkCrossFileDuplicates flags packages declared again in another
// manifest of the same include tree.
func checkCrossFileDuplicates(
	manifest *entities.Manifest,
	declared map[string]declaration,
	settings *entities.Settings,
	report *entities.Report,
) {
	for _, requirement := range manifest.Requirements() {
		name := requirement.NormalizedName()
		first, seen := declared[name]
		if !seen {
			declared[name] = declaration{file: manifest.Path, line: requirement.Line}
			continue
		}
		if first.file == manifest.Path {
			continue // reported by checkManifest
		}
		report.Add(entities.Finding{
			Rule:     entities.RuleDuplicate,
			Severity: settings.Severity(entities.RuleDuplicate),
			File:     manifest.Path,
			Line:     requirement.Line,
			Message:  fmt.Sprintf("%s is already listed in %s:%d", name, first.file, first.line),
		})
	}
}

func ruleForParseError(err *entities.ParseError) entities.Rule {
	switch {
	case errors.Is(err, entities.ErrInvalidName):
		return entities.RuleInvalidName
	case errors.Is(err, entities.ErrInvalidVersion), errors.Is(err, entities.ErrInvalidSpecifier):
		return entities.RuleInvalidVersion
	case errors.Is(err, entities.ErrInvalidMarker):
		return entities.RuleInvalidMarker
	default:
		return entities.RuleSyntax
	}
}

func includeFinding(failure entities.IncludeFailure, settings *entities.Settings) entities.Finding {
	rule := entities.RuleMissingInclude
	message := fmt.Sprintf("cannot read %s: %v", failure.Path, failure.Err)

	var parseErr *entities.ParseError
	switch {
	case errors.Is(failure.Err, entities.ErrIncludeCycle):
		rule = entities.RuleIncludeCycle
		message = failure.Err.Error()
	case errors.As(failure.Err, &parseErr):
		rule = entities.RuleIncludeInvalid
		message = fmt.Sprintf("%s is not a valid manifest: %v", failure.Include.Path, parseErr)
	case errors.Is(failure.Err, fs.ErrNotExist):
		message = fmt.Sprintf("%s does not exist", failure.Path)
	}

	return entities.Finding{
		Rule:     rule,
		Severity: settings.Severity(rule),
		File:     failure.From,
		Line:     failure.Include.Line,
		Message:  message,
	}
}

func outputOrDefault(output string) string {
	if output == "" {
		return "text"
	}
	return output
}
