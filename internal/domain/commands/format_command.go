package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	"github.com/rios0rios0/reqlint/internal/domain/repositories"
)

const (
	changeEdit      = "edit"
	changeUnchanged = "unchanged"
)

// Format is the interface for the fmt command.
type Format interface {
	Execute(ctx context.Context, settings *entities.Settings, opts FormatOptions) ([]entities.FileChange, error)
}

// FormatOptions holds runtime options for a fmt run.
type FormatOptions struct {
	Files          []string // Falls back to settings.Files when empty
	Check          bool     // Only report files that would change
	DryRun         bool
	NormalizeNames bool
}

// FormatCommand rewrites manifests in canonical layout.
type FormatCommand struct {
	manifestRepo repositories.ManifestRepository
}

// NewFormatCommand creates a new FormatCommand.
func NewFormatCommand(manifestRepo repositories.ManifestRepository) *FormatCommand {
	return &FormatCommand{manifestRepo: manifestRepo}
}

// Execute formats every file. Files with syntax errors are left untouched
// and make the command fail once all other files were processed.
func (it *FormatCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts FormatOptions,
) ([]entities.FileChange, error) {
	files := opts.Files
	if len(files) == 0 {
		files = settings.Files
	}

	var changes []entities.FileChange
	skipped := 0
	for _, file := range files {
		manifest, err := it.manifestRepo.Load(ctx, file)
		if err != nil {
			return changes, err
		}
		if len(manifest.Errors) > 0 {
			logger.Errorf("Not formatting %s: %v", file, manifest.Errors[0])
			skipped++
			continue
		}

		formatted := manifest.Canonical(opts.NormalizeNames)
		change := entities.FileChange{Path: file, Content: formatted, ChangeType: changeUnchanged}
		if formatted != manifest.String() {
			change.ChangeType = changeEdit
		}
		changes = append(changes, change)

		if change.ChangeType == changeUnchanged {
			logger.Debugf("%s is already formatted", file)
			continue
		}
		if opts.Check || opts.DryRun {
			logger.Infof("%s would be reformatted", file)
			continue
		}
		if saveErr := it.manifestRepo.Save(ctx, file, formatted); saveErr != nil {
			return changes, saveErr
		}
		logger.Infof("Formatted %s", file)
	}

	if skipped > 0 {
		return changes, fmt.Errorf("%d file(s) could not be formatted because of syntax errors", skipped)
	}
	return changes, nil
}

// CountEdits returns how many changes would modify a file.
func CountEdits(changes []entities.FileChange) int {
	count := 0
	for _, change := range changes {
		if change.ChangeType == changeEdit {
			count++
		}
	}
	return count
}
