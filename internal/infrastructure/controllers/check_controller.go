package controllers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/reqlint/internal/domain/commands"
	"github.com/rios0rios0/reqlint/internal/domain/entities"
)

// CheckController handles the "check" subcommand.
type CheckController struct {
	command commands.Check
}

// NewCheckController creates a new CheckController.
func NewCheckController(command commands.Check) *CheckController {
	return &CheckController{command: command}
}

// GetBind returns the Cobra command metadata for the check controller.
func (it *CheckController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "check [file...]",
		Short: "Validate requirements manifests",
		Long: `Validate requirements manifests and every file they include.

Reports invalid names, versions and markers, duplicated packages,
missing or cyclic includes, unpinned requirements and lines that
would not survive a re-serialisation. Exits non-zero when any
finding has error severity.`,
	}
}

// AddFlags has nothing to add: check only uses the global flags.
func (it *CheckController) AddFlags(_ *cobra.Command) {}

// Execute runs the check command.
func (it *CheckController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	report, err := it.command.Execute(context.Background(), settings, commands.CheckOptions{
		Files:  args,
		Output: outputFormat(cmd),
		Writer: cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}
	if report.HasErrors() {
		return fmt.Errorf("%d error(s) found", report.Count(entities.SeverityError))
	}
	return nil
}
