package controllers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/reqlint/internal/domain/commands"
	"github.com/rios0rios0/reqlint/internal/domain/entities"
)

// FormatController handles the "fmt" subcommand.
type FormatController struct {
	command commands.Format
}

// NewFormatController creates a new FormatController.
func NewFormatController(command commands.Format) *FormatController {
	return &FormatController{command: command}
}

// GetBind returns the Cobra command metadata for the format controller.
func (it *FormatController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "fmt [file...]",
		Short: "Rewrite manifests in canonical layout",
		Long: `Rewrite requirements manifests in canonical layout: single spaces
around directives, no spaces inside specifiers, "; " before markers
and two spaces before inline comments. Files with syntax errors are
left untouched.`,
	}
}

// AddFlags adds the fmt-specific flags to the given Cobra command.
func (it *FormatController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("check", false, "Fail if any file is not formatted, without writing")
	cmd.Flags().Bool("normalize-names", false, "Rewrite package names in PEP 503 normalized form")
}

// Execute runs the format command.
func (it *FormatController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	check, _ := cmd.Flags().GetBool("check")
	normalize, _ := cmd.Flags().GetBool("normalize-names")

	changes, err := it.command.Execute(context.Background(), settings, commands.FormatOptions{
		Files:          args,
		Check:          check,
		DryRun:         dryRun,
		NormalizeNames: normalize,
	})
	if err != nil {
		return err
	}
	if edits := commands.CountEdits(changes); check && edits > 0 {
		return fmt.Errorf("%d file(s) would be reformatted", edits)
	}
	return nil
}
