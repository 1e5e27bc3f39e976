package controllers

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/reqlint/internal/domain/commands"
	"github.com/rios0rios0/reqlint/internal/domain/entities"
)

// DiffController handles the "diff" subcommand.
type DiffController struct {
	command commands.Diff
}

// NewDiffController creates a new DiffController.
func NewDiffController(command commands.Diff) *DiffController {
	return &DiffController{command: command}
}

// GetBind returns the Cobra command metadata for the diff controller.
func (it *DiffController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "diff <old> [new]",
		Short: "Compare two manifests package by package",
		Long: `Compare two manifests and report added, removed and changed packages.

Each operand is either a file or "<rev>:<path>" to read the manifest
from a Git revision. With a single file argument the file is compared
against its committed version at HEAD.`,
		Args: cobra.RangeArgs(1, 2), //nolint:mnd // one or two operands
	}
}

// AddFlags has nothing to add: diff only uses the global flags.
func (it *DiffController) AddFlags(_ *cobra.Command) {}

// Execute runs the diff command.
func (it *DiffController) Execute(cmd *cobra.Command, args []string) error {
	oldOperand, newOperand := "HEAD:"+args[0], args[0]
	if len(args) > 1 {
		oldOperand, newOperand = args[0], args[1]
	}

	_, err := it.command.Execute(context.Background(), commands.DiffOptions{
		Old:    oldOperand,
		New:    newOperand,
		Output: outputFormat(cmd),
		Writer: cmd.OutOrStdout(),
	})
	return err
}
