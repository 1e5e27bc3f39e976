package controllers

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/reqlint/internal/domain/commands"
	"github.com/rios0rios0/reqlint/internal/domain/entities"
)

// ListController handles the "list" subcommand.
type ListController struct {
	command commands.List
}

// NewListController creates a new ListController.
func NewListController(command commands.List) *ListController {
	return &ListController{command: command}
}

// GetBind returns the Cobra command metadata for the list controller.
func (it *ListController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "list [file]",
		Short: "List the requirements that apply to an environment",
		Long: `Resolve a manifest and its includes, evaluate every environment
marker for the selected Python version and platform, and print the
requirements that would be installed.`,
		Args: cobra.MaximumNArgs(1),
	}
}

// AddFlags adds the list-specific flags to the given Cobra command.
func (it *ListController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("python", "", "Python version to evaluate markers for (e.g. 3.6)")
	cmd.Flags().String("platform", "", "Platform to evaluate markers for (linux, darwin, windows)")
	cmd.Flags().StringToString("env", nil, "Override a marker variable (e.g. --env implementation_name=pypy)")
}

// Execute runs the list command.
func (it *ListController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	python, _ := cmd.Flags().GetString("python")
	platform, _ := cmd.Flags().GetString("platform")
	env, _ := cmd.Flags().GetStringToString("env")

	opts := commands.ListOptions{
		Python:   python,
		Platform: platform,
		Env:      env,
		Output:   outputFormat(cmd),
		Writer:   cmd.OutOrStdout(),
	}
	if len(args) > 0 {
		opts.File = args[0]
	}

	_, err = it.command.Execute(context.Background(), settings, opts)
	return err
}
