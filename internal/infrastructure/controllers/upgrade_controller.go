package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/reqlint/internal/domain/commands"
	"github.com/rios0rios0/reqlint/internal/domain/entities"
)

// UpgradeController handles the "upgrade" subcommand.
type UpgradeController struct {
	command commands.Upgrade
}

// NewUpgradeController creates a new UpgradeController.
func NewUpgradeController(command commands.Upgrade) *UpgradeController {
	return &UpgradeController{command: command}
}

// GetBind returns the Cobra command metadata for the upgrade controller.
func (it *UpgradeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "upgrade [file]",
		Short: "Move exact pins to the newest release on the package index",
		Long: `Query the package index for every "==" pin of a manifest and its
includes, and rewrite the pins that have a newer release.

Only the version text changes; comments, markers and spacing are kept.
Yanked releases are never selected. Pre-releases are only selected
with --pre or when the current pin is itself a pre-release. A
"# pyup: ignore" comment skips a line, and "# pyup: <2.0" caps it.`,
		Args: cobra.MaximumNArgs(1),
	}
}

// AddFlags adds the upgrade-specific flags to the given Cobra command.
func (it *UpgradeController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("pre", false, "Also consider pre-releases")
	cmd.Flags().StringSlice("only", nil, "Only upgrade these packages")
	cmd.Flags().String("changelog", "", "Record the new pins in this CHANGELOG.md")
}

// Execute runs the upgrade command.
func (it *UpgradeController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	pre, _ := cmd.Flags().GetBool("pre")
	only, _ := cmd.Flags().GetStringSlice("only")
	changelog, _ := cmd.Flags().GetString("changelog")

	opts := commands.UpgradeOptions{
		DryRun:    dryRun,
		Pre:       pre,
		Only:      only,
		Changelog: changelog,
		Output:    outputFormat(cmd),
		Writer:    cmd.OutOrStdout(),
	}
	if len(args) > 0 {
		opts.File = args[0]
	}

	if dryRun {
		logger.Info("[dry-run] No files will be written")
	}
	_, err = it.command.Execute(context.Background(), settings, opts)
	return err
}
