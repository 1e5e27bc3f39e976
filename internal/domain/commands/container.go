package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	for _, constructor := range []any{
		NewCheckCommand,
		NewFormatCommand,
		NewListCommand,
		NewDiffCommand,
		NewUpgradeCommand,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *CheckCommand) Check {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *FormatCommand) Format {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ListCommand) List {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *DiffCommand) Diff {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *UpgradeCommand) Upgrade {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
