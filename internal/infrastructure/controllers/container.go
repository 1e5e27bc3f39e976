package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	for _, constructor := range []any{
		NewCheckController,
		NewFormatController,
		NewListController,
		NewDiffController,
		NewUpgradeController,
		NewControllers,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	checkController *CheckController,
	formatController *FormatController,
	listController *ListController,
	diffController *DiffController,
	upgradeController *UpgradeController,
) *[]entities.Controller {
	return &[]entities.Controller{
		checkController,
		formatController,
		listController,
		diffController,
		upgradeController,
	}
}
