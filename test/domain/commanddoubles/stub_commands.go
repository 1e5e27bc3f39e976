//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/reqlint/internal/domain/commands"
	"github.com/rios0rios0/reqlint/internal/domain/entities"
)

// StubCheckCommand is a stub implementation of commands.Check.
type StubCheckCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Report           *entities.Report
	LastSettings     *entities.Settings
	LastOpts         commands.CheckOptions
}

var _ commands.Check = (*StubCheckCommand)(nil)

func (s *StubCheckCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.CheckOptions,
) (*entities.Report, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	if s.Report == nil {
		return &entities.Report{}, s.ExecuteErr
	}
	return s.Report, s.ExecuteErr
}

// StubFormatCommand is a stub implementation of commands.Format.
type StubFormatCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Changes          []entities.FileChange
	LastOpts         commands.FormatOptions
}

var _ commands.Format = (*StubFormatCommand)(nil)

func (s *StubFormatCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	opts commands.FormatOptions,
) ([]entities.FileChange, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return s.Changes, s.ExecuteErr
}

// StubListCommand is a stub implementation of commands.List.
type StubListCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastOpts         commands.ListOptions
}

var _ commands.List = (*StubListCommand)(nil)

func (s *StubListCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	opts commands.ListOptions,
) (entities.RequirementList, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return entities.RequirementList{}, s.ExecuteErr
}

// StubDiffCommand is a stub implementation of commands.Diff.
type StubDiffCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastOpts         commands.DiffOptions
}

var _ commands.Diff = (*StubDiffCommand)(nil)

func (s *StubDiffCommand) Execute(_ context.Context, opts commands.DiffOptions) (*entities.Diff, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return &entities.Diff{}, s.ExecuteErr
}

// StubUpgradeCommand is a stub implementation of commands.Upgrade.
type StubUpgradeCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastOpts         commands.UpgradeOptions
}

var _ commands.Upgrade = (*StubUpgradeCommand)(nil)

func (s *StubUpgradeCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	opts commands.UpgradeOptions,
) (entities.UpgradeList, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return entities.UpgradeList{}, s.ExecuteErr
}
