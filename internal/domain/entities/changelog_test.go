//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	"github.com/rios0rios0/reqlint/test/domain/entitybuilders"
)

func TestUpgradeChangelogEntries(t *testing.T) {
	t.Parallel()

	t.Run("should describe only the pins that moved", func(t *testing.T) {
		t.Parallel()

		// given
		deps := []entities.Dependency{
			entitybuilders.NewDependencyBuilder().BuildDependency(),
			entitybuilders.NewDependencyBuilder().WithName("six").
				WithCurrentVer("1.16.0").WithLatestVer("1.16.0").BuildDependency(),
			entitybuilders.NewDependencyBuilder().WithName("attrs").WithSkipReason("pyup: ignore").BuildDependency(),
		}

		// when
		entries := entities.UpgradeChangelogEntries(deps)

		// then
		assert.Equal(t, []string{"- changed the `lz4` pin from `3.1.0` to `4.0.0`"}, entries)
	})
}

func TestInsertChangelogEntry(t *testing.T) {
	t.Parallel()

	t.Run("should insert entry into empty Unreleased section", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [Unreleased]\n\n## [1.0.0] - 2026-01-01\n\n### Added\n\n- initial release\n"
		entries := []string{"- changed the `lz4` pin from `3.1.0` to `4.0.0`"}

		// when
		result := entities.InsertChangelogEntry(content, entries)

		// then
		assert.Contains(t, result, "## [Unreleased]\n\n### Changed\n\n- changed the `lz4` pin")
		assert.Contains(t, result, "## [1.0.0] - 2026-01-01")
	})

	t.Run("should append entry to existing Changed subsection", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [Unreleased]\n\n### Changed\n\n- existing change\n\n## [1.0.0] - 2026-01-01\n"
		entries := []string{"- changed the `six` pin from `1.15.0` to `1.16.0`"}

		// when
		result := entities.InsertChangelogEntry(content, entries)

		// then
		assert.Contains(t, result, "- existing change\n- changed the `six` pin")
	})

	t.Run("should leave content without an Unreleased section unchanged", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [1.0.0] - 2026-01-01\n"

		// when
		result := entities.InsertChangelogEntry(content, []string{"- anything"})

		// then
		assert.Equal(t, content, result)
	})
}
