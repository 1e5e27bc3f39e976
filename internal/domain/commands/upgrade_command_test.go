//go:build unit

package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/reqlint/internal/domain/commands"
	"github.com/rios0rios0/reqlint/internal/domain/entities"
	"github.com/rios0rios0/reqlint/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/reqlint/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/reqlint/test/infrastructure/repositorydoubles"
)

func newUpgradeCommand(
	repo repositories.ManifestRepository,
	index *doubles.SpyIndexRepository,
) *commands.UpgradeCommand {
	indexRegistry := infraRepos.NewIndexRegistry()
	indexRegistry.Register("pypi", func(_ entities.IndexSettings) repositories.IndexRepository {
		return index
	})
	return commands.NewUpgradeCommand(repo, indexRegistry, newWriterRegistry())
}

func dependencyNamed(list entities.UpgradeList, name string) entities.Dependency {
	for _, dep := range list {
		if dep.Name == name {
			return dep
		}
	}
	return entities.Dependency{}
}

func TestUpgradeCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should move pins to the newest acceptable release", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{
			"requirements.txt": "lz4==3.1.0\n" +
				"dataclasses==0.5; python_version<\"3.7\"  # pyup: ignore\n" +
				"six>=1.0\n" +
				"attrs == 21.1.0  # pyup: <22\n",
		}}
		index := &doubles.SpyIndexRepository{Projects: map[string][]entities.Release{
			"lz4": append(doubles.Releases("3.1.0", "4.0.0", "5.0.0a1"),
				entities.Release{Version: "4.1.0", Yanked: true}),
			"attrs": doubles.Releases("21.1.0", "21.4.0", "22.1.0"),
		}}
		cmd := newUpgradeCommand(repo, index)

		// when
		list, err := cmd.Execute(context.Background(), entities.DefaultSettings(), commands.UpgradeOptions{})

		// then
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "4.0.0", dependencyNamed(list, "lz4").LatestVer)
		assert.Equal(t, entities.BumpMajor, dependencyNamed(list, "lz4").Bump)
		assert.Equal(t, "21.4.0", dependencyNamed(list, "attrs").LatestVer)
		assert.Equal(t, entities.BumpMinor, dependencyNamed(list, "attrs").Bump)
		assert.Equal(t, "pyup: ignore", dependencyNamed(list, "dataclasses").SkipReason)
		assert.ElementsMatch(t, []string{"lz4", "attrs"}, index.Queried)
		assert.Equal(t,
			"lz4==4.0.0\n"+
				"dataclasses==0.5; python_version<\"3.7\"  # pyup: ignore\n"+
				"six>=1.0\n"+
				"attrs == 21.4.0  # pyup: <22\n",
			repo.Saved["requirements.txt"],
		)
	})

	t.Run("should consider pre-releases when asked or already pinned to one", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{
			"requirements.txt": "lz4==3.1.0\nblack==23.1b0\n",
		}}
		index := &doubles.SpyIndexRepository{Projects: map[string][]entities.Release{
			"lz4":   doubles.Releases("3.1.0", "4.0.0rc1"),
			"black": doubles.Releases("23.1b0", "23.2b1"),
		}}
		cmd := newUpgradeCommand(repo, index)

		// when
		stable, err := cmd.Execute(context.Background(), entities.DefaultSettings(),
			commands.UpgradeOptions{DryRun: true})
		require.NoError(t, err)
		pre, err := cmd.Execute(context.Background(), entities.DefaultSettings(),
			commands.UpgradeOptions{DryRun: true, Pre: true})
		require.NoError(t, err)

		// then
		assert.False(t, dependencyNamed(stable, "lz4").Outdated())
		assert.Equal(t, "23.2b1", dependencyNamed(stable, "black").LatestVer)
		assert.Equal(t, "4.0.0rc1", dependencyNamed(pre, "lz4").LatestVer)
		assert.Empty(t, repo.Saved)
	})

	t.Run("should follow includes and save each touched manifest", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{
			"requirements.txt":    "lz4==3.1.0\n-r requirements-ci.txt\n",
			"requirements-ci.txt": "pytest==7.0.0\n",
		}}
		index := &doubles.SpyIndexRepository{Projects: map[string][]entities.Release{
			"lz4":    doubles.Releases("3.1.0"),
			"pytest": doubles.Releases("7.0.0", "7.4.3"),
		}}
		cmd := newUpgradeCommand(repo, index)

		// when
		_, err := cmd.Execute(context.Background(), entities.DefaultSettings(), commands.UpgradeOptions{})

		// then
		require.NoError(t, err)
		assert.NotContains(t, repo.Saved, "requirements.txt")
		assert.Equal(t, "pytest==7.4.3\n", repo.Saved["requirements-ci.txt"])
	})

	t.Run("should restrict the run to the selected packages", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{
			"requirements.txt": "lz4==3.1.0\nZope.Interface==5.0\n",
		}}
		index := &doubles.SpyIndexRepository{Projects: map[string][]entities.Release{
			"lz4":            doubles.Releases("4.0.0"),
			"zope-interface": doubles.Releases("6.0"),
		}}
		cmd := newUpgradeCommand(repo, index)

		// when
		list, err := cmd.Execute(context.Background(), entities.DefaultSettings(),
			commands.UpgradeOptions{Only: []string{"zope_interface"}})

		// then
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "lz4==3.1.0\nZope.Interface==6.0\n", repo.Saved["requirements.txt"])
	})

	t.Run("should keep going when a project cannot be looked up", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{
			"requirements.txt": "internal-lib==1.0\nflaky==1.0\nhashed==1.0 --hash=sha256:abc\nlz4==3.1.0\n",
		}}
		index := &doubles.SpyIndexRepository{
			Projects: map[string][]entities.Release{"lz4": doubles.Releases("3.2.0")},
			Errors:   map[string]error{"flaky": errors.New("503 Service Unavailable")},
		}
		cmd := newUpgradeCommand(repo, index)
		var out bytes.Buffer

		// when
		list, err := cmd.Execute(context.Background(), entities.DefaultSettings(),
			commands.UpgradeOptions{Writer: &out})

		// then
		require.NoError(t, err)
		assert.Equal(t, "not found on the index", dependencyNamed(list, "internal-lib").SkipReason)
		assert.Equal(t, "503 Service Unavailable", dependencyNamed(list, "flaky").SkipReason)
		assert.Equal(t, "pinned with --hash", dependencyNamed(list, "hashed").SkipReason)
		assert.Equal(t, "3.2.0", dependencyNamed(list, "lz4").LatestVer)
		assert.Contains(t, out.String(), "requirements.txt:4: lz4 3.1.0 -> 3.2.0 (minor)")
	})

	t.Run("should refuse to touch manifests with syntax errors", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{
			"requirements.txt": "lz4==3.1.0\nbroken=1\n",
		}}
		cmd := newUpgradeCommand(repo, &doubles.SpyIndexRepository{})

		// when
		_, err := cmd.Execute(context.Background(), entities.DefaultSettings(), commands.UpgradeOptions{})

		// then
		require.ErrorContains(t, err, "refusing to upgrade")
		assert.Empty(t, repo.Saved)
	})

	t.Run("should record the new pins in the changelog", func(t *testing.T) {
		t.Parallel()

		// given
		changelog := filepath.Join(t.TempDir(), "CHANGELOG.md")
		require.NoError(t, os.WriteFile(changelog,
			[]byte("# Changelog\n\n## [Unreleased]\n\n## [1.0.0] - 2026-01-01\n"), 0o600))
		repo := &doubles.SpyManifestRepository{Files: map[string]string{"requirements.txt": "lz4==3.1.0\n"}}
		index := &doubles.SpyIndexRepository{Projects: map[string][]entities.Release{
			"lz4": doubles.Releases("4.0.0"),
		}}
		cmd := newUpgradeCommand(repo, index)

		// when
		_, err := cmd.Execute(context.Background(), entities.DefaultSettings(),
			commands.UpgradeOptions{Changelog: changelog})

		// then
		require.NoError(t, err)
		content, readErr := os.ReadFile(changelog)
		require.NoError(t, readErr)
		assert.Contains(t, string(content),
			"## [Unreleased]\n\n### Changed\n\n- changed the `lz4` pin from `3.1.0` to `4.0.0`")
	})

	t.Run("should fail for an unknown index type", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.DefaultSettings()
		settings.Index.Type = "conda"
		cmd := newUpgradeCommand(&doubles.SpyManifestRepository{}, &doubles.SpyIndexRepository{})

		// when
		_, err := cmd.Execute(context.Background(), settings, commands.UpgradeOptions{})

		// then
		require.ErrorContains(t, err, "unknown index type")
	})
}
