//go:build unit

package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/reqlint/internal/domain/commands"
	"github.com/rios0rios0/reqlint/internal/domain/entities"
	doubles "github.com/rios0rios0/reqlint/test/infrastructure/repositorydoubles"
)

func findingsOf(report *entities.Report, rule entities.Rule) []entities.Finding {
	var findings []entities.Finding
	for _, finding := range report.Findings {
		if finding.Rule == rule {
			findings = append(findings, finding)
		}
	}
	return findings
}

func TestCheckCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should accept the example manifest and its include", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{
			"requirements.txt":    "lz4==3.1.0\n-r requirements-ci.txt\n",
			"requirements-ci.txt": "dataclasses==0.5; python_version<\"3.7\"\n",
		}}
		cmd := commands.NewCheckCommand(repo, newWriterRegistry())
		var out bytes.Buffer

		// when
		report, err := cmd.Execute(context.Background(), entities.DefaultSettings(), commands.CheckOptions{Writer: &out})

		// then
		require.NoError(t, err)
		assert.Empty(t, report.Findings)
		assert.Equal(t, []string{"requirements.txt", "requirements-ci.txt"}, report.Files)
		assert.Equal(t, "2 file(s) checked: 0 error(s), 0 warning(s)\n", out.String())
	})

	t.Run("should report a missing include on the directive line", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{
			"requirements.txt": "lz4==3.1.0\n-r requirements-ci.txt\n",
		}}
		cmd := commands.NewCheckCommand(repo, newWriterRegistry())

		// when
		report, err := cmd.Execute(context.Background(), entities.DefaultSettings(), commands.CheckOptions{})

		// then
		require.NoError(t, err)
		missing := findingsOf(report, entities.RuleMissingInclude)
		require.Len(t, missing, 1)
		assert.Equal(t, "requirements.txt", missing[0].File)
		assert.Equal(t, 2, missing[0].Line)
		assert.Equal(t, "requirements-ci.txt does not exist", missing[0].Message)
		assert.True(t, report.HasErrors())
	})

	t.Run("should report include cycles", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{
			"a.txt": "-r b.txt\nsix==1.16.0\n",
			"b.txt": "-r ./a.txt\n",
		}}
		cmd := commands.NewCheckCommand(repo, newWriterRegistry())

		// when
		report, err := cmd.Execute(context.Background(), entities.DefaultSettings(),
			commands.CheckOptions{Files: []string{"a.txt"}})

		// then
		require.NoError(t, err)
		cycles := findingsOf(report, entities.RuleIncludeCycle)
		require.Len(t, cycles, 1)
		assert.Equal(t, "b.txt", cycles[0].File)
		assert.Equal(t, 1, cycles[0].Line)
	})

	t.Run("should report an include that does not parse and its own errors", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{
			"requirements.txt":    "-r requirements-ci.txt\n",
			"requirements-ci.txt": "lz4==3.1.0\ndataclasses==0.5; python_version <\n",
		}}
		cmd := commands.NewCheckCommand(repo, newWriterRegistry())

		// when
		report, err := cmd.Execute(context.Background(), entities.DefaultSettings(), commands.CheckOptions{})

		// then
		require.NoError(t, err)
		invalid := findingsOf(report, entities.RuleIncludeInvalid)
		require.Len(t, invalid, 1)
		assert.Equal(t, "requirements.txt", invalid[0].File)
		markers := findingsOf(report, entities.RuleInvalidMarker)
		require.Len(t, markers, 1)
		assert.Equal(t, "requirements-ci.txt", markers[0].File)
		assert.Equal(t, 2, markers[0].Line)
	})

	t.Run("should report duplicates within and across manifests but not constraints", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{
			"requirements.txt": "six==1.16.0\n-r dev.txt\n-c constraints.txt\nSix==1.15\n",
			"dev.txt":          "six==1.16.0\n",
			"constraints.txt":  "six==1.16.0\n",
		}}
		cmd := commands.NewCheckCommand(repo, newWriterRegistry())

		// when
		report, err := cmd.Execute(context.Background(), entities.DefaultSettings(), commands.CheckOptions{})

		// then
		require.NoError(t, err)
		duplicates := findingsOf(report, entities.RuleDuplicate)
		require.Len(t, duplicates, 2)
		assert.Equal(t, "dev.txt", duplicates[0].File)
		assert.Equal(t, "six is already listed in requirements.txt:1", duplicates[0].Message)
		assert.Equal(t, "requirements.txt", duplicates[1].File)
		assert.Equal(t, 4, duplicates[1].Line)
	})

	t.Run("should warn about unpinned requirements unless the rule is disabled", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{
			"requirements.txt": "requests>=2\npip @ https://example.com/pip.zip\n",
		}}
		cmd := commands.NewCheckCommand(repo, newWriterRegistry())
		disabled := false
		quiet := entities.DefaultSettings()
		quiet.Rules = map[string]entities.RuleConfig{"unpinned": {Enabled: &disabled}}

		// when
		report, err := cmd.Execute(context.Background(), entities.DefaultSettings(), commands.CheckOptions{})
		require.NoError(t, err)
		quietReport, err := cmd.Execute(context.Background(), quiet, commands.CheckOptions{})
		require.NoError(t, err)

		// then
		unpinned := findingsOf(report, entities.RuleUnpinned)
		require.Len(t, unpinned, 1)
		assert.Equal(t, entities.SeverityWarning, unpinned[0].Severity)
		assert.False(t, report.HasErrors())
		assert.Empty(t, quietReport.Findings)
	})

	t.Run("should render the report as JSON", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{
			"requirements.txt": "lz4=3.1.0\n",
		}}
		cmd := commands.NewCheckCommand(repo, newWriterRegistry())
		var out bytes.Buffer

		// when
		_, err := cmd.Execute(context.Background(), entities.DefaultSettings(),
			commands.CheckOptions{Output: "json", Writer: &out})

		// then
		require.NoError(t, err)
		var decoded entities.Report
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		require.Len(t, decoded.Findings, 1)
		assert.Equal(t, entities.RuleInvalidVersion, decoded.Findings[0].Rule)
		assert.Equal(t, 4, decoded.Findings[0].Column)
	})

	t.Run("should fail when the root manifest cannot be read", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{}}
		cmd := commands.NewCheckCommand(repo, newWriterRegistry())

		// when
		_, err := cmd.Execute(context.Background(), entities.DefaultSettings(), commands.CheckOptions{})

		// then
		require.ErrorContains(t, err, "requirements.txt")
	})

	t.Run("should fail for an unknown output format", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewCheckCommand(&doubles.SpyManifestRepository{}, newWriterRegistry())

		// when
		_, err := cmd.Execute(context.Background(), entities.DefaultSettings(), commands.CheckOptions{Output: "xml"})

		// then
		require.ErrorContains(t, err, "unknown output format")
	})
}
