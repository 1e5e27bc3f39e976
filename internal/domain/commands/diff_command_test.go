//go:build unit

package commands_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/reqlint/internal/domain/commands"
	"github.com/rios0rios0/reqlint/internal/domain/entities"
	doubles "github.com/rios0rios0/reqlint/test/infrastructure/repositorydoubles"
)

func TestParseOperand(t *testing.T) {
	t.Parallel()

	t.Run("should split revisions from paths", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			text string
			rev  string
			path string
		}{
			{"requirements.txt", "", "requirements.txt"},
			{"HEAD:requirements.txt", "HEAD", "requirements.txt"},
			{"HEAD~1:", "HEAD~1", "requirements.txt"},
			{"v1.0:reqs/dev.txt", "v1.0", "reqs/dev.txt"},
			{":odd.txt", "", ":odd.txt"},
		}
		for _, tc := range cases {
			// when
			op := commands.ParseOperand(tc.text)

			// then
			assert.Equal(t, tc.rev, commands.OperandRev(op), tc.text)
			assert.Equal(t, tc.path, commands.OperandPath(op), tc.text)
		}
	})
}

func TestDiffCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should compare a revision with the working tree", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{
			"requirements.txt": "lz4==3.1.1\ndataclasses==0.5; python_version<\"3.7\"\n",
		}}
		revisions := &doubles.StubRevisionRepository{Files: map[string]string{
			"HEAD:requirements.txt": "lz4==3.1.0\n",
		}}
		cmd := commands.NewDiffCommand(repo, revisions, newWriterRegistry())
		var out bytes.Buffer

		// when
		diff, err := cmd.Execute(context.Background(), commands.DiffOptions{
			Old:    "HEAD:requirements.txt",
			New:    "requirements.txt",
			Writer: &out,
		})

		// then
		require.NoError(t, err)
		require.Len(t, diff.Changes, 2)
		assert.Equal(t, entities.BumpPatch, diff.Changes[0].Bump)
		assert.Equal(t, entities.ChangeAdded, diff.Changes[1].Kind)
		assert.Equal(t,
			"--- HEAD:requirements.txt\n+++ requirements.txt\n~ lz4 ==3.1.0 -> ==3.1.1 (patch)\n+ dataclasses==0.5\n",
			out.String(),
		)
	})

	t.Run("should refuse manifests with syntax errors", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{
			"a.txt": "lz4==3.1.0\n",
			"b.txt": "lz4=3.1.0\n",
		}}
		cmd := commands.NewDiffCommand(repo, &doubles.StubRevisionRepository{}, newWriterRegistry())

		// when
		_, err := cmd.Execute(context.Background(), commands.DiffOptions{Old: "a.txt", New: "b.txt"})

		// then
		require.ErrorIs(t, err, entities.ErrInvalidSpecifier)
	})

	t.Run("should fail when a revision does not hold the file", func(t *testing.T) {
		t.Parallel()

		// given
		repo := &doubles.SpyManifestRepository{Files: map[string]string{"requirements.txt": "lz4==3.1.0\n"}}
		cmd := commands.NewDiffCommand(repo, &doubles.StubRevisionRepository{}, newWriterRegistry())

		// when
		_, err := cmd.Execute(context.Background(), commands.DiffOptions{Old: "HEAD~3:", New: "requirements.txt"})

		// then
		require.Error(t, err)
	})
}
