//go:build unit

package entities_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	"github.com/rios0rios0/reqlint/test/domain/entitybuilders"
)

func TestComputeDiff(t *testing.T) {
	t.Parallel()

	t.Run("should report added, removed and changed packages", func(t *testing.T) {
		t.Parallel()

		// given
		old := entities.ParseManifestString("HEAD:requirements.txt",
			"lz4==3.1.0\ndataclasses==0.5; python_version<\"3.7\"\nsix==1.16.0\n")
		current := entities.ParseManifestString("requirements.txt",
			"LZ4==4.0.1\ndataclasses==0.5 ; python_version < '3.7'\nattrs==23.1.0\n")

		// when
		diff := entities.ComputeDiff(old, current)

		// then
		require.Len(t, diff.Changes, 3)
		assert.Equal(t, entities.Change{
			Name:         "lz4",
			Kind:         entities.ChangeUpdated,
			OldSpecifier: "==3.1.0",
			NewSpecifier: "==4.0.1",
			Bump:         entities.BumpMajor,
		}, diff.Changes[0])
		assert.Equal(t, entities.ChangeRemoved, diff.Changes[1].Kind)
		assert.Equal(t, "six", diff.Changes[1].Name)
		assert.Equal(t, entities.ChangeAdded, diff.Changes[2].Kind)
		assert.Equal(t, "attrs", diff.Changes[2].Name)
	})

	t.Run("should report marker changes", func(t *testing.T) {
		t.Parallel()

		// given
		old := entities.ParseManifestString("a.txt", "dataclasses==0.5; python_version<\"3.7\"\n")
		current := entities.ParseManifestString("b.txt", "dataclasses==0.5; python_version<\"3.8\"\n")

		// when
		diff := entities.ComputeDiff(old, current)

		// then
		require.Len(t, diff.Changes, 1)
		assert.Equal(t, `python_version < "3.7"`, diff.Changes[0].OldMarker)
		assert.Equal(t, `python_version < "3.8"`, diff.Changes[0].NewMarker)
		assert.Equal(t, entities.BumpNone, diff.Changes[0].Bump)
	})

	t.Run("should print a unified-diff-like summary", func(t *testing.T) {
		t.Parallel()

		// given
		diff := entities.ComputeDiff(
			entities.ParseManifestString("old.txt", "lz4==3.1.0\n"),
			entities.ParseManifestString("new.txt", "lz4==3.2.0\nsix==1.16.0\n"),
		)
		var out bytes.Buffer

		// when
		err := diff.WriteText(&out)

		// then
		require.NoError(t, err)
		assert.Equal(t, "--- old.txt\n+++ new.txt\n~ lz4 ==3.1.0 -> ==3.2.0 (minor)\n+ six==1.16.0\n", out.String())
	})
}

func TestComputeDiffWithBuilders(t *testing.T) {
	t.Parallel()

	t.Run("should report no change between identical manifests", func(t *testing.T) {
		t.Parallel()

		// given
		builder := entitybuilders.NewManifestBuilder().
			WithRequirement("lz4", "3.1.0").
			WithInclude("requirements-cython.txt")
		old := builder.BuildManifest()
		current := builder.WithPath("requirements-new.txt").BuildManifest()

		// when
		diff := entities.ComputeDiff(old, current)

		// then
		assert.Empty(t, diff.Changes)
		assert.Equal(t, "requirements.txt", diff.Old)
		assert.Equal(t, "requirements-new.txt", diff.New)
	})

	t.Run("should only report the package added to a cloned manifest", func(t *testing.T) {
		t.Parallel()

		// given
		base := entitybuilders.NewManifestBuilder().WithRequirement("lz4", "3.1.0")
		extended, ok := base.Clone().(*entitybuilders.ManifestBuilder)
		require.True(t, ok)
		extended.WithLine("# py36 backport").WithLine(`dataclasses==0.5; python_version<"3.7"`)

		// when
		diff := entities.ComputeDiff(base.BuildManifest(), extended.BuildManifest())

		// then
		require.Len(t, diff.Changes, 1)
		assert.Equal(t, entities.Change{
			Name:         "dataclasses",
			Kind:         entities.ChangeAdded,
			NewSpecifier: "==0.5",
			NewMarker:    `python_version < "3.7"`,
		}, diff.Changes[0])
	})
}
