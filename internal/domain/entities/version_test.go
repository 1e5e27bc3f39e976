//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	t.Run("should parse a plain release", func(t *testing.T) {
		t.Parallel()

		// given
		text := "3.1.0"

		// when
		version, err := entities.ParseVersion(text)

		// then
		require.NoError(t, err)
		assert.Equal(t, []int{3, 1, 0}, version.Release)
		assert.Equal(t, "3.1.0", version.Raw())
		assert.False(t, version.IsPrerelease())
	})

	t.Run("should normalise alternative spellings", func(t *testing.T) {
		t.Parallel()

		cases := map[string]string{
			"1.0-alpha.1":           "1.0a1",
			"2.0c1":                 "2.0rc1",
			"1.0-1":                 "1.0.post1",
			"1.0.rev2":              "1.0.post2",
			"v1.2":                  "1.2",
			"1!2.0.dev3+Ubuntu.1":   "1!2.0.dev3+ubuntu.1",
			"0.5":                   "0.5",
			"1.0.0-preview-2.dev_4": "1.0.0rc2.dev4",
		}
		for input, expected := range cases {
			// when
			version, err := entities.ParseVersion(input)

			// then
			require.NoError(t, err, input)
			assert.Equal(t, expected, version.String(), input)
		}
	})

	t.Run("should reject text that is not a version", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"", "abc", "1..0", "1.0+", "latest"} {
			// when
			_, err := entities.ParseVersion(input)

			// then
			require.ErrorIs(t, err, entities.ErrInvalidVersion, input)
		}
	})
}

func TestVersionCompare(t *testing.T) {
	t.Parallel()

	t.Run("should follow PEP 440 ordering", func(t *testing.T) {
		t.Parallel()

		// given
		ordered := []string{
			"1.0.dev0",
			"1.0a1",
			"1.0a2.dev1",
			"1.0a2",
			"1.0b1",
			"1.0rc1",
			"1.0",
			"1.0+local.1",
			"1.0.post1.dev0",
			"1.0.post1",
			"1.1",
			"1!0.1",
		}

		// when / then
		for i := 0; i < len(ordered)-1; i++ {
			lower := entities.MustParseVersion(ordered[i])
			higher := entities.MustParseVersion(ordered[i+1])
			assert.Equal(t, -1, lower.Compare(higher), "%s < %s", ordered[i], ordered[i+1])
			assert.Equal(t, 1, higher.Compare(lower), "%s > %s", ordered[i+1], ordered[i])
		}
	})

	t.Run("should ignore trailing zero release segments", func(t *testing.T) {
		t.Parallel()

		// given
		short := entities.MustParseVersion("1.0")
		long := entities.MustParseVersion("1.0.0")

		// when
		equal := short.Equal(long)

		// then
		assert.True(t, equal)
	})
}

func TestVersionBumpKind(t *testing.T) {
	t.Parallel()

	t.Run("should classify moves between versions", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			from, to string
			expected entities.BumpKind
		}{
			{"3.1.0", "4.0.0", entities.BumpMajor},
			{"3.1.0", "3.2.0", entities.BumpMinor},
			{"3.1.0", "3.1.1", entities.BumpPatch},
			{"3.1.0", "3.1.0.1", entities.BumpOther},
			{"3.1.0", "3.1", entities.BumpNone},
			{"3.1.0", "3.0.9", entities.BumpDowngrade},
			{"0.5", "1!0.1", entities.BumpMajor},
		}
		for _, tc := range cases {
			// when
			kind := entities.MustParseVersion(tc.from).BumpKind(entities.MustParseVersion(tc.to))

			// then
			assert.Equal(t, tc.expected, kind, "%s -> %s", tc.from, tc.to)
		}
	})
}
