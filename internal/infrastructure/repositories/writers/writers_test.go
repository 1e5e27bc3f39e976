//go:build unit

package writers_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/reqlint/internal/domain/entities"
	"github.com/rios0rios0/reqlint/internal/infrastructure/repositories/writers"
)

func sampleReport() *entities.Report {
	return &entities.Report{
		Files: []string{"requirements.txt"},
		Findings: []entities.Finding{{
			Rule:     entities.RuleMissingInclude,
			Severity: entities.SeverityError,
			File:     "requirements.txt",
			Line:     3,
			Message:  "requirements-ci.txt does not exist",
		}},
	}
}

func TestTextWriter(t *testing.T) {
	t.Parallel()

	t.Run("should render a report for humans", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		writer := writers.NewTextWriter()

		// when
		err := writer.Write(&out, sampleReport())

		// then
		require.NoError(t, err)
		assert.Equal(t,
			"requirements.txt:3: error [missing-include] requirements-ci.txt does not exist\n"+
				"1 file(s) checked: 1 error(s), 0 warning(s)\n",
			out.String(),
		)
	})

	t.Run("should reject documents without a text form", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		writer := writers.NewTextWriter()

		// when
		err := writer.Write(&out, map[string]string{"a": "b"})

		// then
		require.ErrorContains(t, err, "cannot be rendered as text")
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("should encode the report with its field names", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		writer := writers.NewJSONWriter()

		// when
		err := writer.Write(&out, sampleReport())

		// then
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		findings, ok := decoded["findings"].([]any)
		require.True(t, ok)
		require.Len(t, findings, 1)
		assert.Equal(t, "missing-include", findings[0].(map[string]any)["rule"])
		assert.NotContains(t, out.String(), "column")
	})
}

func TestYAMLWriter(t *testing.T) {
	t.Parallel()

	t.Run("should encode the report with its field names", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		writer := writers.NewYAMLWriter()

		// when
		err := writer.Write(&out, sampleReport())

		// then
		require.NoError(t, err)
		var decoded entities.Report
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, *sampleReport(), decoded)
		assert.Contains(t, out.String(), "severity: error")
	})
}
