package writers

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/reqlint/internal/domain/repositories"
)

const yamlIndent = 2

// YAMLWriter renders results as YAML.
type YAMLWriter struct{}

// NewYAMLWriter creates the "yaml" writer.
func NewYAMLWriter() repositories.ReportWriter { return &YAMLWriter{} }

func (y *YAMLWriter) Name() string { return "yaml" }

func (y *YAMLWriter) Write(w io.Writer, document any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(yamlIndent)
	if err := encoder.Encode(document); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
