package writers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rios0rios0/reqlint/internal/domain/repositories"
)

// JSONWriter renders results as indented JSON.
type JSONWriter struct{}

// NewJSONWriter creates the "json" writer.
func NewJSONWriter() repositories.ReportWriter { return &JSONWriter{} }

func (j *JSONWriter) Name() string { return "json" }

func (j *JSONWriter) Write(w io.Writer, document any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(document); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
