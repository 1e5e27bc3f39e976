package writers

import (
	"fmt"
	"io"

	"github.com/rios0rios0/reqlint/internal/domain/repositories"
)

// textDocument is implemented by every command result.
type textDocument interface {
	WriteText(w io.Writer) error
}

// TextWriter renders results for humans.
type TextWriter struct{}

// NewTextWriter creates the default "text" writer.
func NewTextWriter() repositories.ReportWriter { return &TextWriter{} }

func (t *TextWriter) Name() string { return "text" }

func (t *TextWriter) Write(w io.Writer, document any) error {
	doc, ok := document.(textDocument)
	if !ok {
		return fmt.Errorf("%T cannot be rendered as text", document)
	}
	return doc.WriteText(w)
}
