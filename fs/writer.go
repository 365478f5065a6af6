// Package fs provides file-based output for normalized articles.
package fs

import (
	"bufio"
	"context"
	"io"

	wikidump "github.com/llamasoft/WikiDump"
)

// FormatDocument formats a document as one output record: the plain-text
// body followed by a newline.
func FormatDocument(doc *wikidump.Document) string {
	return doc.Text + "\n"
}

// Ensure Writer implements wikidump.DocumentStore at compile time.
var _ wikidump.DocumentStore = (*Writer)(nil)

// Writer writes document records to a stream such as stdout.
// Output is buffered; Commit flushes it. A stream cannot be rolled back,
// so Abort flushes what was already written.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a new Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteDocument appends a document record to the stream.
func (w *Writer) WriteDocument(ctx context.Context, doc *wikidump.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	_, err := w.w.WriteString(FormatDocument(doc))
	return err
}

func (w *Writer) Commit() error {
	return w.w.Flush()
}

func (w *Writer) Abort() error {
	return w.w.Flush()
}
