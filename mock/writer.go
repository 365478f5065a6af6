package mock

import (
	"context"

	wikidump "github.com/llamasoft/WikiDump"
)

// Compile-time interface verification.
var (
	_ wikidump.DocumentWriter = (*DocumentWriter)(nil)
	_ wikidump.DocumentStore  = (*DocumentStore)(nil)
)

// DocumentWriter is a mock implementation of wikidump.DocumentWriter.
type DocumentWriter struct {
	WriteDocumentFn func(ctx context.Context, doc *wikidump.Document) error
}

func (w *DocumentWriter) WriteDocument(ctx context.Context, doc *wikidump.Document) error {
	return w.WriteDocumentFn(ctx, doc)
}

// DocumentStore is a mock implementation of wikidump.DocumentStore.
type DocumentStore struct {
	WriteDocumentFn func(ctx context.Context, doc *wikidump.Document) error
	CommitFn        func() error
	AbortFn         func() error
}

func (s *DocumentStore) WriteDocument(ctx context.Context, doc *wikidump.Document) error {
	return s.WriteDocumentFn(ctx, doc)
}

func (s *DocumentStore) Commit() error {
	return s.CommitFn()
}

func (s *DocumentStore) Abort() error {
	return s.AbortFn()
}
