// Package slog provides logging decorators and the progress reporter built on
// the standard library's structured logger.
package slog

import (
	"context"
	"log/slog"
	"time"

	wikidump "github.com/llamasoft/WikiDump"
)

// Ensure LoggingStore implements wikidump.DocumentStore.
var _ wikidump.DocumentStore = (*LoggingStore)(nil)

// LoggingStore wraps a DocumentStore with logging. Writes are logged at
// debug level; commit and abort at info level.
type LoggingStore struct {
	next   wikidump.DocumentStore
	logger *slog.Logger

	written int64
	bytes   int64
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next wikidump.DocumentStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// WriteDocument delegates to the wrapped store and logs the write.
func (s *LoggingStore) WriteDocument(ctx context.Context, doc *wikidump.Document) (err error) {
	defer func() {
		if err == nil {
			s.written++
			s.bytes += int64(len(doc.Text))
		}
		s.logger.DebugContext(ctx, "write document",
			"seq", doc.Seq,
			"title", doc.Title,
			"bytes", len(doc.Text),
			"err", err,
		)
	}()
	return s.next.WriteDocument(ctx, doc)
}

// Commit delegates to the wrapped store and logs the totals.
func (s *LoggingStore) Commit() (err error) {
	defer func(begin time.Time) {
		s.logger.Info("commit",
			"documents", s.written,
			"bytes", wikidump.FormatBytes(s.bytes),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Commit()
}

// Abort delegates to the wrapped store and logs the discarded totals.
func (s *LoggingStore) Abort() (err error) {
	defer func(begin time.Time) {
		s.logger.Warn("abort",
			"documents", s.written,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Abort()
}
