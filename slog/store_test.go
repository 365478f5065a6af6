package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	wikidump "github.com/llamasoft/WikiDump"
	"github.com/llamasoft/WikiDump/mock"
	wdslog "github.com/llamasoft/WikiDump/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingStore(t *testing.T) {
	t.Parallel()

	t.Run("logs writes at debug level and totals on commit", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		var written []*wikidump.Document
		inner := &mock.DocumentStore{
			WriteDocumentFn: func(_ context.Context, doc *wikidump.Document) error {
				written = append(written, doc)
				return nil
			},
			CommitFn: func() error { return nil },
		}

		store := wdslog.NewLoggingStore(inner, logger)
		doc := &wikidump.Document{Seq: 7, Title: "Dracula", Text: "A novel."}
		require.NoError(t, store.WriteDocument(context.Background(), doc))
		require.NoError(t, store.Commit())

		assert.Equal(t, []*wikidump.Document{doc}, written)
		output := buf.String()
		assert.Contains(t, output, "write document")
		assert.Contains(t, output, "seq=7")
		assert.Contains(t, output, "title=Dracula")
		assert.Contains(t, output, "bytes=8")
		assert.Contains(t, output, "msg=commit")
		assert.Contains(t, output, "documents=1")
		assert.Contains(t, output, "duration=")
	})

	t.Run("omits writes at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.DocumentStore{
			WriteDocumentFn: func(_ context.Context, _ *wikidump.Document) error { return nil },
		}

		store := wdslog.NewLoggingStore(inner, logger)
		require.NoError(t, store.WriteDocument(context.Background(), &wikidump.Document{Title: "Dracula"}))

		assert.Empty(t, buf.String())
	})

	t.Run("logs errors and does not count failed writes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.DocumentStore{
			WriteDocumentFn: func(_ context.Context, _ *wikidump.Document) error { return errors.New("disk full") },
			AbortFn:         func() error { return nil },
		}

		store := wdslog.NewLoggingStore(inner, logger)
		err := store.WriteDocument(context.Background(), &wikidump.Document{Title: "Dracula"})
		require.Error(t, err)
		require.NoError(t, store.Abort())

		output := buf.String()
		assert.Contains(t, output, "err=\"disk full\"")
		assert.Contains(t, output, "msg=abort")
		assert.Contains(t, output, "documents=0")
	})
}
