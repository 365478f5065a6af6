package mock_test

import (
	"context"
	"testing"

	wikidump "github.com/llamasoft/WikiDump"
	"github.com/llamasoft/WikiDump/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentWriter_ImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ wikidump.DocumentWriter = &mock.DocumentWriter{}
	var _ wikidump.DocumentStore = &mock.DocumentStore{}
}

func TestDocumentWriter_WriteDocument(t *testing.T) {
	t.Parallel()

	t.Run("delegates to WriteDocumentFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *wikidump.Document
		w := &mock.DocumentWriter{
			WriteDocumentFn: func(_ context.Context, doc *wikidump.Document) error {
				calledWith = doc
				return nil
			},
		}

		doc := &wikidump.Document{Seq: 3, Title: "Dracula", Text: "A novel."}

		err := w.WriteDocument(context.Background(), doc)

		require.NoError(t, err)
		assert.Equal(t, doc, calledWith)
	})
}
