package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	wikidump "github.com/llamasoft/WikiDump"
	"github.com/llamasoft/WikiDump/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Atomic File Output
// The store writes to a temp file and renames it on commit

func TestFileStore_WriteGoesToTempFile(t *testing.T) {
	t.Parallel()

	// Given a store targeting a file
	path := filepath.Join(t.TempDir(), "articles.txt")
	store := fs.NewFileStore(path)

	// When I write a document
	err := store.WriteDocument(context.Background(), &wikidump.Document{Title: "Dracula", Text: "A novel."})

	// Then no error occurs
	require.NoError(t, err)

	// And the temp file exists
	_, err = os.Stat(path + ".tmp")
	require.NoError(t, err, "temp file should exist")

	// And the final file does not exist yet
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "final file should not exist until commit")
}

func TestFileStore_CommitMovesTempToFinal(t *testing.T) {
	t.Parallel()

	// Given a store with written documents
	path := filepath.Join(t.TempDir(), "articles.txt")
	store := fs.NewFileStore(path)
	require.NoError(t, store.WriteDocument(context.Background(), &wikidump.Document{Seq: 0, Title: "A", Text: "first"}))
	require.NoError(t, store.WriteDocument(context.Background(), &wikidump.Document{Seq: 1, Title: "B", Text: "second"}))

	// When I commit
	err := store.Commit()

	// Then the final file holds one record per document
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(content))

	// And the temp file is gone
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be removed")
}

func TestFileStore_CommitReplacesExistingFile(t *testing.T) {
	t.Parallel()

	// Given an existing output file
	path := filepath.Join(t.TempDir(), "articles.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))
	store := fs.NewFileStore(path)
	require.NoError(t, store.WriteDocument(context.Background(), &wikidump.Document{Title: "A", Text: "fresh"}))

	// When I commit
	require.NoError(t, store.Commit())

	// Then the old content is replaced
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(content))
}

func TestFileStore_CommitWithoutDocumentsCreatesEmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "articles.txt")
	store := fs.NewFileStore(path)

	require.NoError(t, store.Commit())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestFileStore_AbortCleansUpTempFile(t *testing.T) {
	t.Parallel()

	// Given a store with written documents
	path := filepath.Join(t.TempDir(), "articles.txt")
	store := fs.NewFileStore(path)
	require.NoError(t, store.WriteDocument(context.Background(), &wikidump.Document{Title: "A", Text: "first"}))

	// When I abort
	err := store.Abort()

	// Then no error occurs
	require.NoError(t, err)

	// And neither file exists
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be removed")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "final file should not exist")
}

func TestFileStore_AbortWithoutWritesSucceeds(t *testing.T) {
	t.Parallel()

	store := fs.NewFileStore(filepath.Join(t.TempDir(), "articles.txt"))

	assert.NoError(t, store.Abort())
}

func TestFileStore_WriteFailsForMissingDirectory(t *testing.T) {
	t.Parallel()

	store := fs.NewFileStore(filepath.Join(t.TempDir(), "missing", "articles.txt"))

	err := store.WriteDocument(context.Background(), &wikidump.Document{Title: "A", Text: "x"})

	assert.Error(t, err)
}
