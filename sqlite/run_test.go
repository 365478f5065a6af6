package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	wikidump "github.com/llamasoft/WikiDump"
	"github.com/llamasoft/WikiDump/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commitRun writes n documents under a new run for source.
func commitRun(t *testing.T, db *sqlite.DB, source string, n int) *wikidump.Run {
	t.Helper()
	run := &wikidump.Run{Source: source}
	store := sqlite.NewDocumentStore(db, run)
	for i := range n {
		doc := &wikidump.Document{Seq: int64(i), Title: fmt.Sprintf("Article %d", i), Text: "body"}
		require.NoError(t, store.WriteDocument(context.Background(), doc))
	}
	require.NoError(t, store.Commit())
	return run
}

func TestRunService_FindRunByID(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for unknown ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		_, err := sqlite.NewRunService(db).FindRunByID(context.Background(), "missing")

		assert.Equal(t, wikidump.ENOTFOUND, wikidump.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	first := commitRun(t, db, "a.xml", 1)
	second := commitRun(t, db, "b.xml", 2)
	third := commitRun(t, db, "a.xml", 3)
	svc := sqlite.NewRunService(db)
	ctx := context.Background()

	t.Run("returns newest first", func(t *testing.T) {
		runs, err := svc.FindRuns(ctx, wikidump.RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, third.ID, runs[0].ID)
		assert.Equal(t, second.ID, runs[1].ID)
		assert.Equal(t, first.ID, runs[2].ID)
	})

	t.Run("filters by source", func(t *testing.T) {
		source := "a.xml"
		runs, err := svc.FindRuns(ctx, wikidump.RunFilter{Source: &source})
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, int64(3), runs[0].Written)
		assert.Equal(t, int64(1), runs[1].Written)
	})

	t.Run("paginates", func(t *testing.T) {
		runs, err := svc.FindRuns(ctx, wikidump.RunFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, second.ID, runs[0].ID)

		runs, err = svc.FindRuns(ctx, wikidump.RunFilter{Offset: 2})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, first.ID, runs[0].ID)
	})
}

func TestRunService_FindDocuments(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	run := commitRun(t, db, "a.xml", 5)
	commitRun(t, db, "b.xml", 5)
	svc := sqlite.NewRunService(db)
	ctx := context.Background()

	t.Run("filters by run in sequence order", func(t *testing.T) {
		docs, err := svc.FindDocuments(ctx, wikidump.DocumentFilter{RunID: &run.ID})
		require.NoError(t, err)
		require.Len(t, docs, 5)
		for i, d := range docs {
			assert.Equal(t, int64(i), d.Seq)
		}
	})

	t.Run("filters by title across runs", func(t *testing.T) {
		title := "Article 3"
		docs, err := svc.FindDocuments(ctx, wikidump.DocumentFilter{Title: &title})
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("paginates", func(t *testing.T) {
		docs, err := svc.FindDocuments(ctx, wikidump.DocumentFilter{RunID: &run.ID, Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, int64(2), docs[0].Seq)
	})
}
