package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	wikidump "github.com/llamasoft/WikiDump"
)

// Compile-time interface verification.
var _ wikidump.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements wikidump.DocumentStore using SQLite.
// A run and all of its documents are written in one transaction, so an
// aborted run leaves no rows behind. It is not safe for concurrent use.
type DocumentStore struct {
	db  *DB
	run *wikidump.Run

	tx   *sql.Tx
	stmt *sql.Stmt
}

// NewDocumentStore creates a new DocumentStore recording documents under run.
// The run's ID, StartedAt, FinishedAt and Written fields are set by the store.
func NewDocumentStore(db *DB, run *wikidump.Run) *DocumentStore {
	return &DocumentStore{db: db, run: run}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// joinTerms stores a term list as newline-separated text.
func joinTerms(terms []string) string {
	return strings.Join(terms, "\n")
}

func splitTerms(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// begin opens the run's transaction and inserts the run row.
func (s *DocumentStore) begin(ctx context.Context) error {
	if s.tx != nil {
		return nil
	}
	if err := s.run.Validate(); err != nil {
		return err
	}

	// The transaction outlives the caller's context, which is canceled
	// when the pipeline shuts down.
	tx, err := s.db.BeginTx(context.WithoutCancel(ctx), nil)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}

	s.run.ID = uuid.New().String()
	s.run.StartedAt = time.Now().UTC()
	s.run.FinishedAt = time.Time{}
	s.run.Written = 0

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, categories, transclusions, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.run.ID, s.run.Source, joinTerms(s.run.Terms.Categories), joinTerms(s.run.Terms.Transclusions),
		s.run.StartedAt.Format(time.RFC3339)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (id, run_id, seq, title, content, content_hash)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}

	s.tx, s.stmt = tx, stmt
	return nil
}

// WriteDocument stages a document in the run's transaction.
func (s *DocumentStore) WriteDocument(ctx context.Context, doc *wikidump.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := s.begin(ctx); err != nil {
		return err
	}

	if _, err := s.stmt.ExecContext(ctx,
		uuid.New().String(), s.run.ID, doc.Seq, doc.Title, doc.Text, hashContent(doc.Text),
	); err != nil {
		return err
	}
	s.run.Written++
	return nil
}

// Commit finishes the run and commits its transaction.
// A run with no documents is still recorded.
func (s *DocumentStore) Commit() error {
	ctx := context.Background()
	if err := s.begin(ctx); err != nil {
		return err
	}
	defer s.reset()

	s.run.FinishedAt = time.Now().UTC()
	if _, err := s.tx.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, written = ? WHERE id = ?
	`, s.run.FinishedAt.Format(time.RFC3339), s.run.Written, s.run.ID); err != nil {
		_ = s.tx.Rollback()
		return fmt.Errorf("finish run: %w", err)
	}
	_ = s.stmt.Close()
	return s.tx.Commit()
}

// Abort rolls back the run's transaction.
func (s *DocumentStore) Abort() error {
	if s.tx == nil {
		return nil
	}
	defer s.reset()
	_ = s.stmt.Close()
	return s.tx.Rollback()
}

func (s *DocumentStore) reset() {
	s.tx, s.stmt = nil, nil
}
