package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	wikidump "github.com/llamasoft/WikiDump"
)

// Compile-time interface verification.
var _ wikidump.RunService = (*RunService)(nil)

// RunService implements wikidump.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

const runColumns = "id, source, categories, transclusions, started_at, finished_at, written"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*wikidump.Run, error) {
	var run wikidump.Run
	var categories, transclusions, startedAt, finishedAt string
	if err := row.Scan(&run.ID, &run.Source, &categories, &transclusions, &startedAt, &finishedAt, &run.Written); err != nil {
		return nil, err
	}
	run.Terms = wikidump.FilterTerms{
		Categories:    splitTerms(categories),
		Transclusions: splitTerms(transclusions),
	}

	var err error
	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if finishedAt != "" {
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}
	}
	return &run, nil
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*wikidump.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, wikidump.Errorf(wikidump.ENOTFOUND, "run not found")
	}
	return run, err
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter wikidump.RunFilter) ([]*wikidump.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + runColumns + " FROM runs WHERE 1=1")
	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}
	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*wikidump.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FindDocuments retrieves documents matching the filter in sequence order.
func (s *RunService) FindDocuments(ctx context.Context, filter wikidump.DocumentFilter) ([]*wikidump.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT seq, title, content FROM articles WHERE 1=1")
	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.Title != nil {
		query.WriteString(" AND title = ?")
		args = append(args, *filter.Title)
	}
	query.WriteString(" ORDER BY run_id, seq ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*wikidump.Document
	for rows.Next() {
		var doc wikidump.Document
		if err := rows.Scan(&doc.Seq, &doc.Title, &doc.Text); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}
