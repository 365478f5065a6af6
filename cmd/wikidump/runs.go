package main

import (
	"fmt"
	"strings"
	"time"

	wikidump "github.com/llamasoft/WikiDump"
	"github.com/llamasoft/WikiDump/sqlite"
)

// openRunService opens the database at path for reading runs.
func openRunService(path string) (*sqlite.RunService, func(), error) {
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		return nil, nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return sqlite.NewRunService(db), func() { db.Close() }, nil
}

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	svc, closeDB, err := openRunService(c.DB)
	if err != nil {
		return err
	}
	defer closeDB()

	filter := wikidump.RunFilter{Limit: c.Limit}
	if c.Source != "" {
		filter.Source = &c.Source
	}
	runs, err := svc.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikidump.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'wikidump extract --db' to create one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d  %s\n", r.ID, r.StartedAt.Format(time.RFC3339), r.Written, r.Source)
	}
	return nil
}

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	svc, closeDB, err := openRunService(c.DB)
	if err != nil {
		return err
	}
	defer closeDB()

	run, err := svc.FindRunByID(deps.Ctx, c.RunID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikidump.ErrorMessage(err))
		return err
	}

	filter := wikidump.DocumentFilter{RunID: &run.ID, Limit: c.Limit}
	if c.Title != "" {
		filter.Title = &c.Title
	}
	docs, err := svc.FindDocuments(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikidump.ErrorMessage(err))
		return err
	}

	if c.Full {
		for _, doc := range docs {
			fmt.Fprintf(deps.Stdout, "== %s ==\n%s\n\n", doc.Title, doc.Text)
		}
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Documents for %s (%d shown):\n\n", run.ID, len(docs))
	for _, doc := range docs {
		fmt.Fprintf(deps.Stdout, "  %d. %s (%d words)\n", doc.Seq+1, doc.Title, len(strings.Fields(doc.Text)))
	}
	return nil
}
