package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	wikidump "github.com/llamasoft/WikiDump"
	"github.com/llamasoft/WikiDump/bloom"
	"github.com/llamasoft/WikiDump/compress"
	"github.com/llamasoft/WikiDump/dump"
	"github.com/llamasoft/WikiDump/fs"
	"github.com/llamasoft/WikiDump/pipeline"
	"github.com/llamasoft/WikiDump/prometheus"
	wdslog "github.com/llamasoft/WikiDump/slog"
	"github.com/llamasoft/WikiDump/sqlite"
	"github.com/llamasoft/WikiDump/wikitext"
	"github.com/llamasoft/WikiDump/yaml"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	logger := deps.Logger

	terms, err := c.terms()
	if err != nil {
		return err
	}
	filter, err := wikidump.NewArticleFilter(terms)
	if err != nil {
		return err
	}
	logger.Info("filter",
		"categories", len(filter.Categories),
		"templates", len(filter.Transclusions),
		"passThrough", filter.PassThrough(),
	)

	in, err := openInput(deps, c.Input)
	if err != nil {
		return err
	}
	defer in.Close()
	scanner := dump.NewScanner(in, dump.WithCounter(in))

	store, closeStore, err := c.openStore(deps, terms)
	if err != nil {
		return err
	}
	defer closeStore()
	store = wdslog.NewLoggingStore(store, logger)

	progress := wdslog.NewProgressLogger(logger).Log
	if c.MetricsAddr != "" {
		metrics := prometheus.NewMetrics()
		stop, err := serveMetrics(c.MetricsAddr, metrics, logger)
		if err != nil {
			return err
		}
		defer stop()
		logger.Info("serving metrics", "addr", c.MetricsAddr)

		logProgress := progress
		progress = func(p wikidump.Progress) {
			logProgress(p)
			metrics.Observe(p)
		}
	}

	coord := &pipeline.Coordinator{
		Source:           scanner,
		Filter:           filter,
		Normalizer:       wikitext.NewNormalizer(),
		Writer:           store,
		Workers:          c.Workers,
		QueueSize:        c.QueueSize,
		Ordered:          c.Ordered,
		BytesTotal:       in.Size(),
		Progress:         progress,
		ProgressInterval: c.ProgressInterval,
	}
	if c.Dedupe {
		coord.Dedupe = bloom.NewFilter(c.DedupeCapacity, bloom.DefaultFalsePositiveRate)
	}

	result, err := coord.Run(deps.Ctx)
	if err != nil {
		if abortErr := store.Abort(); abortErr != nil {
			logger.Error("abort output", "err", abortErr)
		}
		return err
	}
	if err := store.Commit(); err != nil {
		return fmt.Errorf("commit output: %w", err)
	}

	attrs := []any{
		"seen", result.Seen,
		"kept", result.Kept,
		"written", result.Written,
		"duplicates", result.Duplicates,
		"skipped", scanner.Skipped(),
		"read", wikidump.FormatBytes(result.BytesRead),
		"elapsed", result.Elapsed.Round(time.Millisecond),
	}
	if info := scanner.SiteInfo(); info != nil {
		attrs = append(attrs, "site", info.SiteName, "db", info.DBName)
	}
	logger.Info("done", attrs...)
	return nil
}

// terms merges the flag terms with the filters file.
func (c *ExtractCmd) terms() (wikidump.FilterTerms, error) {
	terms := wikidump.FilterTerms{Categories: c.Categories, Transclusions: c.Templates}
	if c.Filters == "" {
		return terms, nil
	}
	fileTerms, err := yaml.LoadTerms(c.Filters)
	if err != nil {
		return wikidump.FilterTerms{}, err
	}
	return terms.Merge(*fileTerms), nil
}

// openStore returns the configured output store and a function releasing
// any resources it holds.
func (c *ExtractCmd) openStore(deps *Dependencies, terms wikidump.FilterTerms) (wikidump.DocumentStore, func(), error) {
	if c.DB != "" {
		db := sqlite.NewDB(c.DB)
		if err := db.Open(); err != nil {
			return nil, nil, fmt.Errorf("failed to open database at %q: %w", c.DB, err)
		}
		run := &wikidump.Run{Source: c.Input, Terms: terms}
		return sqlite.NewDocumentStore(db, run), func() { db.Close() }, nil
	}
	if c.Output == compress.Stdin {
		return fs.NewWriter(deps.Stdout), func() {}, nil
	}
	return fs.NewFileStore(c.Output), func() {}, nil
}

// openInput opens path, reading deps.Stdin for "-".
func openInput(deps *Dependencies, path string) (*compress.Input, error) {
	if path == compress.Stdin {
		return compress.NewInput(deps.Stdin, 0)
	}
	return compress.Open(path)
}

// serveMetrics starts an HTTP server exposing metrics on addr and returns
// a function that stops it.
func serveMetrics(addr string, metrics *prometheus.Metrics, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "err", err)
		}
	}()
	return func() { _ = srv.Close() }, nil
}
