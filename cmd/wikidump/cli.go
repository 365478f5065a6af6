package main

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" env:"WIKIDUMP_VERBOSE" help:"Enable debug logging"`

	Extract ExtractCmd `cmd:"" help:"Filter and normalize articles from a dump"`
	Info    InfoCmd    `cmd:"" help:"Show the site information header of a dump"`
	Runs    RunsCmd    `cmd:"" help:"List runs stored in a database"`
	Docs    DocsCmd    `cmd:"" help:"List documents stored for a run"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Input string `arg:"" help:"Dump file (.xml, .bz2, .gz, .zst) or - for stdin"`

	Workers    int      `short:"w" default:"${workers}" env:"WIKIDUMP_WORKERS" help:"Normalizer worker count"`
	Categories []string `short:"c" name:"category" env:"WIKIDUMP_CATEGORIES" help:"Keep articles in a category containing this term (repeatable)"`
	Templates  []string `short:"t" name:"template" env:"WIKIDUMP_TEMPLATES" help:"Keep articles transcluding a template containing this term (repeatable)"`
	Filters    string   `short:"f" env:"WIKIDUMP_FILTERS" help:"YAML file with categories and transclusions lists"`

	Output string `short:"o" default:"-" env:"WIKIDUMP_OUTPUT" help:"Output file, or - for stdout"`
	DB     string `name:"db" env:"WIKIDUMP_DB" help:"Write to this SQLite database instead of --output"`

	QueueSize        int           `default:"4096" env:"WIKIDUMP_QUEUE_SIZE" help:"Work queue capacity"`
	Ordered          bool          `env:"WIKIDUMP_ORDERED" help:"Write articles in input order"`
	Dedupe           bool          `env:"WIKIDUMP_DEDUPE" help:"Drop articles whose title was already kept"`
	DedupeCapacity   uint          `default:"8000000" help:"Expected number of kept titles when deduplicating"`
	ProgressInterval time.Duration `default:"30s" env:"WIKIDUMP_PROGRESS_INTERVAL" help:"Minimum time between progress lines"`
	MetricsAddr      string        `env:"WIKIDUMP_METRICS_ADDR" help:"Serve Prometheus metrics on this address (e.g. :9090)"`
}

// InfoCmd is the "info" subcommand.
type InfoCmd struct {
	Input string `arg:"" help:"Dump file or - for stdin"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	DB     string `name:"db" required:"" env:"WIKIDUMP_DB" help:"SQLite database path"`
	Source string `help:"Only show runs of this input"`
	Limit  int    `default:"20" help:"Maximum runs to show"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	RunID string `arg:"" help:"Run ID"`
	DB    string `name:"db" required:"" env:"WIKIDUMP_DB" help:"SQLite database path"`
	Title string `help:"Only show the document with this title"`
	Limit int    `default:"0" help:"Maximum documents to show (0 for all)"`
	Full  bool   `help:"Show full document text"`
}
