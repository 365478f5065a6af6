package slog

import (
	"fmt"
	"log/slog"
	"time"

	wikidump "github.com/llamasoft/WikiDump"
)

const unknown = "unknown"

// ProgressLogger logs progress snapshots with throughput and ETA.
// Any figure that cannot be computed yet is logged as "unknown".
type ProgressLogger struct {
	logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewProgressLogger creates a new ProgressLogger.
func NewProgressLogger(logger *slog.Logger) *ProgressLogger {
	return &ProgressLogger{logger: logger, Now: time.Now}
}

// Log writes one progress line. Its signature matches wikidump.ProgressFunc.
func (l *ProgressLogger) Log(p wikidump.Progress) {
	now := l.Now()

	percent := unknown
	if pct, ok := p.Percent(); ok {
		percent = fmt.Sprintf("%.1f%%", pct)
	}
	total := unknown
	if p.BytesTotal > 0 {
		total = wikidump.FormatBytes(p.BytesTotal)
	}
	rate := unknown
	if r, ok := p.Throughput(now); ok {
		rate = fmt.Sprintf("%.1f/s", r)
	}
	throughput := unknown
	if r, ok := p.ByteRate(now); ok {
		throughput = wikidump.FormatBytes(int64(r)) + "/s"
	}
	ratio := unknown
	if r, ok := p.KeepRatio(); ok {
		ratio = fmt.Sprintf("%.2f", r)
	}

	l.logger.Info("progress",
		"kept", p.Kept,
		"seen", p.Seen,
		"ratio", ratio,
		"read", wikidump.FormatBytes(p.BytesRead),
		"total", total,
		"percent", percent,
		"rate", rate,
		"throughput", throughput,
		"elapsed", p.Elapsed(now).Round(time.Second),
		"eta", wikidump.FormatETA(p.ETA(now)),
		"title", p.Title,
	)
}
