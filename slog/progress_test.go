package slog_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	wikidump "github.com/llamasoft/WikiDump"
	wdslog "github.com/llamasoft/WikiDump/slog"
	"github.com/stretchr/testify/assert"
)

func TestProgressLogger_Log(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("logs rates and ETA", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		l := wdslog.NewProgressLogger(slog.New(slog.NewTextHandler(&buf, nil)))
		l.Now = func() time.Time { return start.Add(10 * time.Second) }

		l.Log(wikidump.Progress{
			Seen:       100,
			Kept:       10,
			BytesRead:  512 * 1024 * 1024,
			BytesTotal: 1024 * 1024 * 1024,
			Started:    start,
			Title:      "Dracula",
		})

		output := buf.String()
		assert.Contains(t, output, "msg=progress")
		assert.Contains(t, output, "kept=10")
		assert.Contains(t, output, "seen=100")
		assert.Contains(t, output, "ratio=0.10")
		assert.Contains(t, output, `read="512.0 MB"`)
		assert.Contains(t, output, `total="1.0 GB"`)
		assert.Contains(t, output, "percent=50.0%")
		assert.Contains(t, output, "rate=1.0/s")
		assert.Contains(t, output, `throughput="51.2 MB/s"`)
		assert.Contains(t, output, "elapsed=10s")
		assert.Contains(t, output, "eta=10s")
		assert.Contains(t, output, "title=Dracula")
	})

	t.Run("degrades to unknown before any progress", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		l := wdslog.NewProgressLogger(slog.New(slog.NewTextHandler(&buf, nil)))
		l.Now = func() time.Time { return start }

		l.Log(wikidump.Progress{Started: start})

		output := buf.String()
		assert.Contains(t, output, "ratio=unknown")
		assert.Contains(t, output, "total=unknown")
		assert.Contains(t, output, "percent=unknown")
		assert.Contains(t, output, "rate=unknown")
		assert.Contains(t, output, "throughput=unknown")
		assert.Contains(t, output, "eta=unknown")
	})
}
