// Package pipeline runs the extract, filter and normalize stages over an
// article source with a bounded queue and a fixed pool of workers.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	wikidump "github.com/llamasoft/WikiDump"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultQueueSize is the capacity of the work queue.
const DefaultQueueSize = 4096

// DefaultProgressInterval is the minimum wall time between progress reports.
const DefaultProgressInterval = 30 * time.Second

// State is a coordinator lifecycle stage.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDraining
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Coordinator reads articles from Source on the calling goroutine, keeps the
// ones that pass Filter, and hands them to Workers goroutines that run
// Normalizer. Normalized documents are written to Writer by the calling
// goroutine, so Writer need not be safe for concurrent use.
//
// A Coordinator runs once. Output order follows completion order unless
// Ordered is set.
type Coordinator struct {
	Source     wikidump.ArticleSource
	Filter     *wikidump.ArticleFilter // nil keeps every content article
	Normalizer wikidump.Normalizer
	Writer     wikidump.DocumentWriter

	// Dedupe, if set, drops kept articles whose title was already dispatched.
	Dedupe wikidump.TitleSet

	Workers   int
	QueueSize int // defaults to DefaultQueueSize
	Ordered   bool

	// BytesTotal is the input size reported in progress snapshots, 0 if unknown.
	BytesTotal       int64
	Progress         wikidump.ProgressFunc
	ProgressInterval time.Duration // defaults to DefaultProgressInterval

	state atomic.Int32
}

// Result holds the outcome of a run.
type Result struct {
	Seen       int64
	Kept       int64
	Written    int64
	Duplicates int64
	BytesRead  int64
	Elapsed    time.Duration
}

// job is one kept article waiting for a worker.
type job struct {
	seq   int64
	title string
	text  string
}

// State returns the coordinator's current lifecycle stage.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Run processes the whole source. It returns once every dispatched article
// has been written, the source fails, the writer fails, or ctx is canceled.
// Calling Run a second time returns ECONFLICT.
func (c *Coordinator) Run(ctx context.Context) (*Result, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, wikidump.Errorf(wikidump.ECONFLICT, "coordinator has already run")
	}
	defer c.state.Store(int32(StateDone))

	r := &run{
		c:         c,
		sometimes: rate.Sometimes{Interval: c.progressInterval()},
	}
	r.progress.BytesTotal = c.BytesTotal
	r.progress.Started = time.Now()
	if c.Ordered {
		r.reorder = newReorderBuffer()
	}

	if err := r.execute(ctx); err != nil {
		return nil, err
	}

	r.result.Seen = r.progress.Seen
	r.result.Kept = r.progress.Kept
	r.result.BytesRead = r.progress.BytesRead
	r.result.Elapsed = time.Since(r.progress.Started)
	return &r.result, nil
}

func (c *Coordinator) validate() error {
	switch {
	case c.Source == nil:
		return wikidump.Errorf(wikidump.EINVALID, "article source required")
	case c.Normalizer == nil:
		return wikidump.Errorf(wikidump.EINVALID, "normalizer required")
	case c.Writer == nil:
		return wikidump.Errorf(wikidump.EINVALID, "document writer required")
	case c.Workers < 1:
		return wikidump.Errorf(wikidump.EINVALID, "worker count must be at least 1, got %d", c.Workers)
	case c.QueueSize < 0:
		return wikidump.Errorf(wikidump.EINVALID, "queue size must be positive, got %d", c.QueueSize)
	}
	return nil
}

func (c *Coordinator) queueSize() int {
	if c.QueueSize == 0 {
		return DefaultQueueSize
	}
	return c.QueueSize
}

func (c *Coordinator) progressInterval() time.Duration {
	if c.ProgressInterval <= 0 {
		return DefaultProgressInterval
	}
	return c.ProgressInterval
}

// work normalizes jobs until the queue is closed and empty.
func (c *Coordinator) work(ctx context.Context, jobs <-chan job, out *outbox) error {
	for {
		select {
		case j, ok := <-jobs:
			if !ok {
				return nil
			}
			out.put(&wikidump.Document{
				Seq:   j.seq,
				Title: j.title,
				Text:  c.Normalizer.Normalize(j.text),
			})
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// run holds the state owned by the coordinating goroutine during one Run.
// Workers never touch it.
type run struct {
	c         *Coordinator
	progress  wikidump.Progress
	result    Result
	reorder   *reorderBuffer
	sometimes rate.Sometimes
}

func (r *run) execute(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan job, r.c.queueSize())
	out := newOutbox()

	g, gctx := errgroup.WithContext(ctx)
	for range r.c.Workers {
		g.Go(func() error {
			return r.c.work(gctx, jobs, out)
		})
	}
	workersDone := make(chan error, 1)
	go func() {
		workersDone <- g.Wait()
		out.close()
	}()

	err := r.dispatch(gctx, jobs, out)
	close(jobs)
	r.c.state.Store(int32(StateDraining))

	// Workers exit once the queue is empty; everything they still produce
	// is written unless the run already failed.
	for err == nil {
		docs, closed := out.take()
		if err = r.writeAll(ctx, docs); err != nil || closed {
			break
		}
		<-out.ready
	}
	if err != nil {
		cancel()
	}
	if werr := <-workersDone; err == nil {
		err = werr
	}
	if err == nil && r.reorder != nil && r.reorder.Len() > 0 {
		err = wikidump.Errorf(wikidump.EINTERNAL, "%d documents left out of order", r.reorder.Len())
	}

	r.progress.BytesRead = r.c.Source.BytesRead()
	r.report()
	return err
}

// dispatch reads the source and queues kept articles until the source is
// exhausted.
func (r *run) dispatch(ctx context.Context, jobs chan<- job, out *outbox) error {
	src := r.c.Source
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		article, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("read article: %w", err)
		}

		r.progress.Seen++
		r.progress.BytesRead = src.BytesRead()
		r.progress.Title = article.Title
		r.sometimes.Do(r.report)

		if !article.IsContent() || !r.c.Filter.Keep(article.Text) {
			continue
		}
		if r.c.Dedupe != nil && r.c.Dedupe.TestAndAdd(article.Title) {
			r.result.Duplicates++
			continue
		}

		j := job{seq: r.progress.Kept, title: article.Title, text: article.Text}
		r.progress.Kept++
		if err := r.push(ctx, jobs, out, j); err != nil {
			return err
		}
	}
}

// push queues j, writing finished documents while the queue is full, then
// writes whatever else is already finished.
func (r *run) push(ctx context.Context, jobs chan<- job, out *outbox, j job) error {
	for queued := false; !queued; {
		select {
		case jobs <- j:
			queued = true
		case <-out.ready:
			docs, _ := out.take()
			if err := r.writeAll(ctx, docs); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	docs, _ := out.take()
	return r.writeAll(ctx, docs)
}

func (r *run) writeAll(ctx context.Context, docs []*wikidump.Document) error {
	for _, doc := range docs {
		if err := r.write(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// write sends doc to the writer, holding it back if an earlier document in
// an ordered run has not finished yet.
func (r *run) write(ctx context.Context, doc *wikidump.Document) error {
	ready := []*wikidump.Document{doc}
	if r.reorder != nil {
		ready = r.reorder.Add(doc)
	}
	for _, d := range ready {
		if err := r.c.Writer.WriteDocument(ctx, d); err != nil {
			return fmt.Errorf("write %q: %w", d.Title, err)
		}
		r.result.Written++
	}
	return nil
}

func (r *run) report() {
	if r.c.Progress != nil {
		r.c.Progress(r.progress)
	}
}
