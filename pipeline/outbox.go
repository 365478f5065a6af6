package pipeline

import (
	"sync"

	wikidump "github.com/llamasoft/WikiDump"
)

// outbox collects normalized documents from workers. put never blocks, so a
// worker moves on to its next job even while the coordinator is busy reading
// the source.
type outbox struct {
	mu     sync.Mutex
	docs   []*wikidump.Document
	closed bool

	// ready holds at most one pending wakeup for the coordinator.
	ready chan struct{}
}

func newOutbox() *outbox {
	return &outbox{ready: make(chan struct{}, 1)}
}

func (o *outbox) put(doc *wikidump.Document) {
	o.mu.Lock()
	o.docs = append(o.docs, doc)
	o.mu.Unlock()
	o.notify()
}

// close marks the outbox as complete. No put may follow.
func (o *outbox) close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	o.notify()
}

func (o *outbox) notify() {
	select {
	case o.ready <- struct{}{}:
	default:
	}
}

// take removes and returns every waiting document. closed reports whether
// the returned batch is the last one.
func (o *outbox) take() (docs []*wikidump.Document, closed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	docs, o.docs = o.docs, nil
	return docs, o.closed
}
