package pipeline

import wikidump "github.com/llamasoft/WikiDump"

// reorderBuffer releases documents in sequence order, holding any that
// arrive before their predecessors.
type reorderBuffer struct {
	next    int64
	pending map[int64]*wikidump.Document
}

func newReorderBuffer() *reorderBuffer {
	return &reorderBuffer{pending: make(map[int64]*wikidump.Document)}
}

// Add stores doc and returns the documents that are now in order.
func (b *reorderBuffer) Add(doc *wikidump.Document) []*wikidump.Document {
	if doc.Seq != b.next {
		b.pending[doc.Seq] = doc
		return nil
	}

	ready := []*wikidump.Document{doc}
	b.next++
	for {
		d, ok := b.pending[b.next]
		if !ok {
			return ready
		}
		delete(b.pending, b.next)
		ready = append(ready, d)
		b.next++
	}
}

// Len returns the number of documents held back.
func (b *reorderBuffer) Len() int {
	return len(b.pending)
}
