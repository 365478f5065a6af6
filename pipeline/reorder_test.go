package pipeline

import (
	"testing"

	wikidump "github.com/llamasoft/WikiDump"
	"github.com/stretchr/testify/assert"
)

func TestReorderBuffer_Add(t *testing.T) {
	t.Parallel()

	b := newReorderBuffer()
	doc := func(seq int64) *wikidump.Document {
		return &wikidump.Document{Seq: seq, Title: "t"}
	}
	seqs := func(docs []*wikidump.Document) []int64 {
		out := []int64{}
		for _, d := range docs {
			out = append(out, d.Seq)
		}
		return out
	}

	assert.Empty(t, b.Add(doc(2)))
	assert.Empty(t, b.Add(doc(1)))
	assert.Equal(t, 2, b.Len())

	assert.Equal(t, []int64{0, 1, 2}, seqs(b.Add(doc(0))))
	assert.Equal(t, 0, b.Len())

	assert.Equal(t, []int64{3}, seqs(b.Add(doc(3))))
}
