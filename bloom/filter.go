// Package bloom provides article title deduplication using Bloom filters.
package bloom

import (
	"github.com/bits-and-blooms/bloom/v3"
	wikidump "github.com/llamasoft/WikiDump"
)

// DefaultCapacity is the expected number of titles in a full English dump.
const DefaultCapacity = 8_000_000

// DefaultFalsePositiveRate is the target rate at DefaultCapacity.
const DefaultFalsePositiveRate = 0.0001

var _ wikidump.TitleSet = (*Filter)(nil)

// Filter wraps a Bloom filter for title deduplication.
// It is not safe for concurrent use.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected titles
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a title to the filter.
func (f *Filter) Add(title string) {
	f.f.AddString(title)
}

// Test returns true if the title might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(title string) bool {
	return f.f.TestString(title)
}

// TestAndAdd tests for title and adds it in one pass.
func (f *Filter) TestAndAdd(title string) bool {
	return f.f.TestAndAddString(title)
}

// EstimatedCount returns the approximate number of titles in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
