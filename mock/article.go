package mock

import wikidump "github.com/llamasoft/WikiDump"

// Compile-time interface verification.
var (
	_ wikidump.ArticleSource = (*ArticleSource)(nil)
	_ wikidump.Normalizer    = (*Normalizer)(nil)
	_ wikidump.TitleSet      = (*TitleSet)(nil)
)

// ArticleSource is a mock implementation of wikidump.ArticleSource.
type ArticleSource struct {
	NextFn      func() (*wikidump.Article, error)
	BytesReadFn func() int64
}

func (s *ArticleSource) Next() (*wikidump.Article, error) {
	return s.NextFn()
}

func (s *ArticleSource) BytesRead() int64 {
	return s.BytesReadFn()
}

// Normalizer is a mock implementation of wikidump.Normalizer.
type Normalizer struct {
	NormalizeFn func(text string) string
}

func (n *Normalizer) Normalize(text string) string {
	return n.NormalizeFn(text)
}

// TitleSet is a mock implementation of wikidump.TitleSet.
type TitleSet struct {
	TestAndAddFn func(title string) bool
}

func (s *TitleSet) TestAndAdd(title string) bool {
	return s.TestAndAddFn(title)
}
