package wikidump

// MainNamespace is the namespace of encyclopedic articles.
const MainNamespace = 0

// Article is one page record parsed from a dump.
// It is immutable once created.
type Article struct {
	Title     string
	Namespace int
	Redirect  bool
	Text      string // raw wikitext, still XML-escaped
}

// IsContent reports whether the article is a main-namespace, non-redirect page.
// Only content articles are considered for filtering.
func (a *Article) IsContent() bool {
	return a.Namespace == MainNamespace && !a.Redirect
}

// ArticleSource yields articles from a dump in document order.
type ArticleSource interface {
	// Next returns the next structurally valid article.
	// Pages missing a title, namespace or text body are skipped silently.
	// Returns io.EOF when the input is exhausted.
	Next() (*Article, error)

	// BytesRead returns the number of input bytes consumed so far.
	BytesRead() int64
}

// Normalizer converts a raw wikitext body into plain text.
// Implementations must be pure and safe for concurrent use.
type Normalizer interface {
	Normalize(text string) string
}

// TitleSet remembers article titles seen during a run.
type TitleSet interface {
	// TestAndAdd reports whether title may have been added before and
	// records it. False positives are allowed; false negatives are not.
	TestAndAdd(title string) bool
}
