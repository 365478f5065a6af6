package wikidump

import "context"

// Document is the plain-text form of a kept article.
type Document struct {
	// Seq is the dispatch order of the article among kept articles, starting at 0.
	Seq   int64  `json:"seq"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Title == "" {
		return Errorf(EINVALID, "document title required")
	}
	if d.Seq < 0 {
		return Errorf(EINVALID, "document sequence must not be negative")
	}
	return nil
}

// DocumentWriter writes documents to an output sink.
type DocumentWriter interface {
	WriteDocument(ctx context.Context, doc *Document) error
}

// DocumentStore persists documents with atomic semantics.
// WriteDocument stages output; Commit makes it permanent;
// Abort discards pending output.
type DocumentStore interface {
	DocumentWriter
	Commit() error
	Abort() error
}
