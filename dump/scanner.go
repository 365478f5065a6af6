// Package dump reads pages from MediaWiki XML dumps without loading the
// whole dump into memory.
package dump

import (
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	wikidump "github.com/llamasoft/WikiDump"
	"golang.org/x/net/html"
)

// DefaultChunkSize is the number of bytes read from the source at a time.
const DefaultChunkSize = 64 * 1024

// maxHeaderSize bounds how much of the input is kept while looking for the
// first page before the siteinfo header is given up on.
const maxHeaderSize = 1 << 20

var (
	pageOpenRe  = regexp.MustCompile(`(?i)<page>`)
	pageCloseRe = regexp.MustCompile(`(?i)</page>`)

	titleRe    = regexp.MustCompile(`(?is)<title>(.*?)</title>`)
	nsRe       = regexp.MustCompile(`(?i)<ns>\s*(-?\d+)\s*</ns>`)
	redirectRe = regexp.MustCompile(`(?i)<redirect\b`)
	textRe     = regexp.MustCompile(`(?is)<text\b(?:[^>]*[^/>])?>(.*?)</text>`)
)

// Ensure Scanner implements wikidump.ArticleSource at compile time.
var _ wikidump.ArticleSource = (*Scanner)(nil)

// ByteCounter reports how many bytes of the underlying input were consumed.
type ByteCounter interface {
	BytesRead() int64
}

// Scanner extracts <page>...</page> records from a byte stream.
//
// It keeps a single buffer, appending fixed-size chunks until the buffer
// holds a complete page, which is cut from the front of the buffer. Memory
// use is bounded by the largest page plus one chunk. A trailing incomplete
// page is discarded at end of input.
//
// Scanner is not safe for concurrent use.
type Scanner struct {
	r         io.Reader
	chunkSize int
	counter   ByteCounter

	buf       []byte
	closeFrom int // offset in buf where the search for </page> resumes
	eof       bool

	read    int64
	skipped int64

	headerDone bool
	siteInfo   *SiteInfo
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithChunkSize sets the number of bytes read per call to the source.
func WithChunkSize(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithCounter makes BytesRead report counter's value instead of the bytes
// read by the scanner. Use it when r decompresses another stream and
// progress should be measured against the compressed size.
func WithCounter(counter ByteCounter) Option {
	return func(s *Scanner) {
		s.counter = counter
	}
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader, opts ...Option) *Scanner {
	s := &Scanner{
		r:         r,
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next returns the next page that carries a title, namespace and text body.
// Pages missing any of them are skipped. Returns io.EOF at end of input.
func (s *Scanner) Next() (*wikidump.Article, error) {
	for {
		span, err := s.nextPage()
		if err != nil {
			return nil, err
		}
		if article, ok := parseArticle(span); ok {
			return article, nil
		}
		s.skipped++
	}
}

// BytesRead returns the number of input bytes consumed so far.
func (s *Scanner) BytesRead() int64 {
	if s.counter != nil {
		return s.counter.BytesRead()
	}
	return s.read
}

// Skipped returns the number of page records that failed to parse.
func (s *Scanner) Skipped() int64 {
	return s.skipped
}

// SiteInfo returns the dump's siteinfo header, or nil if none has been seen.
// The header is only available once the first page has been read.
func (s *Scanner) SiteInfo() *SiteInfo {
	return s.siteInfo
}

// nextPage returns the next raw <page>...</page> span.
func (s *Scanner) nextPage() ([]byte, error) {
	for {
		if span := s.cutPage(); span != nil {
			return span, nil
		}
		if s.eof {
			s.buf = nil
			return nil, io.EOF
		}
		if err := s.fill(); err != nil {
			return nil, err
		}
	}
}

// fill appends one chunk from the source to the buffer.
func (s *Scanner) fill() error {
	if cap(s.buf)-len(s.buf) < s.chunkSize {
		grown := make([]byte, len(s.buf), 2*cap(s.buf)+s.chunkSize)
		copy(grown, s.buf)
		s.buf = grown
	}
	n, err := s.r.Read(s.buf[len(s.buf) : len(s.buf)+s.chunkSize])
	s.buf = s.buf[:len(s.buf)+n]
	s.read += int64(n)

	if errors.Is(err, io.EOF) {
		s.eof = true
		return nil
	}
	return err
}

// cutPage removes and returns the leading complete page span in the buffer.
// Returns nil if the buffer does not hold a complete page yet.
func (s *Scanner) cutPage() []byte {
	open := pageOpenRe.FindIndex(s.buf)
	if open == nil {
		s.dropPrologue()
		return nil
	}

	if !s.headerDone {
		s.readHeader(s.buf[:open[0]])
	}
	if open[0] > 0 {
		s.discard(open[0])
		s.closeFrom = max(s.closeFrom-open[0], 0)
		open[1] -= open[0]
		open[0] = 0
	}

	from := max(open[1], s.closeFrom)
	loc := pageCloseRe.FindIndex(s.buf[from:])
	if loc == nil {
		// A closing tag may straddle the next chunk boundary.
		s.closeFrom = max(open[1], len(s.buf)-len("</page>")+1)
		return nil
	}

	end := from + loc[1]
	span := make([]byte, end)
	copy(span, s.buf[:end])
	s.discard(end)
	s.closeFrom = 0
	return span
}

// dropPrologue trims a buffer that holds no page opening tag, keeping just
// enough bytes to complete a tag split across chunks. The buffer is kept
// whole while the siteinfo header may still be in it.
func (s *Scanner) dropPrologue() {
	if !s.headerDone && len(s.buf) < maxHeaderSize && !s.eof {
		return
	}
	if !s.headerDone {
		s.readHeader(s.buf)
	}
	if keep := len("<page>") - 1; len(s.buf) > keep {
		s.discard(len(s.buf) - keep)
	}
	s.closeFrom = 0
}

// readHeader parses the siteinfo header from the bytes preceding the first page.
func (s *Scanner) readHeader(prologue []byte) {
	s.headerDone = true
	if info, err := ParseSiteInfo(prologue); err == nil {
		s.siteInfo = info
	}
}

// discard drops the first n bytes of the buffer, reusing its storage.
func (s *Scanner) discard(n int) {
	m := copy(s.buf, s.buf[n:])
	s.buf = s.buf[:m]
}

// parseArticle extracts the article fields from a raw page span.
func parseArticle(span []byte) (*wikidump.Article, bool) {
	page := string(span)

	m := titleRe.FindStringSubmatch(page)
	if m == nil {
		return nil, false
	}
	title := strings.TrimSpace(html.UnescapeString(m[1]))
	if title == "" {
		return nil, false
	}
	ns := nsRe.FindStringSubmatch(page)
	if ns == nil {
		return nil, false
	}
	namespace, err := strconv.Atoi(ns[1])
	if err != nil {
		return nil, false
	}
	text := textRe.FindStringSubmatch(page)
	if text == nil {
		return nil, false
	}

	return &wikidump.Article{
		Title:     title,
		Namespace: namespace,
		Redirect:  redirectRe.MatchString(page),
		Text:      text[1],
	}, true
}
