package dump_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	wikidump "github.com/llamasoft/WikiDump"
	"github.com/llamasoft/WikiDump/dump"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/" version="0.10" xml:lang="en">
  <siteinfo>
    <sitename>Wikipedia</sitename>
    <dbname>enwiki</dbname>
    <base>https://en.wikipedia.org/wiki/Main_Page</base>
    <generator>MediaWiki 1.41.0-wmf.1</generator>
    <case>first-letter</case>
    <namespaces>
      <namespace key="-2" case="first-letter">Media</namespace>
      <namespace key="0" case="first-letter" />
      <namespace key="1" case="first-letter">Talk</namespace>
    </namespaces>
  </siteinfo>
  <page>
    <title>Dracula</title>
    <ns>0</ns>
    <id>1</id>
    <revision>
      <id>10</id>
      <text bytes="52" xml:space="preserve">'''Dracula''' is a novel.
[[Category:1897 novels]]</text>
    </revision>
  </page>
  <page>
    <title>Talk:Dracula</title>
    <ns>1</ns>
    <revision><text xml:space="preserve">Discussion</text></revision>
  </page>
  <page>
    <title>Count Dracula</title>
    <ns>0</ns>
    <redirect title="Dracula (character)" />
    <revision><text xml:space="preserve">#REDIRECT [[Dracula (character)]]</text></revision>
  </page>
  <page>
    <title>Broken</title>
    <revision><text>no namespace</text></revision>
  </page>
  <page>
    <title>AT&amp;T</title>
    <ns>0</ns>
    <revision><text xml:space="preserve">Telecom &amp;amp; more</text></revision>
  </page>
</mediawiki>
`

func readAll(t *testing.T, s *dump.Scanner) []*wikidump.Article {
	t.Helper()
	var articles []*wikidump.Article
	for {
		a, err := s.Next()
		if errors.Is(err, io.EOF) {
			return articles
		}
		require.NoError(t, err)
		articles = append(articles, a)
	}
}

func TestScanner_Next(t *testing.T) {
	t.Parallel()

	t.Run("reads structurally valid pages in document order", func(t *testing.T) {
		t.Parallel()

		s := dump.NewScanner(strings.NewReader(sampleDump))

		articles := readAll(t, s)

		require.Len(t, articles, 4)
		assert.Equal(t, &wikidump.Article{
			Title:     "Dracula",
			Namespace: 0,
			Text:      "'''Dracula''' is a novel.\n[[Category:1897 novels]]",
		}, articles[0])
		assert.Equal(t, "Talk:Dracula", articles[1].Title)
		assert.Equal(t, 1, articles[1].Namespace)
		assert.Equal(t, "Count Dracula", articles[2].Title)
		assert.True(t, articles[2].Redirect)
		assert.Equal(t, "AT&T", articles[3].Title)
		assert.Equal(t, "Telecom &amp;amp; more", articles[3].Text, "text stays escaped")

		assert.Equal(t, int64(1), s.Skipped())
		assert.Equal(t, int64(len(sampleDump)), s.BytesRead())
	})

	t.Run("results do not depend on chunk size", func(t *testing.T) {
		t.Parallel()

		want := readAll(t, dump.NewScanner(strings.NewReader(sampleDump)))

		for _, size := range []int{1, 3, 7, 64, 100000} {
			s := dump.NewScanner(strings.NewReader(sampleDump), dump.WithChunkSize(size))
			assert.Equal(t, want, readAll(t, s), "chunk size %d", size)
		}
	})

	t.Run("handles readers that return short reads", func(t *testing.T) {
		t.Parallel()

		s := dump.NewScanner(iotest.OneByteReader(strings.NewReader(sampleDump)))

		assert.Len(t, readAll(t, s), 4)
	})

	t.Run("discards trailing partial page", func(t *testing.T) {
		t.Parallel()

		input := "<page><title>A</title><ns>0</ns><text>x</text></page><page><title>B</title>"
		s := dump.NewScanner(strings.NewReader(input))

		articles := readAll(t, s)

		require.Len(t, articles, 1)
		assert.Equal(t, "A", articles[0].Title)
	})

	t.Run("matches page tags case-insensitively", func(t *testing.T) {
		t.Parallel()

		input := "<PAGE><title>A</title><ns>0</ns><text>x</text></Page>"
		s := dump.NewScanner(strings.NewReader(input))

		assert.Len(t, readAll(t, s), 1)
	})

	t.Run("skips pages with self-closing text", func(t *testing.T) {
		t.Parallel()

		input := `<page><title>A</title><ns>0</ns><text bytes="0" /></page>`
		s := dump.NewScanner(strings.NewReader(input))

		assert.Empty(t, readAll(t, s))
		assert.Equal(t, int64(1), s.Skipped())
	})

	t.Run("matches field tags case-insensitively", func(t *testing.T) {
		t.Parallel()

		input := "<page><TITLE>A</Title><NS>0</NS><Redirect title=\"B\" /><TEXT>x</Text></page>"
		s := dump.NewScanner(strings.NewReader(input))

		articles := readAll(t, s)
		require.Len(t, articles, 1)
		assert.Equal(t, "A", articles[0].Title)
		assert.True(t, articles[0].Redirect)
		assert.Equal(t, "x", articles[0].Text)
	})

	t.Run("skips pages with an empty title", func(t *testing.T) {
		t.Parallel()

		input := `<page><title></title><ns>0</ns><text>a</text></page>
<page><title>  &#32; </title><ns>0</ns><text>b</text></page>
<page><title>B</title><ns>0</ns><text>c</text></page>`
		s := dump.NewScanner(strings.NewReader(input))

		articles := readAll(t, s)
		require.Len(t, articles, 1)
		assert.Equal(t, "B", articles[0].Title)
		assert.Equal(t, int64(2), s.Skipped())
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		s := dump.NewScanner(strings.NewReader(""))

		_, err := s.Next()

		assert.ErrorIs(t, err, io.EOF)
		assert.Nil(t, s.SiteInfo())
	})

	t.Run("returns read errors", func(t *testing.T) {
		t.Parallel()

		s := dump.NewScanner(iotest.ErrReader(errors.New("disk failure")))

		_, err := s.Next()

		require.Error(t, err)
		assert.NotErrorIs(t, err, io.EOF)
	})
}

func TestScanner_SiteInfo(t *testing.T) {
	t.Parallel()

	s := dump.NewScanner(strings.NewReader(sampleDump), dump.WithChunkSize(16))
	_, err := s.Next()
	require.NoError(t, err)

	info := s.SiteInfo()

	require.NotNil(t, info)
	assert.Equal(t, "Wikipedia", info.SiteName)
	assert.Equal(t, "enwiki", info.DBName)
	assert.Equal(t, "first-letter", info.Case)
	name, ok := info.NamespaceName(1)
	assert.True(t, ok)
	assert.Equal(t, "Talk", name)
	name, ok = info.NamespaceName(0)
	assert.True(t, ok)
	assert.Empty(t, name)
}

type fixedCounter int64

func (c fixedCounter) BytesRead() int64 { return int64(c) }

func TestScanner_WithCounter(t *testing.T) {
	t.Parallel()

	s := dump.NewScanner(strings.NewReader(sampleDump), dump.WithCounter(fixedCounter(42)))
	readAll(t, s)

	assert.Equal(t, int64(42), s.BytesRead())
}

func TestParseSiteInfo(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND without siteinfo", func(t *testing.T) {
		t.Parallel()

		_, err := dump.ParseSiteInfo([]byte("<mediawiki>"))

		assert.Equal(t, wikidump.ENOTFOUND, wikidump.ErrorCode(err))
	})

	t.Run("returns EINVALID for malformed siteinfo", func(t *testing.T) {
		t.Parallel()

		_, err := dump.ParseSiteInfo([]byte("<siteinfo><sitename>x</dbname></siteinfo>"))

		assert.Equal(t, wikidump.EINVALID, wikidump.ErrorCode(err))
	})

	t.Run("nil site info has no namespaces", func(t *testing.T) {
		t.Parallel()

		var info *dump.SiteInfo

		_, ok := info.NamespaceName(0)
		assert.False(t, ok)
	})
}
