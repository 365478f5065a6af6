// Package wikitext converts MediaWiki markup into plain text.
package wikitext

import (
	"regexp"
	"strings"

	wikidump "github.com/llamasoft/WikiDump"
)

var (
	// footerRe matches the first heading of the trailing reference sections.
	footerRe = regexp.MustCompile(`(?i)={2,}\s*(?:see also|references|further reading|external links|notes)\s*={2,}`)

	breakRe   = regexp.MustCompile(`(?i)<(?:br|hr)\b[^<>]*>`)
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)

	hashLineRe   = regexp.MustCompile(`(?m)^#.*$`)
	apostropheRe = regexp.MustCompile(`'{2,}`)
	headingRe    = regexp.MustCompile(`={2,}[^=\n]*={2,}`)

	externalLinkRe = regexp.MustCompile(`\[https?://[^\s\]]*\s*([^\]]*)\]`)
	bareURLRe      = regexp.MustCompile(`https?://\S+`)
	listMarkerRe   = regexp.MustCompile(`(?m)^[*#;: \t]+`)

	newlinesRe = regexp.MustCompile(`[\r\n]+`)
)

// Ensure Normalizer implements wikidump.Normalizer at compile time.
var _ wikidump.Normalizer = (*Normalizer)(nil)

// Normalizer implements wikidump.Normalizer using Normalize.
// It holds no state and is safe for concurrent use.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize converts raw wikitext into plain text.
func (n *Normalizer) Normalize(text string) string {
	return Normalize(text)
}

// Normalize converts a raw article body, as stored in the dump, into plain
// text. Each stage operates on the output of the previous one:
//
//  1. truncate at the first See Also/References/Further Reading/External Links/Notes heading
//  2. replace invalid UTF-8
//  3. decode and normalize entities
//  4. turn <br>/<hr> into spaces and drop comments
//  5. unwrap allow-listed HTML tags, keeping their content
//  6. remove all other tag pairs with their content, then lone tags
//  7. drop #-lines, bold/italic quotes and headings
//  8. remove {{templates}} and {|tables|}
//  9. replace [[links]] with their display text
//  10. reduce [http external links] to their label, drop bare URLs and list markers
//  11. trim and collapse newline runs
//
// Unterminated constructs are left in the output as text.
func Normalize(text string) string {
	if loc := footerRe.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}

	text = strings.ToValidUTF8(text, "\uFFFD")
	text = normalizeEntities(text)

	text = breakRe.ReplaceAllString(text, " ")
	text = commentRe.ReplaceAllString(text, "")

	text = unwrapAllowedTags(text)
	text = removeTagPairs(text)

	text = hashLineRe.ReplaceAllString(text, "")
	text = apostropheRe.ReplaceAllString(text, "")
	text = headingRe.ReplaceAllString(text, "")

	text = removeNested(text, "{{", "}}")
	text = removeNested(text, "{|", "|}")

	text = resolveLinks(text)

	text = externalLinkRe.ReplaceAllString(text, "$1")
	text = bareURLRe.ReplaceAllString(text, "")
	text = listMarkerRe.ReplaceAllString(text, "")

	text = strings.TrimSpace(text)
	return newlinesRe.ReplaceAllString(text, "\n")
}
