package wikitext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// entityReplacer rewrites whitespace, dash and ellipsis entities that
// survive the first decoding pass (wikitext entities escaped once more by
// the XML dump).
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&#160;", " ",
	"&thinsp;", " ",
	"&#8201;", " ",
	"&ensp;", " ",
	"&emsp;", " ",
	"\u00a0", " ",
	"\u2009", " ",
	"&shy;", "",
	"&#173;", "",
	"\u00ad", "",
	"&mdash;", " - ",
	"&ndash;", " - ",
	"&hellip;", "... ",
)

var (
	dotsRe           = regexp.MustCompile(`\.{2,} ?`)
	residualEntityRe = regexp.MustCompile(`&#?[A-Za-z0-9]+;`)
)

// normalizeEntities decodes HTML entities twice, rewriting spacing and
// punctuation entities in between, and drops any entity left unrecognized.
func normalizeEntities(s string) string {
	s = html.UnescapeString(s)
	s = entityReplacer.Replace(s)
	s = dotsRe.ReplaceAllStringFunc(s, func(m string) string {
		return strings.TrimSuffix(m, " ") + " "
	})
	s = html.UnescapeString(s)
	return residualEntityRe.ReplaceAllString(s, "")
}
