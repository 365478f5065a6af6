package wikidump

import (
	"regexp"
	"strings"
)

var (
	// categoryRe matches [[Category:Value]] tags. The value may carry a
	// |sortkey suffix; it never spans brackets or lines.
	categoryRe = regexp.MustCompile(`(?i)\[\[Category:([^\[\]\n]+)\]\]`)

	// transclusionRe matches single-line, non-nested {{...}} templates.
	transclusionRe = regexp.MustCompile(`\{\{([^{}\n]+)\}\}`)
)

// FilterTerms holds the user-supplied filter strings.
// Empty terms on both sides put the filter in pass-through mode.
type FilterTerms struct {
	Categories    []string `yaml:"categories" json:"categories"`
	Transclusions []string `yaml:"transclusions" json:"transclusions"`
}

// Merge returns the union of t and other, preserving order and dropping
// exact duplicates.
func (t FilterTerms) Merge(other FilterTerms) FilterTerms {
	return FilterTerms{
		Categories:    mergeTerms(t.Categories, other.Categories),
		Transclusions: mergeTerms(t.Transclusions, other.Transclusions),
	}
}

func mergeTerms(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// FilterPattern is a case-insensitive literal substring matcher.
type FilterPattern struct {
	term string
	re   *regexp.Regexp
}

// NewFilterPattern compiles term into a case-insensitive substring matcher.
// Regex metacharacters in term are matched literally.
func NewFilterPattern(term string) *FilterPattern {
	return &FilterPattern{
		term: term,
		re:   regexp.MustCompile("(?i)" + regexp.QuoteMeta(term)),
	}
}

// Match returns true if value contains the pattern's term, ignoring case.
func (p *FilterPattern) Match(value string) bool {
	return p.re.MatchString(value)
}

// String returns the original term.
func (p *FilterPattern) String() string {
	return p.term
}

// ArticleFilter decides whether an article is kept based on the categories
// and templates embedded in its wikitext.
// It is read-only after construction and safe for concurrent use.
type ArticleFilter struct {
	// Categories are tested against the value of every [[Category:...]] tag.
	Categories []*FilterPattern

	// Transclusions are tested against the content of every {{...}} template
	// that is not a citation template.
	Transclusions []*FilterPattern
}

// NewArticleFilter compiles the given terms into an ArticleFilter.
// Returns EINVALID if any term is blank.
func NewArticleFilter(terms FilterTerms) (*ArticleFilter, error) {
	f := &ArticleFilter{}
	for _, term := range terms.Categories {
		if strings.TrimSpace(term) == "" {
			return nil, Errorf(EINVALID, "category term must not be blank")
		}
		f.Categories = append(f.Categories, NewFilterPattern(term))
	}
	for _, term := range terms.Transclusions {
		if strings.TrimSpace(term) == "" {
			return nil, Errorf(EINVALID, "transclusion term must not be blank")
		}
		f.Transclusions = append(f.Transclusions, NewFilterPattern(term))
	}
	return f, nil
}

// PassThrough returns true if the filter keeps every article.
// A nil filter is pass-through.
func (f *ArticleFilter) PassThrough() bool {
	return f == nil || (len(f.Categories) == 0 && len(f.Transclusions) == 0)
}

// Keep returns true if the raw wikitext should be kept.
// Category tags are checked first; templates only if no category matched.
func (f *ArticleFilter) Keep(text string) bool {
	if f.PassThrough() {
		return true
	}
	if len(f.Categories) > 0 && scanMatch(text, categoryRe, f.Categories, nil) {
		return true
	}
	if len(f.Transclusions) > 0 && scanMatch(text, transclusionRe, f.Transclusions, isCitation) {
		return true
	}
	return false
}

// isCitation reports whether template content names a {{cite ...}} template.
func isCitation(content string) bool {
	return len(content) >= 4 && strings.EqualFold(content[:4], "cite")
}

// scanMatch walks re's non-overlapping matches in text from left to right and
// returns true on the first captured value matched by any pattern.
func scanMatch(text string, re *regexp.Regexp, patterns []*FilterPattern, skip func(string) bool) bool {
	for pos := 0; pos < len(text); {
		loc := re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			return false
		}
		value := text[pos+loc[2] : pos+loc[3]]
		if skip == nil || !skip(value) {
			for _, p := range patterns {
				if p.Match(value) {
					return true
				}
			}
		}
		pos += loc[1]
	}
	return false
}
