package wikitext

import (
	"regexp"
	"strings"
)

// tagRe matches a single opening, closing or self-closing tag.
// Groups: 1 closing slash, 2 name, 3 self-closing slash.
var tagRe = regexp.MustCompile(`<(/?)([A-Za-z][A-Za-z0-9]*)(?:\s[^<>]*?)?(/?)>`)

// loneTagRe matches any tag left after paired tags have been removed.
var loneTagRe = regexp.MustCompile(`</?[A-Za-z][A-Za-z0-9]*(?:\s[^<>]*)?/?>`)

// allowedTags are unwrapped rather than removed: the markup goes, the
// content stays.
var allowedTags = map[string]bool{
	// quotes and blocks
	"blockquote": true, "q": true, "cite": true, "div": true, "span": true,
	"center": true, "p": true,
	// headings
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	// code and verse
	"pre": true, "code": true, "tt": true, "kbd": true, "samp": true,
	"var": true, "poem": true, "nowiki": true,
	// size and style
	"small": true, "big": true, "sub": true, "sup": true, "font": true,
	"b": true, "i": true, "u": true, "s": true, "strike": true, "del": true,
	"ins": true, "em": true, "strong": true, "abbr": true, "mark": true,
	// lists and tables
	"ul": true, "ol": true, "li": true, "dl": true, "dt": true, "dd": true,
	"table": true, "thead": true, "tbody": true, "tfoot": true, "caption": true,
	"tr": true, "th": true, "td": true,
}

type tag struct {
	start, end  int
	name        string
	closing     bool
	selfClosing bool
}

func scanTags(s string) []tag {
	locs := tagRe.FindAllStringSubmatchIndex(s, -1)
	tags := make([]tag, 0, len(locs))
	for _, loc := range locs {
		tags = append(tags, tag{
			start:       loc[0],
			end:         loc[1],
			closing:     loc[3] > loc[2],
			name:        strings.ToLower(s[loc[4]:loc[5]]),
			selfClosing: loc[7] > loc[6],
		})
	}
	return tags
}

// unwrapAllowedTags removes the open and close markup of every balanced pair
// of allow-listed tags, keeping the content between them. A close tag pairs
// with the nearest unmatched open tag of the same name.
func unwrapAllowedTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	var stack []tag
	var cuts []span
	for _, t := range scanTags(s) {
		if t.selfClosing || !allowedTags[t.name] {
			continue
		}
		if !t.closing {
			stack = append(stack, t)
			continue
		}
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].name == t.name {
				cuts = append(cuts, span{stack[i].start, stack[i].end}, span{t.start, t.end})
				stack = append(stack[:i], stack[i+1:]...)
				break
			}
		}
	}
	return cutSpans(s, cuts)
}

// removeTagPairs deletes every balanced tag pair together with its content,
// then strips any tags left unpaired while keeping the text around them.
func removeTagPairs(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	var stack []tag
	var cuts []span
	for _, t := range scanTags(s) {
		if t.selfClosing {
			continue
		}
		if !t.closing {
			stack = append(stack, t)
			continue
		}
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].name == t.name {
				cuts = addCut(cuts, span{stack[i].start, t.end})
				stack = stack[:i]
				break
			}
		}
	}
	return loneTagRe.ReplaceAllString(cutSpans(s, cuts), "")
}
