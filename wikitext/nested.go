package wikitext

import (
	"sort"
	"strings"
)

// span is a half-open byte range [start, end) scheduled for removal.
type span struct {
	start, end int
}

// addCut appends c to cuts. Cuts must be added in increasing end order;
// previously added cuts that lie inside c are absorbed by it.
func addCut(cuts []span, c span) []span {
	for len(cuts) > 0 && cuts[len(cuts)-1].start >= c.start {
		cuts = cuts[:len(cuts)-1]
	}
	return append(cuts, c)
}

// cutSpans returns s with every span removed. Spans must not overlap.
func cutSpans(s string, cuts []span) string {
	if len(cuts) == 0 {
		return s
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i].start < cuts[j].start })

	var b strings.Builder
	b.Grow(len(s))
	pos := 0
	for _, c := range cuts {
		b.WriteString(s[pos:c.start])
		pos = c.end
	}
	b.WriteString(s[pos:])
	return b.String()
}

// removeNested deletes every balanced open...close block from s, including
// nested blocks. A close delimiter always pairs with the nearest unmatched
// open delimiter, which removes innermost blocks first. Unmatched delimiters
// stay in the output.
func removeNested(s, open, close string) string {
	if !strings.Contains(s, open) {
		return s
	}

	var stack []int
	var cuts []span
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], open):
			stack = append(stack, i)
			i += len(open)
		case len(stack) > 0 && strings.HasPrefix(s[i:], close):
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			i += len(close)
			cuts = addCut(cuts, span{start, i})
		default:
			i++
		}
	}
	return cutSpans(s, cuts)
}
