package wikitext

import (
	"regexp"
	"strings"
)

var (
	// namespaceLinkRe matches File:, Category:, Image: and similar prefixes.
	namespaceLinkRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9_]+:\S`)

	// languageLinkRe matches interlanguage prefixes such as en: or de:.
	languageLinkRe = regexp.MustCompile(`^[a-z]+:\S`)
)

// ResolveLink maps the body of a [[...]] link to its display text.
//
// Namespaced links and in-page anchors resolve to nothing. Language-prefixed
// links resolve to everything after the first colon, without further pipe
// splitting. All other links resolve to their last pipe-separated segment.
// The w: prefix is not treated as a language prefix.
func ResolveLink(body string) string {
	switch {
	case body == "":
		return ""
	case namespaceLinkRe.MatchString(body):
		return ""
	case strings.HasPrefix(body, "#"):
		return ""
	case languageLinkRe.MatchString(body) && !strings.HasPrefix(body, "w:"):
		_, after, _ := strings.Cut(body, ":")
		return after
	}
	return body[strings.LastIndex(body, "|")+1:]
}

// resolveLinks replaces every [[...]] link with its resolved display text,
// innermost first. Unterminated links are left in place as literal text.
func resolveLinks(s string) string {
	if !strings.Contains(s, "[[") {
		return s
	}

	// One builder per open link; the bottom builder collects the output.
	stack := []*strings.Builder{{}}
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], "[["):
			stack = append(stack, &strings.Builder{})
			i += 2
		case len(stack) > 1 && strings.HasPrefix(s[i:], "]]"):
			body := stack[len(stack)-1].String()
			stack = stack[:len(stack)-1]
			stack[len(stack)-1].WriteString(ResolveLink(body))
			i += 2
		default:
			stack[len(stack)-1].WriteByte(s[i])
			i++
		}
	}

	for len(stack) > 1 {
		body := stack[len(stack)-1].String()
		stack = stack[:len(stack)-1]
		stack[len(stack)-1].WriteString("[[")
		stack[len(stack)-1].WriteString(body)
	}
	return stack[0].String()
}
