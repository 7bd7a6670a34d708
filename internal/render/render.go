// Package render substitutes the highlight delimiters in marked sentences
// for the markup of a display surface.
package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/valpere/prosemark/internal/highlight"
)

// Style names a display surface.
type Style string

const (
	Plain    Style = "plain"
	ANSI     Style = "ansi"
	HTML     Style = "html"
	Brackets Style = "brackets"
)

// Styles lists every supported style.
var Styles = []Style{Plain, ANSI, HTML, Brackets}

// markedSpan matches one delimited span: [1] is the highlighted text.
var markedSpan = regexp.MustCompile("(?s)" + regexp.QuoteMeta(highlight.Open) + "(.*?)" + regexp.QuoteMeta(highlight.Close))

type pair struct{ open, close string }

var pairs = map[Style]pair{
	Plain:    {"", ""},
	ANSI:     {"\x1b[1;33m", "\x1b[0m"},
	HTML:     {"<mark>", "</mark>"},
	Brackets: {"[[", "]]"},
}

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := pairs[st]; !ok {
		return "", fmt.Errorf("unknown style %q (want one of %v)", s, Styles)
	}
	return st, nil
}

// Marked rewrites the delimiters of marked. The HTML style also escapes
// the sentence text around the spans.
func Marked(marked string, style Style) string {
	p, ok := pairs[style]
	if !ok {
		p = pairs[Plain]
	}
	if style != HTML {
		return markedSpan.ReplaceAllString(marked, p.open+"${1}"+p.close)
	}

	var b strings.Builder
	last := 0
	for _, loc := range markedSpan.FindAllStringSubmatchIndex(marked, -1) {
		b.WriteString(html.EscapeString(marked[last:loc[0]]))
		b.WriteString(p.open)
		b.WriteString(html.EscapeString(marked[loc[2]:loc[3]]))
		b.WriteString(p.close)
		last = loc[1]
	}
	b.WriteString(html.EscapeString(marked[last:]))
	return b.String()
}

// Spans returns the highlighted substrings of marked in order.
func Spans(marked string) []string {
	var out []string
	for _, m := range markedSpan.FindAllStringSubmatch(marked, -1) {
		out = append(out, m[1])
	}
	return out
}

// Balanced reports whether every opening delimiter is closed before the
// next one opens.
func Balanced(marked string) bool {
	depth := 0
	for i := 0; i < len(marked); {
		switch {
		case strings.HasPrefix(marked[i:], highlight.Open):
			if depth > 0 {
				return false
			}
			depth++
			i += len(highlight.Open)
		case strings.HasPrefix(marked[i:], highlight.Close):
			if depth == 0 {
				return false
			}
			depth--
			i += len(highlight.Close)
		default:
			i++
		}
	}
	return depth == 0
}

// Delimited replaces the delimiters of marked with a custom pair.
func Delimited(marked, open, close string) string {
	return strings.NewReplacer(highlight.Open, open, highlight.Close, close).Replace(marked)
}
