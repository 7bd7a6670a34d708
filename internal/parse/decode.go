package parse

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/valpere/prosemark/internal/source"
)

var entityRef = regexp.MustCompile(`&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);`)

// decodeInto appends raw text found at source offset at, decoding character
// references. Each reference maps to its whole source span.
func decodeInto(t *source.Text, raw string, at int) {
	last := 0
	for _, loc := range entityRef.FindAllStringIndex(raw, -1) {
		ref := raw[loc[0]:loc[1]]
		decoded := html.UnescapeString(ref)
		if decoded == ref {
			continue
		}
		t.Append(raw[last:loc[0]], at+last)
		t.Substitute(decoded, source.Range{Start: at + loc[0], End: at + loc[1]})
		last = loc[1]
	}
	t.Append(raw[last:], at+last)
}

func decode(raw string) string {
	if !strings.Contains(raw, "&") {
		return raw
	}
	t := source.NewText(0)
	decodeInto(t, raw, 0)
	return t.String()
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}
