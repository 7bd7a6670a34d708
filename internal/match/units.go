package match

import (
	"github.com/valpere/prosemark/internal/keyphrase"
	"github.com/valpere/prosemark/internal/locale"
	"github.com/valpere/prosemark/internal/tokenize"
)

type unitKind int

const (
	wordUnit unitKind = iota
	joinUnit
	punctUnit
)

// unit is a comparison step. Offsets are relative to the unitized text.
// For joins, text holds the joiner name.
type unit struct {
	kind       unitKind
	text       string
	start, end int
}

// unitize turns tokens into units: runs of whitespace collapse into one
// space joiner and words are split at hyphens and underscores.
func unitize(tokens []tokenize.Token, base int) []unit {
	var out []unit
	for _, t := range tokens {
		start := t.Pos - base
		switch t.Kind {
		case tokenize.Space:
			if n := len(out); n > 0 && out[n-1].kind == joinUnit && out[n-1].text == locale.JoinerSpace {
				out[n-1].end = start + len(t.Text)
				continue
			}
			out = append(out, unit{kind: joinUnit, text: locale.JoinerSpace, start: start, end: start + len(t.Text)})
		case tokenize.Word:
			for _, part := range keyphrase.SplitWord(t.Text) {
				u := unit{kind: wordUnit, text: part.Text, start: start + part.Start, end: start + part.End}
				if part.Joiner != "" {
					u.kind, u.text = joinUnit, part.Joiner
				}
				out = append(out, u)
			}
		default:
			out = append(out, unit{kind: punctUnit, text: t.Text, start: start, end: start + len(t.Text)})
		}
	}
	return out
}
