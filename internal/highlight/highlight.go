// Package highlight merges match ranges inside a sentence into marked spans
// ready for display.
package highlight

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/valpere/prosemark/internal/sentence"
	"github.com/valpere/prosemark/internal/source"
)

// Delimiters wrapped around every merged span in Mark.Marked.
const (
	Open  = "<mark class='prosemark'>"
	Close = "</mark>"
)

// Position locates a mark. StartOffset and EndOffset index the sentence
// text; the block offsets are document positions and are omitted when the
// sentence was not taken from a tracked document.
type Position struct {
	StartOffset      int  `json:"startOffset"`
	EndOffset        int  `json:"endOffset"`
	StartOffsetBlock *int `json:"startOffsetBlock,omitempty"`
	EndOffsetBlock   *int `json:"endOffsetBlock,omitempty"`
}

// Mark is one merged span. All marks of a sentence share Original and
// Marked; Marked carries delimiters around every span of the sentence.
type Mark struct {
	Original string   `json:"original"`
	Marked   string   `json:"marked"`
	Position Position `json:"position"`
}

// Options tunes merging. Joinable lists extra gap strings that merge two
// spans besides a single whitespace character.
type Options struct {
	Joinable []string
}

type span struct{ start, end int }

// GetMarks returns one mark per merged group of ranges, left to right.
// Ranges are source offsets and must lie inside s; a range that does not is
// reported as a source.ErrOffsetInconsistency.
func GetMarks(s sentence.Sentence, ranges []source.Range, opts Options) ([]Mark, error) {
	if len(ranges) == 0 {
		return nil, nil
	}
	spans := make([]span, 0, len(ranges))
	for _, r := range ranges {
		if err := source.Check("highlight.GetMarks", r, s.Range); err != nil {
			return nil, err
		}
		start, err := s.Local(r.Start)
		if err != nil {
			return nil, err
		}
		end, err := s.Local(r.End)
		if err != nil {
			return nil, err
		}
		spans = append(spans, span{start, end})
	}
	spans = merge(s.Text, spans, opts.Joinable)

	marked := markup(s.Text, spans)
	marks := make([]Mark, 0, len(spans))
	for _, sp := range spans {
		pos := Position{StartOffset: sp.start, EndOffset: sp.end}
		if s.Tracked {
			abs := s.Source(sp.start, sp.end)
			pos.StartOffsetBlock, pos.EndOffsetBlock = &abs.Start, &abs.End
		}
		marks = append(marks, Mark{Original: s.Text, Marked: marked, Position: pos})
	}
	return marks, nil
}

// merge sorts spans and joins those that overlap, touch, or are separated
// by a single whitespace character or a joinable string.
func merge(text string, spans []span, joinable []string) []span {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end < spans[j].end
	})
	out := []span{spans[0]}
	for _, sp := range spans[1:] {
		cur := &out[len(out)-1]
		if sp.start <= cur.end || joins(text[cur.end:sp.start], joinable) {
			cur.end = max(cur.end, sp.end)
			continue
		}
		out = append(out, sp)
	}
	return out
}

func joins(gap string, joinable []string) bool {
	if r, size := utf8.DecodeRuneInString(gap); size == len(gap) && unicode.IsSpace(r) {
		return true
	}
	for _, j := range joinable {
		if gap == j {
			return true
		}
	}
	return false
}

func markup(text string, spans []span) string {
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		b.WriteString(text[last:sp.start])
		b.WriteString(Open)
		b.WriteString(text[sp.start:sp.end])
		b.WriteString(Close)
		last = sp.end
	}
	b.WriteString(text[last:])
	return b.String()
}

// Unmark strips the delimiters from a marked string.
func Unmark(marked string) string {
	return strings.NewReplacer(Open, "", Close, "").Replace(marked)
}

// Ranges returns the source ranges the marks cover. It is empty for marks
// of untracked sentences.
func Ranges(marks []Mark) []source.Range {
	var out []source.Range
	for _, m := range marks {
		if m.Position.StartOffsetBlock == nil || m.Position.EndOffsetBlock == nil {
			continue
		}
		out = append(out, source.Range{Start: *m.Position.StartOffsetBlock, End: *m.Position.EndOffsetBlock})
	}
	return out
}
