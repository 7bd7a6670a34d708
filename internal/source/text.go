package source

import (
	"sort"
	"strings"
)

type piece struct {
	at      int // offset in decoded text
	size    int // decoded bytes
	src     Range
	literal bool
}

// Text accumulates decoded text together with the source range each part was
// taken from. Literal parts map byte for byte; substituted parts (a decoded
// entity, a line break standing in for a space) map as a unit. Source bytes
// that contributed nothing, such as excised comments, leave gaps.
type Text struct {
	buf    strings.Builder
	pieces []piece
	base   int
}

// NewText starts an empty Text anchored at source offset base.
func NewText(base int) *Text {
	return &Text{base: base}
}

// Append adds s, which occupies the source bytes starting at offset at.
func (t *Text) Append(s string, at int) {
	if s == "" {
		return
	}
	if n := len(t.pieces); n > 0 {
		last := &t.pieces[n-1]
		if last.literal && last.src.End == at {
			last.size += len(s)
			last.src.End += len(s)
			t.buf.WriteString(s)
			return
		}
	}
	t.pieces = append(t.pieces, piece{at: t.buf.Len(), size: len(s), src: Range{at, at + len(s)}, literal: true})
	t.buf.WriteString(s)
}

// Substitute adds s as the decoded form of the source bytes in src.
func (t *Text) Substitute(s string, src Range) {
	if s == "" {
		return
	}
	t.pieces = append(t.pieces, piece{at: t.buf.Len(), size: len(s), src: src})
	t.buf.WriteString(s)
}

func (t *Text) String() string { return t.buf.String() }

// Len returns the decoded length in bytes.
func (t *Text) Len() int { return t.buf.Len() }

// Empty reports whether nothing has been appended.
func (t *Text) Empty() bool { return len(t.pieces) == 0 }

// Span returns the source range covered from the first to the last piece.
func (t *Text) Span() Range {
	if len(t.pieces) == 0 {
		return Range{t.base, t.base}
	}
	return Range{t.pieces[0].src.Start, t.pieces[len(t.pieces)-1].src.End}
}

// Start maps decoded offset i to a source offset. Offsets that sit on a gap
// resolve to the source position after the gap.
func (t *Text) Start(i int) int {
	if len(t.pieces) == 0 {
		return t.base
	}
	k := sort.Search(len(t.pieces), func(k int) bool { return t.pieces[k].at+t.pieces[k].size > i })
	if k == len(t.pieces) {
		return t.pieces[k-1].src.End
	}
	p := t.pieces[k]
	if p.literal {
		return p.src.Start + max(i-p.at, 0)
	}
	return p.src.Start
}

// End maps decoded offset i to a source offset. Offsets that sit on a gap
// resolve to the source position before the gap.
func (t *Text) End(i int) int {
	if len(t.pieces) == 0 {
		return t.base
	}
	k := sort.Search(len(t.pieces), func(k int) bool { return t.pieces[k].at >= i })
	if k == 0 {
		return t.pieces[0].src.Start
	}
	p := t.pieces[k-1]
	if p.literal {
		return p.src.Start + min(i-p.at, p.size)
	}
	return p.src.End
}

// Locate maps source offset x to a decoded offset. Offsets inside a gap snap
// to the decoded position of the gap.
func (t *Text) Locate(x int) (int, bool) {
	span := t.Span()
	if x < span.Start || x > span.End {
		return 0, false
	}
	k := sort.Search(len(t.pieces), func(k int) bool { return t.pieces[k].src.End >= x })
	if k == len(t.pieces) {
		return t.Len(), true
	}
	p := t.pieces[k]
	switch {
	case x <= p.src.Start:
		return p.at, true
	case p.literal:
		return p.at + (x - p.src.Start), true
	case x == p.src.End:
		return p.at + p.size, true
	default:
		return p.at, true
	}
}
