// Package sentence groups tokens into sentences. Boundaries follow terminal
// punctuation with guards for abbreviations, initials and decimals.
package sentence

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/valpere/prosemark/internal/source"
	"github.com/valpere/prosemark/internal/tokenize"
)

// Sentence is a run of tokens. Text is the decoded text of the tokens and
// Range spans the first token's start to the last token's end in the source.
// When Tracked is false the source offsets are not document positions.
type Sentence struct {
	Text    string           `json:"text"`
	Range   source.Range     `json:"range"`
	Tokens  []tokenize.Token `json:"tokens"`
	Tracked bool             `json:"-"`

	pos    int
	mapper source.Mapper
}

// Local maps a source offset inside the sentence to an offset into Text.
func (s *Sentence) Local(x int) (int, error) {
	if x < s.Range.Start || x > s.Range.End || s.mapper == nil {
		return 0, &source.OffsetError{Op: "sentence.Local", Range: source.Range{Start: x, End: x}, Bound: s.Range}
	}
	i, ok := s.mapper.Locate(x)
	local := i - s.pos
	if !ok || local < 0 || local > len(s.Text) {
		return 0, &source.OffsetError{Op: "sentence.Local", Range: source.Range{Start: x, End: x}, Bound: s.Range}
	}
	return local, nil
}

// Source maps a span of Text back to source offsets.
func (s *Sentence) Source(start, end int) source.Range {
	return source.Range{Start: s.mapper.Start(s.pos + start), End: s.mapper.End(s.pos + end)}
}

// Rules configures boundary detection.
type Rules struct {
	Locale         string
	Abbreviations  []string
	SpaceDelimited bool
}

// Tokenizer splits text into tokens whose ranges are relative to the text.
type Tokenizer func(string) []tokenize.Token

// Segmenter splits text into sentences, optionally memoizing results.
type Segmenter struct {
	Rules    Rules
	Tokenize Tokenizer
	Cache    *Cache

	abbrev map[string]bool
}

// NewSegmenter returns a segmenter. A nil tokenizer falls back to the
// default one and a nil cache disables memoization.
func NewSegmenter(rules Rules, tok Tokenizer, cache *Cache) *Segmenter {
	if tok == nil {
		tok = func(s string) []tokenize.Token { return tokenize.Tokenize(s, tokenize.Rules{}) }
	}
	abbrev := make(map[string]bool, len(rules.Abbreviations))
	for _, a := range rules.Abbreviations {
		abbrev[strings.ToLower(strings.TrimSuffix(a, "."))] = true
	}
	return &Segmenter{Rules: rules, Tokenize: tok, Cache: cache, abbrev: abbrev}
}

// Segment splits text that starts at source offset base.
func Segment(text string, base int, rules Rules) []Sentence {
	return NewSegmenter(rules, nil, nil).Segment(text, source.Shift(base), true)
}

// Segment splits text and anchors every token through m.
func (s *Segmenter) Segment(text string, m source.Mapper, tracked bool) []Sentence {
	if text == "" {
		return nil
	}
	tokens, spans := s.split(text)

	out := make([]Sentence, 0, len(spans))
	for _, sp := range spans {
		toks := tokenize.Anchor(tokens[sp[0]:sp[1]], m)
		first, last := toks[0], toks[len(toks)-1]
		out = append(out, Sentence{
			Text:    text[first.Pos:last.End()],
			Range:   source.Range{Start: first.Range.Start, End: last.Range.End},
			Tokens:  toks,
			Tracked: tracked,
			pos:     first.Pos,
			mapper:  m,
		})
	}
	return out
}

func (s *Segmenter) split(text string) ([]tokenize.Token, [][2]int) {
	if s.Cache != nil {
		if e, ok := s.Cache.get(s.Rules.Locale, text); ok {
			return e.tokens, e.spans
		}
	}
	tokens := s.Tokenize(text)
	spans := s.boundaries(tokens)
	if s.Cache != nil {
		s.Cache.put(s.Rules.Locale, text, entry{tokens: tokens, spans: spans})
	}
	return tokens, spans
}

// boundaries returns [start, end) token index spans, one per sentence.
// Whitespace after a boundary opens the next sentence; trailing whitespace
// stays with the last one. Whitespace-only input yields no sentences.
func (s *Segmenter) boundaries(tokens []tokenize.Token) [][2]int {
	var spans [][2]int
	start := 0
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.Kind != tokenize.Punct || !strings.ContainsFunc(t.Text, tokenize.IsTerminal) {
			continue
		}
		end := i + 1
		for end < len(tokens) && isClosing(tokens[end]) {
			end++
		}
		if !s.isBoundary(tokens, i, end) {
			continue
		}
		spans = append(spans, [2]int{start, end})
		start = end
		i = end - 1
	}
	if start < len(tokens) {
		if len(spans) > 0 && allSpace(tokens[start:]) {
			spans[len(spans)-1][1] = len(tokens)
		} else {
			spans = append(spans, [2]int{start, len(tokens)})
		}
	}
	if len(spans) == 1 && allSpace(tokens) {
		return nil
	}
	return spans
}

func (s *Segmenter) isBoundary(tokens []tokenize.Token, i, end int) bool {
	if end == len(tokens) {
		return true
	}
	term := tokens[i].Text
	if !s.Rules.SpaceDelimited || isFullWidth(term) {
		return true
	}
	if tokens[end].Kind != tokenize.Space {
		return false
	}
	if term != "." {
		return true
	}
	if s.isAbbreviation(tokens, i) {
		return false
	}
	next := nextWord(tokens, end)
	if next == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(next)
	return !unicode.IsLower(r)
}

// isAbbreviation inspects the dotted word that ends at the full stop at
// index i: a listed abbreviation, a dotted acronym ("U.S.") or a name
// initial ("J.").
func (s *Segmenter) isAbbreviation(tokens []tokenize.Token, i int) bool {
	var parts []string
	first := -1
	for j := i - 1; j >= 0 && tokens[j].Kind == tokenize.Word; j -= 2 {
		parts = append([]string{tokens[j].Text}, parts...)
		first = j
		if j == 0 || tokens[j-1].Text != "." {
			break
		}
	}
	if len(parts) == 0 {
		return false
	}
	if s.abbrev[strings.ToLower(strings.Join(parts, "."))] {
		return true
	}
	if len(parts) > 1 {
		return true
	}
	word := parts[0]
	if utf8.RuneCountInString(word) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(word)
	if !unicode.IsUpper(r) {
		return false
	}
	prev := prevWord(tokens, first)
	if prev == "" {
		return false
	}
	p, _ := utf8.DecodeRuneInString(prev)
	return unicode.IsUpper(p)
}

func nextWord(tokens []tokenize.Token, from int) string {
	for k := from; k < len(tokens); k++ {
		switch tokens[k].Kind {
		case tokenize.Word:
			return tokens[k].Text
		case tokenize.Punct:
			if !isOpening(tokens[k]) {
				return ""
			}
		}
	}
	return ""
}

func prevWord(tokens []tokenize.Token, before int) string {
	k := before - 1
	for k >= 0 && tokens[k].Kind == tokenize.Space {
		k--
	}
	if k >= 0 && tokens[k].Kind == tokenize.Word {
		return tokens[k].Text
	}
	return ""
}

const (
	closers = "\"'”’»›)]}」』〉》"
	openers = "\"'“‘«‹([{「『〈《"
)

func isClosing(t tokenize.Token) bool {
	return t.Kind == tokenize.Punct && strings.Contains(closers, t.Text)
}

func isOpening(t tokenize.Token) bool {
	return t.Kind == tokenize.Punct && strings.Contains(openers, t.Text)
}

func isFullWidth(term string) bool {
	return strings.ContainsAny(term, "。！？｡")
}

func allSpace(tokens []tokenize.Token) bool {
	for _, t := range tokens {
		if t.Kind != tokenize.Space {
			return false
		}
	}
	return true
}

// Detached builds a sentence from plain text with no document position.
func Detached(text string) Sentence {
	toks := tokenize.Tokenize(text, tokenize.Rules{})
	return Sentence{
		Text:   text,
		Range:  source.Range{Start: 0, End: len(text)},
		Tokens: toks,
		mapper: source.Shift(0),
	}
}
