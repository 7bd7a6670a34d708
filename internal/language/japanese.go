package language

import (
	"strings"
	"sync"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	xlanguage "golang.org/x/text/language"

	"github.com/valpere/prosemark/internal/locale"
	"github.com/valpere/prosemark/internal/sentence"
	"github.com/valpere/prosemark/internal/source"
	"github.com/valpere/prosemark/internal/tokenize"
)

// the IPA dictionary is large; build the tokenizer once per process.
var kagome = sync.OnceValues(func() (*tokenizer.Tokenizer, error) {
	return tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
})

type japaneseProcessor struct {
	rules     locale.Rules
	norm      *locale.Normalizer
	segmenter *sentence.Segmenter
}

// NewJapanese builds the processor for Japanese, which has no spaces
// between words and is segmented morphologically.
func NewJapanese(rules locale.Rules, tag xlanguage.Tag, cache *sentence.Cache) Processor {
	p := &japaneseProcessor{rules: rules, norm: locale.NewNormalizer(rules, tag)}
	p.segmenter = sentence.NewSegmenter(segmentRules(rules), p.Tokenize, cache)
	return p
}

func (p *japaneseProcessor) Name() string                   { return "japanese" }
func (p *japaneseProcessor) Rules() locale.Rules            { return p.rules }
func (p *japaneseProcessor) Normalizer() *locale.Normalizer { return p.norm }

// Tokenize runs the morphological analyzer and locates every surface in the
// input. Bytes the analyzer skipped are tokenized by the default rules.
func (p *japaneseProcessor) Tokenize(text string) []tokenize.Token {
	kg, err := kagome()
	if err != nil {
		return tokenize.Tokenize(text, tokenize.Rules{})
	}

	var tokens []tokenize.Token
	fill := func(from, to int) {
		for _, t := range tokenize.Tokenize(text[from:to], tokenize.Rules{}) {
			t.Pos += from
			t.Range = source.Range{Start: t.Pos, End: t.End()}
			tokens = append(tokens, t)
		}
	}

	pos := 0
	for _, kt := range kg.Tokenize(text) {
		if kt.Surface == "" {
			continue
		}
		at := strings.Index(text[pos:], kt.Surface)
		if at < 0 {
			continue
		}
		at += pos
		if at > pos {
			fill(pos, at)
		}
		end := at + len(kt.Surface)
		if k := surfaceKind(kt.Surface); k == tokenize.Word {
			tokens = append(tokens, tokenize.Token{
				Text:  kt.Surface,
				Kind:  k,
				Range: source.Range{Start: at, End: end},
				Pos:   at,
			})
		} else {
			fill(at, end)
		}
		pos = end
	}
	if pos < len(text) {
		fill(pos, len(text))
	}
	return tokens
}

func surfaceKind(s string) tokenize.Kind {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r) {
			return tokenize.Word
		}
	}
	return tokenize.Punct
}

func (p *japaneseProcessor) Segment(text string, m source.Mapper, tracked bool) []sentence.Sentence {
	return p.segmenter.Segment(text, m, tracked)
}

// CountCharacters counts runes, ignoring whitespace.
func (p *japaneseProcessor) CountCharacters(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// MatchWord compares normalized words. The Japanese rules fold width, so
// full-width and half-width forms of a character are equal.
func (p *japaneseProcessor) MatchWord(a, b string) bool {
	return p.norm.Normalize(a) == p.norm.Normalize(b)
}
