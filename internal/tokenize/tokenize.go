// Package tokenize splits text into word, whitespace and punctuation tokens
// that cover the input without gaps, each carrying its byte offsets.
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/valpere/prosemark/internal/source"
)

// Kind classifies a token.
type Kind int

const (
	Word Kind = iota
	Space
	Punct
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Space:
		return "space"
	default:
		return "punct"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Token is one run of text. Pos is the offset in the tokenized string, Range
// the offset in the original source once the token has been anchored.
type Token struct {
	Text  string       `json:"text"`
	Kind  Kind         `json:"kind"`
	Range source.Range `json:"range"`
	Pos   int          `json:"-"`
}

// End returns the offset in the tokenized string just past the token.
func (t Token) End() int { return t.Pos + len(t.Text) }

// Rules configures which characters may sit inside a word.
type Rules struct {
	// Connectors join two word characters into one word when placed between
	// them. DefaultConnectors is used when empty.
	Connectors string
}

// DefaultConnectors are kept inside words: hyphens, underscore, apostrophes
// and the ampersand.
const DefaultConnectors = "-_'’&‐‑"

// terminal punctuation that forms one token when repeated ("?!", "...").
const terminals = ".!?…‼⁇؟۔。！？｡"

// IsTerminal reports whether r ends a sentence.
func IsTerminal(r rune) bool { return strings.ContainsRune(terminals, r) }

// Tokenize splits s. Token ranges are relative to s until anchored.
func Tokenize(s string, rules Rules) []Token {
	connectors := rules.Connectors
	if connectors == "" {
		connectors = DefaultConnectors
	}

	var tokens []Token
	emit := func(start, end int, kind Kind) {
		tokens = append(tokens, Token{
			Text:  s[start:end],
			Kind:  kind,
			Range: source.Range{Start: start, End: end},
			Pos:   start,
		})
	}

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			emit(i, i+size, Space)
			i += size
		case isWordRune(r):
			end := scanWord(s, i, connectors)
			emit(i, end, Word)
			i = end
		case IsTerminal(r):
			end := i + size
			for end < len(s) {
				next, n := utf8.DecodeRuneInString(s[end:])
				if !IsTerminal(next) {
					break
				}
				end += n
			}
			emit(i, end, Punct)
			i = end
		default:
			emit(i, i+size, Punct)
			i += size
		}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || unicode.IsNumber(r)
}

func scanWord(s string, start int, connectors string) int {
	i := start
	var prev rune
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if isWordRune(r) {
			prev = r
			i += size
			continue
		}
		next, _ := utf8.DecodeRuneInString(s[i+size:])
		if i+size >= len(s) || !isWordRune(next) {
			break
		}
		switch {
		case strings.ContainsRune(connectors, r):
		case (r == '.' || r == ',') && unicode.IsDigit(prev) && unicode.IsDigit(next):
		default:
			return i
		}
		prev = r
		i += size
	}
	return i
}

// Anchor returns a copy of tokens with ranges mapped to source offsets.
func Anchor(tokens []Token, m source.Mapper) []Token {
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		t.Range = source.Range{Start: m.Start(t.Pos), End: m.End(t.End())}
		out[i] = t
	}
	return out
}

// Join concatenates token texts.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}
