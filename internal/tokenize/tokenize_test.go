package tokenize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/prosemark/internal/source"
	"github.com/valpere/prosemark/internal/tokenize"
)

type tok struct {
	text string
	kind tokenize.Kind
}

func simplify(tokens []tokenize.Token) []tok {
	out := make([]tok, len(tokens))
	for i, t := range tokens {
		out[i] = tok{t.Text, t.Kind}
	}
	return out
}

func TestTokenize(t *testing.T) {
	W, S, P := tokenize.Word, tokenize.Space, tokenize.Punct

	tests := []struct {
		name string
		in   string
		want []tok
	}{
		{"empty", "", []tok{}},
		{"words", "Hello world", []tok{{"Hello", W}, {" ", S}, {"world", W}}},
		{"each space is a token", "a  b", []tok{{"a", W}, {" ", S}, {" ", S}, {"b", W}}},
		{"hyphenated word", "a key-word.", []tok{{"a", W}, {" ", S}, {"key-word", W}, {".", P}}},
		{"apostrophe", "don't", []tok{{"don't", W}}},
		{"dangling connector", "key- word", []tok{{"key", W}, {"-", P}, {" ", S}, {"word", W}}},
		{"decimal", "pi is 3.14!", []tok{{"pi", W}, {" ", S}, {"is", W}, {" ", S}, {"3.14", W}, {"!", P}}},
		{"dot between letters splits", "e.g", []tok{{"e", W}, {".", P}, {"g", W}}},
		{"terminal run", "Really?!", []tok{{"Really", W}, {"?!", P}}},
		{"ellipsis", "wait...", []tok{{"wait", W}, {"...", P}}},
		{"other punctuation", "«a»", []tok{{"«", P}, {"a", W}, {"»", P}}},
		{"combining mark", "café", []tok{{"café", W}}},
		{"cjk terminal", "日本。", []tok{{"日本", W}, {"。", P}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize.Tokenize(tt.in, tokenize.Rules{})
			assert.Equal(t, tt.want, append([]tok{}, simplify(got)...))
		})
	}
}

func TestTokenize_CoversInput(t *testing.T) {
	in := "Ünïcode — text, with “quotes” & 42.5%…"
	tokens := tokenize.Tokenize(in, tokenize.Rules{})
	require.NotEmpty(t, tokens)

	assert.Equal(t, in, tokenize.Join(tokens))
	pos := 0
	for _, tk := range tokens {
		assert.Equal(t, pos, tk.Pos)
		assert.Equal(t, source.Range{Start: pos, End: tk.End()}, tk.Range)
		assert.Equal(t, in[tk.Pos:tk.End()], tk.Text)
		pos = tk.End()
	}
	assert.Equal(t, len(in), pos)
}

func TestTokenize_CustomConnectors(t *testing.T) {
	got := tokenize.Tokenize("key-word a&b", tokenize.Rules{Connectors: "&"})
	assert.Equal(t, []string{"key", "-", "word", " ", "a&b"}, texts(got))
}

func texts(tokens []tokenize.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestAnchor(t *testing.T) {
	tokens := tokenize.Tokenize("ab cd", tokenize.Rules{})
	anchored := tokenize.Anchor(tokens, source.Shift(10))

	require.Len(t, anchored, 3)
	assert.Equal(t, source.Range{Start: 10, End: 12}, anchored[0].Range)
	assert.Equal(t, source.Range{Start: 13, End: 15}, anchored[2].Range)
	assert.Equal(t, 3, anchored[2].Pos)
	assert.Equal(t, source.Range{Start: 3, End: 5}, tokens[2].Range, "input is not modified")
}

func TestIsTerminal(t *testing.T) {
	for _, r := range ".!?…。！？" {
		assert.True(t, tokenize.IsTerminal(r), string(r))
	}
	for _, r := range ",;:-" {
		assert.False(t, tokenize.IsTerminal(r), string(r))
	}
}

func TestKind_MarshalText(t *testing.T) {
	b, err := tokenize.Punct.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "punct", string(b))
}
