package keyphrase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valpere/prosemark/internal/keyphrase"
	"github.com/valpere/prosemark/internal/locale"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw   string
		text  string
		exact bool
	}{
		{"keyword", "keyword", false},
		{"  key word  ", "key word", false},
		{`"key word"`, "key word", true},
		{"“key word”", "key word", true},
		{"„Schlüssel Wort“", "Schlüssel Wort", true},
		{`" padded "`, "padded", true},
		{"«mot clé»", "mot clé", false},
		{"‹mot›", "mot", false},
		{`""`, "", false},
		{`"unbalanced`, `"unbalanced`, false},
		{`"`, `"`, false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			kp := keyphrase.Parse(tt.raw)
			assert.Equal(t, tt.raw, kp.Raw)
			assert.Equal(t, tt.text, kp.Text)
			assert.Equal(t, tt.exact, kp.Exact)
		})
	}
}

func TestJoiners(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"keyword", nil},
		{"key word", []string{locale.JoinerSpace}},
		{"key  word", []string{locale.JoinerSpace}},
		{"key-word", []string{locale.JoinerHyphen}},
		{"snake_case word", []string{locale.JoinerUnderscore, locale.JoinerSpace}},
		{"a-b-c", []string{locale.JoinerHyphen, locale.JoinerHyphen}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, keyphrase.Joiners(tt.text))
		})
	}
}

func TestSplitWord(t *testing.T) {
	parts := keyphrase.SplitWord("key-word")
	assert.Equal(t, []keyphrase.Part{
		{Text: "key", Start: 0, End: 3},
		{Text: "-", Joiner: locale.JoinerHyphen, Start: 3, End: 4},
		{Text: "word", Start: 4, End: 8},
	}, parts)

	assert.Equal(t, []keyphrase.Part{{Text: "plain", Start: 0, End: 5}}, keyphrase.SplitWord("plain"))
	assert.Len(t, keyphrase.SplitWord("snake_case"), 3)
}

func TestKeyphrase_Words(t *testing.T) {
	assert.Equal(t, []string{"key", "word"}, keyphrase.Parse(`"key   word"`).Words())
	assert.Empty(t, keyphrase.Parse("  ").Words())
}

func TestForms(t *testing.T) {
	assert.True(t, keyphrase.Forms(nil).Empty())
	assert.True(t, keyphrase.Forms{{}, {" ", ""}}.Empty())
	assert.False(t, keyphrase.Forms{{"", "word"}}.Empty())

	f := keyphrase.Forms{{"key", "keys"}, {}, {"word", "words"}}
	assert.Equal(t, keyphrase.Forms{{"key"}, {"word"}}, f.Literal())
}
