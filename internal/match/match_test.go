package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/prosemark/internal/keyphrase"
	"github.com/valpere/prosemark/internal/language"
	"github.com/valpere/prosemark/internal/locale"
	"github.com/valpere/prosemark/internal/parse"
	"github.com/valpere/prosemark/internal/sentence"
	"github.com/valpere/prosemark/internal/source"
)

func processor(t *testing.T, loc string) language.Processor {
	t.Helper()
	proc, ok := language.NewRegistry(locale.DefaultTable()).Resolve(loc, nil)
	require.True(t, ok)
	return proc
}

func count(t *testing.T, markup, loc, kp string, forms keyphrase.Forms) Result {
	t.Helper()
	proc := processor(t, loc)
	root := (&parse.Builder{Segmenter: proc}).Build(markup)
	res := Count(root, keyphrase.Parse(kp), forms, proc)
	require.Equal(t, res.Count, len(res.Matches))
	return res
}

func TestCount(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		locale string
		kp     string
		forms  keyphrase.Forms
		want   int
	}{
		{"single", "<p>a string of text with the keyword in it</p>", "en_US", "keyword", keyphrase.Forms{{"keyword", "keywords"}}, 1},
		{"consecutive", "<p>this is a keyword keyword keyword.</p>", "en_US", "keyword", keyphrase.Forms{{"keyword", "keywords"}}, 3},
		{"other form", "<p>Two keywords here.</p>", "en", "keyword", keyphrase.Forms{{"keyword", "keywords"}}, 1},
		{"case folded", "<p>KEYWORD and Keyword.</p>", "en", "keyword", keyphrase.Forms{{"keyword"}}, 2},
		{"hyphen vs space", "<p>A string with a key-word.</p>", "en_US", "key word", keyphrase.Forms{{"key", "keys"}, {"word", "words"}}, 0},
		{"space vs hyphen", "<p>A key word here.</p>", "en", "key-word", keyphrase.Forms{{"key"}, {"word"}}, 0},
		{"hyphen vs hyphen", "<p>A key-word here.</p>", "en", "key-word", keyphrase.Forms{{"key"}, {"word"}}, 1},
		{"underscore", "<p>Use snake_case names.</p>", "en", "snake_case", keyphrase.Forms{{"snake"}, {"case"}}, 1},
		{"nbsp joins", "<p>A key\u00a0word here.</p>", "en", "key word", keyphrase.Forms{{"key"}, {"word"}}, 1},
		{"entity nbsp joins", "<p>A key&nbsp;word here.</p>", "en", "key word", keyphrase.Forms{{"key"}, {"word"}}, 1},
		{"words in any form", "<p>Many keys words.</p>", "en", "key word", keyphrase.Forms{{"key", "keys"}, {"word", "words"}}, 1},
		{"order matters", "<p>word key</p>", "en", "key word", keyphrase.Forms{{"key"}, {"word"}}, 0},
		{"split across markup", "<p>the <b>key</b> word</p>", "en", "key word", keyphrase.Forms{{"key"}, {"word"}}, 1},
		{"no added diacritic", "<p>A café on the corner.</p>", "en", "cafe", keyphrase.Forms{{"cafe"}}, 0},
		{"transliteration", "<p>Die Strasse ist lang.</p>", "de", "Straße", keyphrase.Forms{{"Straße"}}, 1},
		{"spanish tilde", "<p>El nino juega.</p>", "es", "niño", keyphrase.Forms{{"niño"}}, 1},
		{"turkish", "<p>İstanbul and Istanbul and istanbul and ıstanbul</p>", "tr_TR", "İstanbul", keyphrase.Forms{{"İstanbul"}}, 4},
		{"repeated word", "<p>keyword-keyword</p>", "en", "keyword", keyphrase.Forms{{"keyword"}}, 2},
		{"reduplication", "<p>Buku-buku itu mahal.</p>", "id", "buku", keyphrase.Forms{{"buku"}}, 1},
		{"excluded code", "<p>The <code>keyword</code> is hidden.</p>", "en", "keyword", keyphrase.Forms{{"keyword"}}, 0},
		{"across sentences", "<p>The keyword is here. Another keyword follows.</p>", "en", "keyword", keyphrase.Forms{{"keyword"}}, 2},
		{"non-adjacent forms", "<p>A string with three keys (key and another key) and one word.</p>", "en", "key word",
			keyphrase.Forms{{"key", "keys"}, {"word", "words"}}, 0},
		{"unclosed widget block", "<!-- wp:yoast-seo/breadcrumbs --><div>x</div><p>keyword</p>", "en", "keyword",
			keyphrase.Forms{{"keyword"}}, 1},
		{"empty forms", "<p>keyword</p>", "en", "keyword", keyphrase.Forms{}, 0},
		{"blank forms", "<p>keyword</p>", "en", "keyword", keyphrase.Forms{{" "}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := count(t, tt.markup, tt.locale, tt.kp, tt.forms)
			assert.Equal(t, tt.want, res.Count)
		})
	}
}

func TestCount_Ranges(t *testing.T) {
	markup := "<p>this is a keyword keyword keyword.</p>"
	res := count(t, markup, "en", "keyword", keyphrase.Forms{{"keyword"}})

	require.Len(t, res.Matches, 3)
	for _, m := range res.Matches {
		assert.Equal(t, "keyword", markup[m.Range.Start:m.Range.End])
		assert.Equal(t, 0, m.Sentence)
	}
	assert.Equal(t, source.Range{Start: 13, End: 20}, res.Matches[0].Range)
}

func TestCount_ReduplicationCoversBothHalves(t *testing.T) {
	markup := "<p>Buku-buku itu mahal.</p>"
	res := count(t, markup, "id", "buku", keyphrase.Forms{{"buku"}})

	require.Len(t, res.Matches, 1)
	r := res.Matches[0].Range
	assert.Equal(t, "Buku-buku", markup[r.Start:r.End])
}

func TestCount_SentenceIndex(t *testing.T) {
	res := count(t, "<p>No match here.</p><p>A keyword.</p>", "en", "keyword", keyphrase.Forms{{"keyword"}})
	require.Len(t, res.Matches, 1)
	assert.Equal(t, 1, res.Matches[0].Sentence)
}

func TestCount_Exact(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		forms  keyphrase.Forms
		want   int
	}{
		{"repeated phrase", "<p>key phrase key phrase</p>", keyphrase.Forms{{"key phrase"}}, 2},
		{"reversed", "<p>phrase key</p>", keyphrase.Forms{{"key phrase"}}, 0},
		{"hyphenated text", "<p>a key-phrase</p>", keyphrase.Forms{{"key phrase"}}, 0},
		{"literal forms only", "<p>keys phrase</p>", keyphrase.Forms{{"key", "keys"}, {"phrase"}}, 0},
		{"literal forms match", "<p>key phrase</p>", keyphrase.Forms{{"key", "keys"}, {"phrase"}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := count(t, tt.markup, "en", `"key phrase"`, tt.forms)
			assert.Equal(t, tt.want, res.Count)
		})
	}
}

func TestCount_ExactPunctuation(t *testing.T) {
	res := count(t, "<p>We said hello, world twice: hello world.</p>", "en", `"hello, world"`,
		keyphrase.Forms{{"hello, world"}})
	assert.Equal(t, 1, res.Count)
}

func TestMatcher_Sentence(t *testing.T) {
	proc := processor(t, "en")
	m := New(keyphrase.Parse("keyword"), keyphrase.Forms{{"keyword"}}, proc)

	got := m.Sentence(sentence.Detached("a keyword here"))
	assert.Equal(t, []source.Range{{Start: 2, End: 9}}, got)
	assert.Empty(t, m.Sentence(sentence.Detached("nothing to see")))
	assert.Empty(t, m.Sentence(sentence.Sentence{}))
}

func TestMatcher_Idempotent(t *testing.T) {
	proc := processor(t, "en")
	m := New(keyphrase.Parse("key word"), keyphrase.Forms{{"key", "keys"}, {"word", "words"}}, proc)
	s := sentence.Detached("keys words and key word")

	first := m.Sentence(s)
	assert.Equal(t, first, m.Sentence(s))
	assert.Len(t, first, 2)
}

func TestPrefilter(t *testing.T) {
	proc := processor(t, "en")
	m := New(keyphrase.Parse("key word"), keyphrase.Forms{{"key", "keys"}, {"word"}}, proc)
	require.NotNil(t, m.filter)

	words := func(ws ...string) []unit {
		var out []unit
		for _, w := range ws {
			out = append(out, unit{kind: wordUnit, text: w})
		}
		return out
	}
	assert.True(t, m.filter.admits(words("the", "keys", "word")))
	assert.True(t, m.filter.admits(words("word", "then", "key")))
	assert.False(t, m.filter.admits(words("the", "key", "only")))
	assert.False(t, m.filter.admits(nil))
}

func TestPrefilter_PunctuationOnlyForm(t *testing.T) {
	proc := processor(t, "en")
	m := New(keyphrase.Parse("?!"), keyphrase.Forms{{"?!"}}, proc)
	assert.Nil(t, m.filter)
	assert.Len(t, m.Sentence(sentence.Detached("Really?! Yes.")), 1)
}
