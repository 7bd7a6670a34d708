package morphology

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/prosemark/internal/keyphrase"
)

func TestLiteral(t *testing.T) {
	ctx := context.Background()

	forms, err := Literal{}.Forms(ctx, keyphrase.Parse("key word"), "en")
	require.NoError(t, err)
	assert.Equal(t, keyphrase.Forms{{"key"}, {"word"}}, forms)

	forms, err = Literal{}.Forms(ctx, keyphrase.Parse(`"key word"`), "en")
	require.NoError(t, err)
	assert.Equal(t, keyphrase.Forms{{"key word"}}, forms)

	forms, err = Literal{}.Forms(ctx, keyphrase.Parse("  "), "en")
	require.NoError(t, err)
	assert.Empty(t, forms)
}

func TestParseForms(t *testing.T) {
	tests := []struct {
		in      string
		want    keyphrase.Forms
		wantErr bool
	}{
		{in: "key,keys;word,words", want: keyphrase.Forms{{"key", "keys"}, {"word", "words"}}},
		{in: " keyword , keywords ", want: keyphrase.Forms{{"keyword", "keywords"}}},
		{in: "key;;word", want: keyphrase.Forms{{"key"}, {"word"}}},
		{in: "", want: nil},
		{in: " ; , ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseForms(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChain(t *testing.T) {
	c := Chain{
		Static{{"key", "keys"}, {"word"}},
		Static{{"key", "keyed"}, {"words"}},
		Static{{"mismatched"}},
	}
	forms, err := c.Forms(context.Background(), keyphrase.Parse("key word"), "en")
	require.NoError(t, err)
	assert.Equal(t, keyphrase.Forms{{"key", "keys", "keyed"}, {"word", "words"}}, forms)
}

type fakeStore map[string][]string

func (f fakeStore) FormsFor(_ context.Context, loc, word string) ([]string, error) {
	if word == "fail" {
		return nil, errors.New("db closed")
	}
	return f[loc+"/"+word], nil
}

func TestDictionary(t *testing.T) {
	d := Dictionary{Store: fakeStore{
		"en/key":     {"keys"},
		"en-us/word": {"words"},
	}}
	ctx := context.Background()

	forms, err := d.Forms(ctx, keyphrase.Parse("key word"), "en_US")
	require.NoError(t, err)
	assert.Equal(t, keyphrase.Forms{{"key", "keys"}, {"word", "words"}}, forms)

	forms, err = d.Forms(ctx, keyphrase.Parse(`"key word"`), "en")
	require.NoError(t, err)
	assert.Equal(t, keyphrase.Forms{{"key word"}}, forms)

	_, err = d.Forms(ctx, keyphrase.Parse("fail"), "en")
	assert.ErrorContains(t, err, "db closed")
}

func TestStems(t *testing.T) {
	s := Stems{Vocabulary: []string{"Connected", "connection", "connects", "banana"}}

	forms, err := s.Forms(context.Background(), keyphrase.Parse("connect"), "en_GB")
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "connect", forms[0][0])
	assert.ElementsMatch(t, []string{"connect", "connected", "connection", "connects"}, forms[0])
}

func TestStems_UnsupportedLocale(t *testing.T) {
	s := Stems{Vocabulary: []string{"İstanbul'da"}}
	forms, err := s.Forms(context.Background(), keyphrase.Parse("İstanbul"), "tr")
	require.NoError(t, err)
	assert.Equal(t, keyphrase.Forms{{"İstanbul"}}, forms)
}

func TestChain_WithVocabulary(t *testing.T) {
	c := Chain{Literal{}, Stems{}}
	p := c.WithVocabulary([]string{"runs"})

	forms, err := p.Forms(context.Background(), keyphrase.Parse("run"), "en")
	require.NoError(t, err)
	assert.Equal(t, keyphrase.Forms{{"run", "runs"}}, forms)
}
