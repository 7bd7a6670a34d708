package morphology

import (
	"context"
	"strings"

	"github.com/kljensen/snowball"

	"github.com/valpere/prosemark/internal/keyphrase"
	"github.com/valpere/prosemark/internal/locale"
)

// snowball stemmer names by base language
var stemmers = map[string]string{
	"en": "english",
	"es": "spanish",
	"fr": "french",
	"ru": "russian",
	"sv": "swedish",
	"nb": "norwegian",
	"no": "norwegian",
	"hu": "hungarian",
}

// Stems groups each keyphrase word with the words of a document that share
// its stem. Locales without a stemmer get literal forms.
type Stems struct {
	Vocabulary []string
}

func (s Stems) Forms(ctx context.Context, kp keyphrase.Keyphrase, loc string) (keyphrase.Forms, error) {
	forms, _ := Literal{}.Forms(ctx, kp, loc)
	if kp.Exact {
		return forms, nil
	}
	lang, ok := stemmerFor(loc)
	if !ok {
		return forms, nil
	}

	byStem := make(map[string][]string)
	for _, w := range s.Vocabulary {
		st := stem(w, lang)
		byStem[st] = appendUnique(byStem[st], strings.ToLower(w))
	}
	for i, g := range forms {
		forms[i] = appendUnique(g, byStem[stem(g[0], lang)]...)
	}
	return forms, nil
}

func stemmerFor(loc string) (string, bool) {
	tag, err := locale.Parse(loc)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	lang, ok := stemmers[base.String()]
	return lang, ok
}

func stem(word, lang string) string {
	stemmed, err := snowball.Stem(word, lang, true)
	if err != nil {
		return strings.ToLower(word)
	}
	return stemmed
}
