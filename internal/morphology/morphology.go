// Package morphology supplies keyphrase forms. The analysis core never
// derives forms itself; these providers stand in for an external
// morphological analyzer.
package morphology

import (
	"context"
	"fmt"
	"strings"

	"github.com/valpere/prosemark/internal/keyphrase"
)

// Provider returns the stem-groups for a keyphrase under a locale.
type Provider interface {
	Forms(ctx context.Context, kp keyphrase.Keyphrase, locale string) (keyphrase.Forms, error)
}

// Literal yields one single-form group per keyphrase word, or the whole
// phrase as one group in exact mode.
type Literal struct{}

func (Literal) Forms(_ context.Context, kp keyphrase.Keyphrase, _ string) (keyphrase.Forms, error) {
	if kp.Text == "" {
		return nil, nil
	}
	if kp.Exact {
		return keyphrase.Forms{{kp.Text}}, nil
	}
	words := kp.Words()
	forms := make(keyphrase.Forms, len(words))
	for i, w := range words {
		forms[i] = []string{w}
	}
	return forms, nil
}

// Static returns the same forms for every keyphrase.
type Static keyphrase.Forms

func (s Static) Forms(context.Context, keyphrase.Keyphrase, string) (keyphrase.Forms, error) {
	return keyphrase.Forms(s), nil
}

// ParseForms reads forms written as "key,keys;word,words": groups are
// separated by semicolons and forms within a group by commas.
func ParseForms(s string) (keyphrase.Forms, error) {
	var forms keyphrase.Forms
	for _, g := range strings.Split(s, ";") {
		var group []string
		for _, f := range strings.Split(g, ",") {
			if f = strings.TrimSpace(f); f != "" {
				group = append(group, f)
			}
		}
		if len(group) > 0 {
			forms = append(forms, group)
		}
	}
	if len(forms) == 0 && strings.TrimSpace(s) != "" {
		return nil, fmt.Errorf("no forms in %q", s)
	}
	return forms, nil
}

// Chain unions the groups of several providers. Providers returning a
// different number of groups than the first are skipped for that
// keyphrase.
type Chain []Provider

func (c Chain) Forms(ctx context.Context, kp keyphrase.Keyphrase, locale string) (keyphrase.Forms, error) {
	var out keyphrase.Forms
	for _, p := range c {
		forms, err := p.Forms(ctx, kp, locale)
		if err != nil {
			return nil, err
		}
		if len(forms) == 0 {
			continue
		}
		if out == nil {
			out = make(keyphrase.Forms, len(forms))
		}
		if len(forms) != len(out) {
			continue
		}
		for i, g := range forms {
			out[i] = appendUnique(out[i], g...)
		}
	}
	return out, nil
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

// VocabularyAware providers draw forms from the words of the analyzed
// document. The session supplies them once the tree is built.
type VocabularyAware interface {
	WithVocabulary(words []string) Provider
}

func (s Stems) WithVocabulary(words []string) Provider {
	return Stems{Vocabulary: words}
}

func (c Chain) WithVocabulary(words []string) Provider {
	out := make(Chain, len(c))
	for i, p := range c {
		if v, ok := p.(VocabularyAware); ok {
			p = v.WithVocabulary(words)
		}
		out[i] = p
	}
	return out
}
