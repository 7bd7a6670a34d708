package morphology

import (
	"context"
	"fmt"
	"strings"

	"github.com/valpere/prosemark/internal/keyphrase"
	"github.com/valpere/prosemark/internal/locale"
)

// FormStore looks up stored word forms.
type FormStore interface {
	FormsFor(ctx context.Context, locale, word string) ([]string, error)
}

// Dictionary expands every keyphrase word with the forms kept in a store
// under the locale and under its base language.
type Dictionary struct {
	Store FormStore
}

func (d Dictionary) Forms(ctx context.Context, kp keyphrase.Keyphrase, loc string) (keyphrase.Forms, error) {
	forms, _ := Literal{}.Forms(ctx, kp, loc)
	if kp.Exact {
		return forms, nil
	}
	keys := storeKeys(loc)
	for i, g := range forms {
		for _, key := range keys {
			stored, err := d.Store.FormsFor(ctx, key, g[0])
			if err != nil {
				return nil, fmt.Errorf("failed to load forms for %q: %w", g[0], err)
			}
			g = appendUnique(g, stored...)
		}
		forms[i] = g
	}
	return forms, nil
}

// storeKeys returns "pt-br" and "pt" for "pt_BR".
func storeKeys(loc string) []string {
	tag, err := locale.Parse(loc)
	if err != nil {
		return []string{strings.ToLower(loc)}
	}
	exact := strings.ToLower(tag.String())
	base, _ := tag.Base()
	if b := base.String(); b != exact {
		return []string{exact, b}
	}
	return []string{exact}
}
