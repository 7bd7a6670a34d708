/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/prosemark/internal"
	"github.com/valpere/prosemark/internal/detector"
	"github.com/valpere/prosemark/internal/language"
	"github.com/valpere/prosemark/internal/locale"
	"github.com/valpere/prosemark/internal/markdown"
	"github.com/valpere/prosemark/internal/morphology"
	"github.com/valpere/prosemark/internal/parse"
	"github.com/valpere/prosemark/internal/store"
	"github.com/valpere/prosemark/internal/validator"
)

// newRegistry builds the locale registry from the embedded rule table and
// any "locales" overrides in the config.
func newRegistry() (*language.Registry, error) {
	table := locale.DefaultTable()
	if viper.IsSet("locales") {
		var extra map[string]locale.Rules
		if err := viper.UnmarshalKey("locales", &extra); err != nil {
			return nil, fmt.Errorf("failed to read locale overrides: %w", err)
		}
		table.Override(extra)
	}
	return language.NewRegistry(table), nil
}

// readInput returns the markup in path ("-" reads stdin), converting
// markdown to HTML when asked.
func readInput(path string, isMarkdown bool) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if isMarkdown {
		return markdown.ToHTML(data), nil
	}
	return string(data), nil
}

// plainText joins the sentence text of a tree.
func plainText(root *parse.Node) string {
	var b strings.Builder
	for _, s := range parse.Sentences(root) {
		b.WriteString(s.Text)
		b.WriteByte(' ')
	}
	return b.String()
}

// resolveLocale turns "auto" into a detected locale and warns when the
// declared locale does not match the content.
func resolveLocale(markup, id string, det *detector.Detector) string {
	text := plainText(parse.Build(markup))
	if id == "auto" || id == "" {
		if det == nil {
			det = detector.New()
		}
		if detected, ok := det.DetectLocale(text); ok {
			fmt.Fprintf(os.Stderr, "Detected locale: %s\n", detected)
			return detected
		}
		if guess, ok := det.DetectISO(text); ok {
			fmt.Fprintf(os.Stderr, "Could not detect locale confidently (best guess %s), using default rules\n", guess)
		} else {
			fmt.Fprintf(os.Stderr, "Could not detect locale, using default rules\n")
		}
		return "und"
	}
	if det != nil {
		if _, err := validator.New(det).CheckLocale(text, id); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	return id
}

// buildProvider chains the morphology providers selected by flags. The
// returned store, when non-nil, must be closed by the caller.
func buildProvider(formsSpec, dbPath string, useDB, stem bool) (morphology.Provider, *store.Store, error) {
	var chain morphology.Chain
	if formsSpec != "" {
		forms, err := morphology.ParseForms(formsSpec)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse --forms: %w", err)
		}
		chain = append(chain, morphology.Static(forms))
	} else {
		chain = append(chain, morphology.Literal{})
	}

	var db *store.Store
	if useDB && dbPath != "" {
		var err error
		db, err = store.New(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		chain = append(chain, morphology.Dictionary{Store: db})
	}
	if stem {
		chain = append(chain, morphology.Stems{})
	}

	if len(chain) == 1 {
		return chain[0], db, nil
	}
	return chain, db, nil
}

func newPaper(id, markup, loc, keyphrase string) internal.Paper {
	return internal.Paper{ID: id, Markup: markup, Locale: loc, Keyphrase: keyphrase, Timestamp: time.Now()}
}
