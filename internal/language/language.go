// Package language resolves the per-locale text strategy: how text is
// tokenized and segmented, how characters are counted and how two words are
// compared. Space-delimited languages share one implementation; Japanese
// has its own.
package language

import (
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	xlanguage "golang.org/x/text/language"

	"github.com/valpere/prosemark/internal/locale"
	"github.com/valpere/prosemark/internal/sentence"
	"github.com/valpere/prosemark/internal/source"
	"github.com/valpere/prosemark/internal/tokenize"
)

// Processor is the capability set every locale provides.
type Processor interface {
	Name() string
	Rules() locale.Rules
	Normalizer() *locale.Normalizer
	Tokenize(text string) []tokenize.Token
	Segment(text string, m source.Mapper, tracked bool) []sentence.Sentence
	CountCharacters(text string) int
	MatchWord(a, b string) bool
}

// Factory builds a processor for resolved rules. The cache may be nil.
type Factory func(rules locale.Rules, tag xlanguage.Tag, cache *sentence.Cache) Processor

// Registry maps processor names to factories and resolves locales against a
// rule table.
type Registry struct {
	table     *locale.Table
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates a Registry with the built-in processors registered.
func NewRegistry(table *locale.Table) *Registry {
	if table == nil {
		table = locale.DefaultTable()
	}
	return &Registry{
		table: table,
		factories: map[string]Factory{
			"default":  NewDefault,
			"japanese": NewJapanese,
		},
	}
}

// Register adds a custom processor factory.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("processor already registered: %q", name)
	}
	r.factories[name] = f
	return nil
}

// Names returns the registered processor names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the processor for a locale identifier. ok is false when
// the identifier was malformed and default rules apply.
func (r *Registry) Resolve(id string, cache *sentence.Cache) (Processor, bool) {
	rules, tag, ok := r.table.Lookup(id)
	r.mu.RLock()
	f, found := r.factories[rules.Processor]
	if !found {
		f = r.factories["default"]
	}
	r.mu.RUnlock()
	return f(rules, tag, cache), ok
}

type defaultProcessor struct {
	rules     locale.Rules
	norm      *locale.Normalizer
	tokRules  tokenize.Rules
	segmenter *sentence.Segmenter
}

// NewDefault builds the processor for space-delimited scripts.
func NewDefault(rules locale.Rules, tag xlanguage.Tag, cache *sentence.Cache) Processor {
	p := &defaultProcessor{
		rules:    rules,
		norm:     locale.NewNormalizer(rules, tag),
		tokRules: tokenize.Rules{Connectors: connectors(rules)},
	}
	p.segmenter = sentence.NewSegmenter(segmentRules(rules), p.Tokenize, cache)
	return p
}

func connectors(rules locale.Rules) string {
	if rules.WordConnectors == "" {
		return ""
	}
	return tokenize.DefaultConnectors + rules.WordConnectors
}

func segmentRules(rules locale.Rules) sentence.Rules {
	return sentence.Rules{
		Locale:         rules.Locale,
		Abbreviations:  rules.Abbreviations,
		SpaceDelimited: rules.IsSpaceDelimited(),
	}
}

func (p *defaultProcessor) Name() string                   { return "default" }
func (p *defaultProcessor) Rules() locale.Rules            { return p.rules }
func (p *defaultProcessor) Normalizer() *locale.Normalizer { return p.norm }

func (p *defaultProcessor) Tokenize(text string) []tokenize.Token {
	return tokenize.Tokenize(text, p.tokRules)
}

func (p *defaultProcessor) Segment(text string, m source.Mapper, tracked bool) []sentence.Sentence {
	return p.segmenter.Segment(text, m, tracked)
}

func (p *defaultProcessor) CountCharacters(text string) int {
	return utf8.RuneCountInString(text)
}

func (p *defaultProcessor) MatchWord(a, b string) bool {
	return p.norm.Normalize(a) == p.norm.Normalize(b)
}
