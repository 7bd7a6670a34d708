// Package locale holds per-locale comparison rules and the normalizer that
// applies them. The rule table is data: an embedded YAML document that can be
// extended or overridden from configuration.
package locale

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales.yaml
var embedded []byte

// Joiner names used in the joiner matrix.
const (
	JoinerSpace      = "space"
	JoinerHyphen     = "hyphen"
	JoinerUnderscore = "underscore"
	JoinerNone       = "none"
)

// Rules is the comparison and segmentation data for one locale.
type Rules struct {
	Locale            string              `yaml:"-" mapstructure:"-" json:"locale"`
	CaseMapping       string              `yaml:"case_mapping" mapstructure:"case_mapping" json:"case_mapping"`
	EquivalentLetters map[string]string   `yaml:"equivalent_letters" mapstructure:"equivalent_letters" json:"equivalent_letters,omitempty"`
	Transliterations  map[string][]string `yaml:"transliterations" mapstructure:"transliterations" json:"transliterations,omitempty"`
	Reduplication     bool                `yaml:"reduplication" mapstructure:"reduplication" json:"reduplication"`
	Joiners           map[string][]string `yaml:"joiners" mapstructure:"joiners" json:"joiners"`
	Abbreviations     []string            `yaml:"abbreviations" mapstructure:"abbreviations" json:"abbreviations,omitempty"`
	SpaceDelimited    *bool               `yaml:"space_delimited" mapstructure:"space_delimited" json:"space_delimited"`
	WordConnectors    string              `yaml:"word_connectors" mapstructure:"word_connectors" json:"word_connectors,omitempty"`
	MarkGapJoiners    []string            `yaml:"mark_gap_joiners" mapstructure:"mark_gap_joiners" json:"mark_gap_joiners,omitempty"`
	WidthFold         bool                `yaml:"width_fold" mapstructure:"width_fold" json:"width_fold,omitempty"`
	Processor         string              `yaml:"processor" mapstructure:"processor" json:"processor"`
}

// IsSpaceDelimited reports whether words are separated by whitespace.
func (r Rules) IsSpaceDelimited() bool {
	return r.SpaceDelimited == nil || *r.SpaceDelimited
}

// AcceptsJoiner reports whether text joined by textJoiner satisfies a
// keyphrase whose words were joined by keyJoiner.
func (r Rules) AcceptsJoiner(keyJoiner, textJoiner string) bool {
	accepted, ok := r.Joiners[keyJoiner]
	if !ok {
		return keyJoiner == textJoiner
	}
	for _, j := range accepted {
		if j == textJoiner {
			return true
		}
	}
	return false
}

// Merge returns base with the fields set in over applied on top. Maps are
// merged key by key and lists are unioned.
func Merge(base, over Rules) Rules {
	out := base
	if over.Locale != "" {
		out.Locale = over.Locale
	}
	if over.CaseMapping != "" {
		out.CaseMapping = over.CaseMapping
	}
	if over.Processor != "" {
		out.Processor = over.Processor
	}
	if over.WordConnectors != "" {
		out.WordConnectors = over.WordConnectors
	}
	if over.SpaceDelimited != nil {
		v := *over.SpaceDelimited
		out.SpaceDelimited = &v
	}
	out.Reduplication = base.Reduplication || over.Reduplication
	out.WidthFold = base.WidthFold || over.WidthFold
	out.EquivalentLetters = mergeMap(base.EquivalentLetters, over.EquivalentLetters)
	out.Transliterations = mergeMap(base.Transliterations, over.Transliterations)
	out.Joiners = mergeMap(base.Joiners, over.Joiners)
	out.Abbreviations = union(base.Abbreviations, over.Abbreviations)
	out.MarkGapJoiners = union(base.MarkGapJoiners, over.MarkGapJoiners)
	return out
}

func mergeMap[V any](a, b map[string]V) map[string]V {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]V, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// Table maps locale keys to rules.
type Table struct {
	entries map[string]Rules
}

// Load parses a YAML rule table. It must contain a "default" entry.
func Load(data []byte) (*Table, error) {
	var entries map[string]Rules
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse locale table: %w", err)
	}
	if _, ok := entries["default"]; !ok {
		return nil, fmt.Errorf("locale table has no default entry")
	}
	t := &Table{entries: make(map[string]Rules, len(entries))}
	for k, r := range entries {
		t.entries[strings.ToLower(strings.ReplaceAll(k, "_", "-"))] = r
	}
	return t, nil
}

// DefaultTable returns the embedded rule table.
func DefaultTable() *Table {
	t, err := Load(embedded)
	if err != nil {
		panic(err)
	}
	return t
}

// Override merges extra rules into the table. Keys may use "_" or "-".
func (t *Table) Override(extra map[string]Rules) {
	for k, r := range extra {
		k = strings.ToLower(strings.ReplaceAll(k, "_", "-"))
		t.entries[k] = Merge(t.entries[k], r)
	}
}

// Keys lists the configured locale keys.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Parse reads a locale identifier such as "tr_TR", "pt-BR" or "ja".
func Parse(id string) (language.Tag, error) {
	id = strings.TrimSpace(strings.ReplaceAll(id, "_", "-"))
	if id == "" {
		return language.Und, fmt.Errorf("empty locale identifier")
	}
	tag, err := language.Parse(id)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", id, err)
	}
	return tag, nil
}

// Lookup resolves the rules for a locale identifier: the exact tag first,
// then its base language, then the default entry. ok is false when the
// identifier could not be parsed and the default rules were used instead.
func (t *Table) Lookup(id string) (Rules, language.Tag, bool) {
	rules := t.entries["default"]
	tag, err := Parse(id)
	if err != nil {
		rules.Locale = "default"
		return rules, language.Und, false
	}
	base, _ := tag.Base()
	if r, found := t.entries[strings.ToLower(base.String())]; found {
		rules = Merge(rules, r)
	}
	if exact := strings.ToLower(tag.String()); exact != strings.ToLower(base.String()) {
		if r, found := t.entries[exact]; found {
			rules = Merge(rules, r)
		}
	}
	rules.Locale = tag.String()
	return rules, tag, true
}
