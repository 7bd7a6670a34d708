// Package match counts keyphrase occurrences in sentences. Every start
// position is tried, so overlapping occurrences are all reported.
package match

import (
	"sort"

	"github.com/valpere/prosemark/internal/keyphrase"
	"github.com/valpere/prosemark/internal/language"
	"github.com/valpere/prosemark/internal/locale"
	"github.com/valpere/prosemark/internal/parse"
	"github.com/valpere/prosemark/internal/sentence"
	"github.com/valpere/prosemark/internal/source"
)

// Match is one occurrence of the full keyphrase. Sentence indexes the
// sentence, in document order, the occurrence was found in.
type Match struct {
	Range    source.Range `json:"range"`
	Sentence int          `json:"sentence"`
}

// Result holds every occurrence. Count always equals len(Matches).
type Result struct {
	Count   int     `json:"count"`
	Matches []Match `json:"matches"`
}

type form struct {
	units    []unit
	variants [][]string // per unit; nil for joins and punctuation
}

// Matcher matches one keyphrase under one locale.
type Matcher struct {
	proc    language.Processor
	groups  [][]form
	joiners []string
	filter  *prefilter
}

// New compiles forms for kp. In exact mode only the literal form of each
// group is used. The result matches nothing when forms are empty.
func New(kp keyphrase.Keyphrase, forms keyphrase.Forms, proc language.Processor) *Matcher {
	m := &Matcher{proc: proc}
	if forms.Empty() {
		return m
	}
	if kp.Exact {
		forms = forms.Literal()
	}
	norm := proc.Normalizer()
	for _, g := range forms {
		var group []form
		for _, w := range g {
			units := unitize(proc.Tokenize(w), 0)
			if len(units) == 0 {
				continue
			}
			f := form{units: units, variants: make([][]string, len(units))}
			for i, u := range units {
				switch u.kind {
				case wordUnit:
					f.variants[i] = norm.Variants(u.text)
				case punctUnit:
					f.variants[i] = []string{norm.Normalize(u.text)}
				}
			}
			group = append(group, f)
		}
		if len(group) == 0 {
			continue
		}
		// longest form first so a group claims as much text as it can
		sort.SliceStable(group, func(i, j int) bool { return len(group[i].units) > len(group[j].units) })
		m.groups = append(m.groups, group)
	}
	if len(kp.Joiners) == len(m.groups)-1 {
		m.joiners = kp.Joiners
	}
	m.filter = newPrefilter(m.groups)
	return m
}

func (m *Matcher) joinerAfter(g int) string {
	if m.joiners != nil {
		return m.joiners[g]
	}
	return locale.JoinerSpace
}

// Sentence returns the source ranges of every occurrence in s.
func (m *Matcher) Sentence(s sentence.Sentence) []source.Range {
	if len(m.groups) == 0 || len(s.Tokens) == 0 {
		return nil
	}
	base := s.Tokens[0].Pos
	units := unitize(s.Tokens, base)
	norm := m.proc.Normalizer()
	for i := range units {
		if units[i].kind != joinUnit {
			units[i].text = norm.Normalize(units[i].text)
		}
	}
	if m.filter != nil && !m.filter.admits(units) {
		return nil
	}

	var redup map[int]int
	if m.proc.Rules().Reduplication {
		redup = reduplications(units)
	}
	// second halves of "w-w" runs already covered by a match from the first
	claimed := make(map[int]bool)

	var out []source.Range
	for i := range units {
		if units[i].kind == joinUnit || claimed[i] {
			continue
		}
		end := m.groupsAt(units, 0, i)
		if end < 0 {
			continue
		}
		if second, ok := redup[end-1]; ok {
			end = second + 1
		}
		if second, ok := redup[i]; ok && second < end {
			claimed[second] = true
		}
		out = append(out, s.Source(units[i].start, units[end-1].end))
	}
	return out
}

// groupsAt matches groups g.. starting at unit i and returns the index just
// past the match, or -1. Forms are tried longest first and a failure later
// in the phrase falls back to a shorter form.
func (m *Matcher) groupsAt(units []unit, g, i int) int {
	for _, f := range m.groups[g] {
		end := m.formAt(units, f, i)
		if end < 0 {
			continue
		}
		if g == len(m.groups)-1 {
			return end
		}
		joiner := m.joinerAfter(g)
		rules := m.proc.Rules()
		if end < len(units) && units[end].kind == joinUnit && rules.AcceptsJoiner(joiner, units[end].text) {
			if next := m.groupsAt(units, g+1, end+1); next >= 0 {
				return next
			}
		}
		if rules.AcceptsJoiner(joiner, locale.JoinerNone) {
			if next := m.groupsAt(units, g+1, end); next >= 0 {
				return next
			}
		}
	}
	return -1
}

func (m *Matcher) formAt(units []unit, f form, i int) int {
	if i+len(f.units) > len(units) {
		return -1
	}
	rules := m.proc.Rules()
	for k, fu := range f.units {
		tu := units[i+k]
		if tu.kind != fu.kind {
			return -1
		}
		switch fu.kind {
		case joinUnit:
			if !rules.AcceptsJoiner(fu.text, tu.text) {
				return -1
			}
		default:
			if !m.anyWord(f.variants[k], tu.text) {
				return -1
			}
		}
	}
	return i + len(f.units)
}

func (m *Matcher) anyWord(variants []string, text string) bool {
	for _, v := range variants {
		if m.proc.MatchWord(v, text) {
			return true
		}
	}
	return false
}

// reduplications maps the first word of every "w-w" run to its second word.
func reduplications(units []unit) map[int]int {
	out := make(map[int]int)
	for k := 0; k+2 < len(units); k++ {
		if units[k].kind == wordUnit && units[k+1].kind == joinUnit && units[k+1].text == locale.JoinerHyphen &&
			units[k+2].kind == wordUnit && units[k].text == units[k+2].text {
			out[k] = k + 2
		}
	}
	return out
}

// Count matches every sentence of the tree. Excluded subtrees carry no
// sentences, so they never produce matches.
func Count(root *parse.Node, kp keyphrase.Keyphrase, forms keyphrase.Forms, proc language.Processor) Result {
	return New(kp, forms, proc).Sentences(parse.Sentences(root))
}

// Sentences matches a list of sentences.
func (m *Matcher) Sentences(sentences []sentence.Sentence) Result {
	res := Result{Matches: []Match{}}
	for i, s := range sentences {
		for _, r := range m.Sentence(s) {
			res.Matches = append(res.Matches, Match{Range: r, Sentence: i})
		}
	}
	res.Count = len(res.Matches)
	return res
}
