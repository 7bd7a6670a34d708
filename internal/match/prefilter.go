package match

import (
	"strings"

	aho "github.com/petar-dambovaliev/aho-corasick"
)

// prefilter rejects sentences that cannot contain the phrase: each group
// needs at least one of its forms' leading words somewhere in the sentence.
type prefilter struct {
	automaton aho.AhoCorasick
	owners    [][]int // pattern index -> groups
	groups    int
}

func newPrefilter(groups [][]form) *prefilter {
	index := make(map[string]int)
	var patterns []string
	var owners [][]int
	for g, group := range groups {
		var leads []string
		for _, f := range group {
			lead := -1
			for k, u := range f.units {
				if u.kind == wordUnit {
					lead = k
					break
				}
			}
			if lead < 0 {
				// a form of punctuation only cannot be screened
				return nil
			}
			leads = append(leads, f.variants[lead]...)
		}
		for _, p := range leads {
			if p == "" {
				return nil
			}
			i, ok := index[p]
			if !ok {
				i = len(patterns)
				index[p] = i
				patterns = append(patterns, p)
				owners = append(owners, nil)
			}
			owners[i] = append(owners[i], g)
		}
	}
	if len(patterns) == 0 {
		return nil
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{DFA: true})
	return &prefilter{automaton: builder.Build(patterns), owners: owners, groups: len(groups)}
}

// admits reports whether every group has a candidate word in units, which
// must already be normalized.
func (p *prefilter) admits(units []unit) bool {
	var b strings.Builder
	for _, u := range units {
		if u.kind == wordUnit {
			b.WriteString(u.text)
			b.WriteByte(0)
		}
	}
	seen := make([]bool, p.groups)
	left := p.groups
	iter := p.automaton.IterOverlappingByte([]byte(b.String()))
	for next := iter.Next(); next != nil; next = iter.Next() {
		for _, g := range p.owners[next.Pattern()] {
			if !seen[g] {
				seen[g] = true
				left--
			}
		}
		if left == 0 {
			return true
		}
	}
	return left == 0
}
