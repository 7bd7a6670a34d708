package locale

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// MaxVariants caps the transliteration expansion of a single word.
const MaxVariants = 64

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'", "‛", "'", "´", "'", "`", "'")

// Normalizer canonicalizes words for comparison under one locale's rules.
// It is not safe for concurrent use.
type Normalizer struct {
	rules Rules
	caser cases.Caser
	equiv map[rune]rune
	trans map[string][]string
}

// NewNormalizer builds a normalizer for rules resolved for tag.
func NewNormalizer(rules Rules, tag language.Tag) *Normalizer {
	n := &Normalizer{rules: rules, equiv: make(map[rune]rune)}
	if rules.CaseMapping == "language" {
		n.caser = cases.Lower(tag)
	} else {
		n.caser = cases.Fold()
	}
	for from, to := range rules.EquivalentLetters {
		f, t := []rune(from), []rune(to)
		if len(f) == 1 && len(t) == 1 {
			n.equiv[f[0]] = t[0]
		}
	}
	if len(rules.Transliterations) > 0 {
		n.trans = make(map[string][]string, len(rules.Transliterations))
		for from, to := range rules.Transliterations {
			n.trans[n.letters(from)] = to
		}
	}
	return n
}

// Rules returns the rules the normalizer applies.
func (n *Normalizer) Rules() Rules { return n.rules }

// Normalize returns the canonical comparison form of s: NFC composition
// (NFKC with width folding), locale case mapping, apostrophe unification and letter equivalences.
func (n *Normalizer) Normalize(s string) string {
	s = n.letters(s)
	if len(n.equiv) == 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if to, ok := n.equiv[r]; ok {
			return to
		}
		return r
	}, s)
}

func (n *Normalizer) letters(s string) string {
	form := norm.NFC
	if n.rules.WidthFold {
		form = norm.NFKC
	}
	s = form.String(s)
	s = n.caser.String(s)
	s = form.String(s)
	return apostrophes.Replace(s)
}

// AreEquivalentLetters reports whether a and b compare equal.
func (n *Normalizer) AreEquivalentLetters(a, b rune) bool {
	return n.Normalize(string(a)) == n.Normalize(string(b))
}

// Variants returns the normalized forms of a keyphrase word that text may
// contain: the word itself plus every combination of its transliterations.
// Text is never expanded, so a keyphrase without a diacritic does not match
// text that carries one.
func (n *Normalizer) Variants(word string) []string {
	base := n.Normalize(word)
	if len(n.trans) == 0 {
		return []string{base}
	}
	variants := []string{""}
	for _, r := range base {
		options := []string{string(r)}
		for _, alt := range n.trans[string(r)] {
			options = append(options, n.Normalize(alt))
		}
		next := make([]string, 0, len(variants)*len(options))
		for _, v := range variants {
			for _, o := range options {
				if len(next) == MaxVariants {
					break
				}
				next = append(next, v+o)
			}
		}
		variants = next
	}
	return variants
}

var sharedTable = sync.OnceValue(DefaultTable)

// Normalize canonicalizes text under the default table's rules for locale.
func Normalize(text, locale string) string {
	rules, tag, _ := sharedTable().Lookup(locale)
	return NewNormalizer(rules, tag).Normalize(text)
}

// AreEquivalentLetters compares two letters under the default table's rules
// for locale.
func AreEquivalentLetters(a, b rune, locale string) bool {
	rules, tag, _ := sharedTable().Lookup(locale)
	return NewNormalizer(rules, tag).AreEquivalentLetters(a, b)
}
