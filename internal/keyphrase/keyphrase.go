// Package keyphrase parses the keyphrase an author typed and holds the
// morphological forms supplied for it.
package keyphrase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/valpere/prosemark/internal/locale"
	"github.com/valpere/prosemark/internal/tokenize"
)

// Keyphrase is a parsed keyphrase. Text has outer quotes removed; Exact is
// set when the author wrapped the phrase in double quotation marks.
type Keyphrase struct {
	Raw     string   `json:"raw"`
	Text    string   `json:"text"`
	Exact   bool     `json:"exact"`
	Joiners []string `json:"joiners,omitempty"`
}

// Forms is an ordered list of stem-groups. Each group lists surface forms
// that count as the same word; the first entry is the literal one.
type Forms [][]string

// Empty reports whether no group has a usable form.
func (f Forms) Empty() bool {
	for _, g := range f {
		for _, w := range g {
			if strings.TrimSpace(w) != "" {
				return false
			}
		}
	}
	return true
}

// Literal returns only the first form of each group.
func (f Forms) Literal() Forms {
	out := make(Forms, 0, len(f))
	for _, g := range f {
		if len(g) > 0 {
			out = append(out, g[:1])
		}
	}
	return out
}

// quote pairs that request exact matching
var exactPairs = [][2]rune{
	{'"', '"'},
	{'“', '”'},
	{'„', '“'},
	{'„', '”'},
	{'〝', '〞'},
	{'〝', '〟'},
}

// quote pairs that are stripped but keep loose matching
var loosePairs = [][2]rune{
	{'«', '»'},
	{'‹', '›'},
	{'»', '«'},
}

// Parse trims raw and detects exact-match quoting.
func Parse(raw string) Keyphrase {
	kp := Keyphrase{Raw: raw, Text: strings.TrimSpace(raw)}
	if inner, ok := unwrap(kp.Text, exactPairs); ok {
		kp.Text, kp.Exact = inner, inner != ""
	} else if inner, ok := unwrap(kp.Text, loosePairs); ok {
		kp.Text = inner
	}
	kp.Joiners = Joiners(kp.Text)
	return kp
}

func unwrap(text string, pairs [][2]rune) (string, bool) {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text, false
	}
	first, last := runes[0], runes[n-1]
	for _, p := range pairs {
		if first == p[0] && last == p[1] {
			return strings.TrimSpace(string(runes[1 : n-1])), true
		}
	}
	return text, false
}

// Joiners lists the joiner between each pair of consecutive words of text:
// locale.JoinerSpace, locale.JoinerHyphen or locale.JoinerUnderscore.
func Joiners(text string) []string {
	var out []string
	pending := ""
	seenWord := false
	for _, t := range tokenize.Tokenize(text, tokenize.Rules{}) {
		switch t.Kind {
		case tokenize.Space:
			if seenWord && pending == "" {
				pending = locale.JoinerSpace
			}
		case tokenize.Word:
			for _, part := range SplitWord(t.Text) {
				if part.Joiner != "" {
					pending = part.Joiner
					continue
				}
				if seenWord {
					if pending == "" {
						pending = locale.JoinerSpace
					}
					out = append(out, pending)
				}
				seenWord, pending = true, ""
			}
		}
	}
	return out
}

// Part is a piece of a word: either letters or a joiner. Start and End are
// byte offsets within the word.
type Part struct {
	Text       string
	Joiner     string
	Start, End int
}

// SplitWord splits a word token at hyphens and underscores. Parts alternate
// between letters and joiners, starting and ending with letters.
func SplitWord(word string) []Part {
	var out []Part
	start := 0
	for i, r := range word {
		j := joinerName(r)
		if j == "" {
			continue
		}
		end := i + utf8.RuneLen(r)
		out = append(out,
			Part{Text: word[start:i], Start: start, End: i},
			Part{Text: word[i:end], Joiner: j, Start: i, End: end})
		start = end
	}
	return append(out, Part{Text: word[start:], Start: start, End: len(word)})
}

func joinerName(r rune) string {
	switch r {
	case '-', '‐', '‑':
		return locale.JoinerHyphen
	case '_':
		return locale.JoinerUnderscore
	}
	return ""
}

// Words splits the keyphrase into words on whitespace.
func (k Keyphrase) Words() []string {
	return strings.FieldsFunc(k.Text, unicode.IsSpace)
}
