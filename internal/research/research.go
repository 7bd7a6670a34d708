// Package research runs keyphrase research over one document version. A
// Session owns the sentence cache and the resolved locale strategies, so
// independent sessions never share mutable state.
package research

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/valpere/prosemark/internal"
	"github.com/valpere/prosemark/internal/highlight"
	"github.com/valpere/prosemark/internal/keyphrase"
	"github.com/valpere/prosemark/internal/language"
	"github.com/valpere/prosemark/internal/match"
	"github.com/valpere/prosemark/internal/morphology"
	"github.com/valpere/prosemark/internal/parse"
	"github.com/valpere/prosemark/internal/sentence"
	"github.com/valpere/prosemark/internal/source"
	"github.com/valpere/prosemark/internal/tokenize"
)

// Result is the output of a research function.
type Result struct {
	Count    int              `json:"count"`
	Markings []highlight.Mark `json:"markings"`
}

// Analysis bundles everything computed for one paper.
type Analysis struct {
	PaperID    string              `json:"paperId,omitempty"`
	Locale     string              `json:"locale"`
	Processor  string              `json:"processor"`
	Keyphrase  keyphrase.Keyphrase `json:"keyphrase"`
	Forms      keyphrase.Forms     `json:"forms"`
	TextLength int                 `json:"textLength"`
	Matches    []match.Match       `json:"matches"`
	Result
	Tree *parse.Node `json:"-"`
}

// Session analyzes papers one at a time. The sentence cache and resolved
// processors persist between analyses; Reset drops only the cache.
type Session struct {
	registry *language.Registry
	cache    *sentence.Cache
	base     *slog.Logger
	logger   *slog.Logger

	mu    sync.Mutex
	procs map[string]language.Processor
}

// NewSession creates a session with an empty cache. A nil logger uses
// slog.Default().
func NewSession(reg *language.Registry, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		registry: reg,
		cache:    sentence.NewCache(),
		base:     logger,
		procs:    make(map[string]language.Processor),
	}
	s.logger = logger.With("session", s.cache.ID().String())
	return s
}

// ID is the cache isolation token of the current document version.
func (s *Session) ID() string {
	return s.cache.ID().String()
}

// Cache exposes the session's sentence cache.
func (s *Session) Cache() *sentence.Cache {
	return s.cache
}

// Reset discards memoized segmentation before analyzing a new version of
// the document.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	hits, misses := s.cache.Stats()
	s.cache.Reset()
	s.logger = s.base.With("session", s.cache.ID().String())
	s.logger.Debug("session reset", "hits", hits, "misses", misses)
}

// Processor resolves the strategy for a locale once per session. Unknown
// locales fall back to default rules with a warning.
func (s *Session) Processor(id string) language.Processor {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.procs[id]; ok {
		return p
	}
	p, ok := s.registry.Resolve(id, s.cache)
	if !ok {
		s.logger.Warn("unknown locale, using default rules", "locale", id)
	}
	s.procs[id] = p
	return p
}

// Build parses the paper's markup with its locale's segmenter.
func (s *Session) Build(p internal.Paper) *parse.Node {
	b := parse.Builder{Segmenter: s.Processor(p.Locale), Blocks: p.Blocks}
	return b.Build(p.Markup)
}

// KeyphraseCount counts the keyphrase in a built tree and synthesizes the
// marks of every sentence that matched.
func (s *Session) KeyphraseCount(root *parse.Node, p internal.Paper, forms keyphrase.Forms) (Result, error) {
	res, _, err := s.keyphraseCount(root, p, forms)
	return res, err
}

func (s *Session) keyphraseCount(root *parse.Node, p internal.Paper, forms keyphrase.Forms) (Result, []match.Match, error) {
	out := Result{Markings: []highlight.Mark{}}
	kp := keyphrase.Parse(p.Keyphrase)
	if kp.Text == "" || forms.Empty() {
		return out, []match.Match{}, nil
	}

	proc := s.Processor(p.Locale)
	sentences := parse.Sentences(root)
	found := match.New(kp, forms, proc).Sentences(sentences)

	bySentence := make(map[int][]source.Range)
	for _, m := range found.Matches {
		bySentence[m.Sentence] = append(bySentence[m.Sentence], m.Range)
	}
	opts := highlight.Options{Joinable: proc.Rules().MarkGapJoiners}
	for i, sen := range sentences {
		ranges := bySentence[i]
		if len(ranges) == 0 {
			continue
		}
		marks, err := highlight.GetMarks(sen, ranges, opts)
		if err != nil {
			return Result{}, nil, fmt.Errorf("failed to mark sentence %d: %w", i, err)
		}
		out.Markings = append(out.Markings, marks...)
	}
	out.Count = found.Count
	return out, found.Matches, nil
}

// TextLength counts the characters of every sentence under the locale's
// counting rule.
func (s *Session) TextLength(root *parse.Node, locale string) int {
	proc := s.Processor(locale)
	n := 0
	for _, sen := range parse.Sentences(root) {
		n += proc.CountCharacters(sen.Text)
	}
	return n
}

// Words lists the distinct words of the tree's prose in document order.
func Words(root *parse.Node) []string {
	seen := make(map[string]bool)
	var words []string
	for _, sen := range parse.Sentences(root) {
		for _, t := range sen.Tokens {
			if t.Kind != tokenize.Word || seen[t.Text] {
				continue
			}
			seen[t.Text] = true
			words = append(words, t.Text)
		}
	}
	return words
}

// Analyze builds the tree, asks provider for keyphrase forms and counts
// them. A nil provider yields literal forms.
func (s *Session) Analyze(ctx context.Context, p internal.Paper, provider morphology.Provider) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root := s.Build(p)
	if err := parse.Validate(root, len(p.Markup)); err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}

	if provider == nil {
		provider = morphology.Literal{}
	}
	if v, ok := provider.(morphology.VocabularyAware); ok {
		provider = v.WithVocabulary(Words(root))
	}
	kp := keyphrase.Parse(p.Keyphrase)
	forms, err := provider.Forms(ctx, kp, p.Locale)
	if err != nil {
		return nil, fmt.Errorf("failed to get keyphrase forms: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, matches, err := s.keyphraseCount(root, p, forms)
	if err != nil {
		return nil, err
	}
	hits, misses := s.cache.Stats()
	s.logger.Debug("paper analyzed", "paper", p.ID, "locale", p.Locale, "count", res.Count, "cache_hits", hits, "cache_misses", misses)

	if forms == nil {
		forms = keyphrase.Forms{}
	}
	return &Analysis{
		PaperID:    p.ID,
		Locale:     p.Locale,
		Processor:  s.Processor(p.Locale).Name(),
		Keyphrase:  kp,
		Forms:      forms,
		TextLength: s.TextLength(root, p.Locale),
		Matches:    matches,
		Result:     res,
		Tree:       root,
	}, nil
}
