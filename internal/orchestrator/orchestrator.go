// Package orchestrator analyzes independent papers concurrently. Every
// paper gets its own research session, so no cache is shared between jobs.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/valpere/prosemark/internal"
	"github.com/valpere/prosemark/internal/language"
	"github.com/valpere/prosemark/internal/morphology"
	"github.com/valpere/prosemark/internal/research"
)

// OrchestratorConfig bounds a batch run.
type OrchestratorConfig struct {
	// Timeout bounds each paper. Zero means no limit.
	Timeout time.Duration
	// Workers limits concurrent papers. Zero or less means one per paper.
	Workers int
}

// Outcome is the result of one paper, in input order.
type Outcome struct {
	PaperID  string
	Analysis *research.Analysis
	Err      error
}

// OrchestratorResult collects every outcome of a batch along with the
// errors of the failed papers.
type OrchestratorResult struct {
	Outcomes  []Outcome
	Errors    []error
	Succeeded int
	Failed    int
}

// Orchestrator analyzes batches of papers concurrently, one research
// session per paper.
type Orchestrator struct {
	registry *language.Registry
	provider morphology.Provider
	config   OrchestratorConfig
	logger   *slog.Logger
}

// New returns an orchestrator resolving locales through reg and keyphrase
// forms through provider. A nil logger uses slog.Default.
func New(reg *language.Registry, provider morphology.Provider, config OrchestratorConfig, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		registry: reg,
		provider: provider,
		config:   config,
		logger:   logger,
	}
}

// Execute analyzes papers and waits for all of them. A paper that exceeds
// the timeout is abandoned and reported as failed.
func (o *Orchestrator) Execute(ctx context.Context, papers []internal.Paper) *OrchestratorResult {
	result := &OrchestratorResult{
		Outcomes: make([]Outcome, len(papers)),
		Errors:   make([]error, 0),
	}

	workers := o.config.Workers
	if workers <= 0 || workers > len(papers) {
		workers = len(papers)
	}
	sem := make(chan struct{}, max(workers, 1))

	var wg sync.WaitGroup
	for i, p := range papers {
		wg.Add(1)
		go func(index int, paper internal.Paper) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				result.Outcomes[index] = Outcome{PaperID: paper.ID, Err: ctx.Err()}
				return
			}

			a, err := o.run(ctx, paper)
			if err != nil {
				err = fmt.Errorf("paper %s: %w", paper.ID, err)
			}
			result.Outcomes[index] = Outcome{PaperID: paper.ID, Analysis: a, Err: err}
		}(i, p)
	}
	wg.Wait()

	for _, out := range result.Outcomes {
		if out.Err != nil {
			result.Errors = append(result.Errors, out.Err)
			result.Failed++
		} else {
			result.Succeeded++
		}
	}
	return result
}

func (o *Orchestrator) run(ctx context.Context, paper internal.Paper) (*research.Analysis, error) {
	if o.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.Timeout)
		defer cancel()
	}

	type done struct {
		a   *research.Analysis
		err error
	}
	ch := make(chan done, 1)
	go func() {
		session := research.NewSession(o.registry, o.logger.With("paper", paper.ID))
		a, err := session.Analyze(ctx, paper, o.provider)
		ch <- done{a, err}
	}()

	select {
	case d := <-ch:
		return d.a, d.err
	case <-ctx.Done():
		o.logger.Warn("paper abandoned", "paper", paper.ID, "err", ctx.Err())
		return nil, ctx.Err()
	}
}
