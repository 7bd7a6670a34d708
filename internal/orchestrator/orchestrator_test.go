package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/prosemark/internal"
	"github.com/valpere/prosemark/internal/keyphrase"
	"github.com/valpere/prosemark/internal/language"
	"github.com/valpere/prosemark/internal/locale"
	"github.com/valpere/prosemark/internal/morphology"
)

type mockProvider struct {
	formsFunc func(ctx context.Context, kp keyphrase.Keyphrase) (keyphrase.Forms, error)
	running   atomic.Int32
	peak      atomic.Int32
}

func (m *mockProvider) Forms(ctx context.Context, kp keyphrase.Keyphrase, loc string) (keyphrase.Forms, error) {
	n := m.running.Add(1)
	defer m.running.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if m.formsFunc != nil {
		return m.formsFunc(ctx, kp)
	}
	return morphology.Literal{}.Forms(ctx, kp, loc)
}

func registry() *language.Registry {
	return language.NewRegistry(locale.DefaultTable())
}

func papers(n int) []internal.Paper {
	out := make([]internal.Paper, n)
	for i := range out {
		out[i] = internal.Paper{
			ID:        fmt.Sprintf("p%d", i),
			Markup:    fmt.Sprintf("<p>%s</p>", repeat("keyword ", i)),
			Locale:    "en",
			Keyphrase: "keyword",
		}
	}
	return out
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

func TestOrchestrator_Execute_KeepsOrder(t *testing.T) {
	o := New(registry(), morphology.Literal{}, OrchestratorConfig{Timeout: 5 * time.Second}, nil)
	res := o.Execute(context.Background(), papers(5))

	assert.Equal(t, 5, res.Succeeded)
	assert.Zero(t, res.Failed)
	require.Len(t, res.Outcomes, 5)
	for i, out := range res.Outcomes {
		require.NoError(t, out.Err)
		assert.Equal(t, fmt.Sprintf("p%d", i), out.PaperID)
		assert.Equal(t, i, out.Analysis.Count)
	}
}

func TestOrchestrator_Execute_WorkerLimit(t *testing.T) {
	m := &mockProvider{formsFunc: func(ctx context.Context, kp keyphrase.Keyphrase) (keyphrase.Forms, error) {
		time.Sleep(20 * time.Millisecond)
		return keyphrase.Forms{{kp.Text}}, nil
	}}
	o := New(registry(), m, OrchestratorConfig{Workers: 2}, nil)
	res := o.Execute(context.Background(), papers(6))

	assert.Equal(t, 6, res.Succeeded)
	assert.LessOrEqual(t, m.peak.Load(), int32(2))
}

func TestOrchestrator_Execute_Timeout(t *testing.T) {
	m := &mockProvider{formsFunc: func(ctx context.Context, kp keyphrase.Keyphrase) (keyphrase.Forms, error) {
		if kp.Text == "slow" {
			time.Sleep(time.Second)
		}
		return keyphrase.Forms{{kp.Text}}, nil
	}}
	o := New(registry(), m, OrchestratorConfig{Timeout: 30 * time.Millisecond}, nil)

	ps := []internal.Paper{
		{ID: "fast", Markup: "<p>fast</p>", Locale: "en", Keyphrase: "fast"},
		{ID: "slow", Markup: "<p>slow</p>", Locale: "en", Keyphrase: "slow"},
	}
	start := time.Now()
	res := o.Execute(context.Background(), ps)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.NoError(t, res.Outcomes[0].Err)
	assert.ErrorIs(t, res.Outcomes[1].Err, context.DeadlineExceeded)
}

func TestOrchestrator_Execute_ProviderError(t *testing.T) {
	m := &mockProvider{formsFunc: func(ctx context.Context, kp keyphrase.Keyphrase) (keyphrase.Forms, error) {
		return nil, fmt.Errorf("dictionary unavailable")
	}}
	o := New(registry(), m, OrchestratorConfig{}, nil)
	res := o.Execute(context.Background(), papers(2))

	assert.Equal(t, 2, res.Failed)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0].Error(), "dictionary unavailable")
}

func TestOrchestrator_Execute_Empty(t *testing.T) {
	o := New(registry(), nil, OrchestratorConfig{}, nil)
	res := o.Execute(context.Background(), nil)
	assert.Zero(t, res.Succeeded)
	assert.Empty(t, res.Outcomes)
}

func TestOrchestrator_Execute_IsolatedSessions(t *testing.T) {
	o := New(registry(), morphology.Literal{}, OrchestratorConfig{}, nil)
	res := o.Execute(context.Background(), []internal.Paper{
		{ID: "a", Markup: "<p>Same text.</p>", Locale: "en", Keyphrase: "text"},
		{ID: "b", Markup: "<p>Same text.</p>", Locale: "en", Keyphrase: "text"},
	})
	require.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Outcomes[0].Analysis.Count)
	assert.Equal(t, 1, res.Outcomes[1].Analysis.Count)
	assert.NotSame(t, res.Outcomes[0].Analysis.Tree, res.Outcomes[1].Analysis.Tree)
}
