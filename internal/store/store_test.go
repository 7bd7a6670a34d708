package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	assert.Error(t, err)
}

func TestStore_AddAndLookupForms(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddForm(ctx, "en", "Key", "keys"))
	require.NoError(t, s.AddForm(ctx, "EN", "key", "keyed"))
	require.NoError(t, s.AddForm(ctx, "en", "key", "keys"))

	forms, err := s.FormsFor(ctx, "en", " KEY ")
	require.NoError(t, err)
	assert.Equal(t, []string{"keyed", "keys"}, forms)

	forms, err = s.FormsFor(ctx, "de", "key")
	require.NoError(t, err)
	assert.Empty(t, forms)
}

func TestStore_AddForm_Empty(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.AddForm(context.Background(), "en", "  ", "keys"))
}

func TestStore_AddForm_NFC(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddForm(ctx, "fr", "cafe\u0301", "cafe\u0301s"))
	forms, err := s.FormsFor(ctx, "fr", "café")
	require.NoError(t, err)
	assert.Equal(t, []string{"cafés"}, forms)
}

func TestStore_AddForms(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddForms(ctx, "sv", "bil", []string{"bilen", "bilar", "", "bilen"}))
	n, err := s.CountForms(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_ListDeleteClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddForms(ctx, "en", "word", []string{"words"}))
	require.NoError(t, s.AddForms(ctx, "de", "wort", []string{"worte", "wörter"}))

	all, err := s.ListForms(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "de", all[0].Locale)

	en, err := s.ListForms(ctx, "en")
	require.NoError(t, err)
	require.Len(t, en, 1)
	assert.Equal(t, "words", en[0].Form)

	require.NoError(t, s.DeleteForm(ctx, en[0].ID))
	assert.ErrorIs(t, s.DeleteForm(ctx, en[0].ID), ErrNotFound)

	n, err := s.ClearForms(ctx, "de")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := s.CountForms(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_Analyses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveAnalysis(ctx, AnalysisRecord{PaperID: "p1", Locale: "en", Keyphrase: "key", MatchCount: 2, TextLength: 40})
	require.NoError(t, err)
	assert.Contains(t, id, "an_")

	_, err = s.SaveAnalysis(ctx, AnalysisRecord{PaperID: "p2", Locale: "en", Keyphrase: "key", Error: "boom"})
	require.NoError(t, err)

	rows, err := s.ListAnalyses(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].MatchCount)
	assert.Empty(t, rows[0].Error)

	rows, err = s.ListAnalyses(ctx, "")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
