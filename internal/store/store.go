// Package store keeps keyphrase word forms and analysis history in sqlite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row to delete does not exist.
var ErrNotFound = errors.New("not found")

// Store persists morphology forms and analysis history in sqlite.
type Store struct {
	db *sql.DB
}

// New opens the database at dbPath, creating the schema when missing.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS word_forms (
		id TEXT PRIMARY KEY,
		locale TEXT NOT NULL,
		word TEXT NOT NULL,
		form TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(locale, word, form)
	);

	-- analyses records one row per analyzed paper
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		paper_id TEXT NOT NULL,
		locale TEXT NOT NULL,
		keyphrase TEXT NOT NULL,
		match_count INTEGER NOT NULL,
		text_length INTEGER NOT NULL,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_word_forms_lookup ON word_forms(locale, word);
	CREATE INDEX IF NOT EXISTS idx_analyses_paper ON analyses(paper_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// FormEntry represents a row in the word_forms table.
type FormEntry struct {
	ID        string
	Locale    string
	Word      string
	Form      string
	CreatedAt time.Time
}

// AddForm stores form as an inflection of word. Duplicates are ignored.
func (s *Store) AddForm(ctx context.Context, locale, word, form string) error {
	word, form = normalizeText(word), normalizeText(form)
	if word == "" || form == "" {
		return fmt.Errorf("word and form must not be empty")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO word_forms (id, locale, word, form, created_at) VALUES (?, ?, ?, ?, ?)`,
		"wf_"+uuid.NewString(), strings.ToLower(locale), word, form, time.Now())
	return err
}

// AddForms stores several forms of word in one transaction.
func (s *Store) AddForms(ctx context.Context, locale, word string, forms []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	word = normalizeText(word)
	for _, f := range forms {
		f = normalizeText(f)
		if word == "" || f == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO word_forms (id, locale, word, form, created_at) VALUES (?, ?, ?, ?, ?)`,
			"wf_"+uuid.NewString(), strings.ToLower(locale), word, f, time.Now()); err != nil {
			return fmt.Errorf("failed to add form %q: %w", f, err)
		}
	}
	return tx.Commit()
}

// FormsFor returns the stored forms of word, ordered alphabetically.
func (s *Store) FormsFor(ctx context.Context, locale, word string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT form FROM word_forms WHERE locale = ? AND word = ? ORDER BY form`,
		strings.ToLower(locale), normalizeText(word))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forms []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

// ListForms returns all entries, optionally filtered by locale (pass an
// empty string to return everything).
func (s *Store) ListForms(ctx context.Context, locale string) ([]FormEntry, error) {
	query := `SELECT id, locale, word, form, created_at FROM word_forms`
	var args []interface{}
	if locale != "" {
		query += ` WHERE locale = ?`
		args = append(args, strings.ToLower(locale))
	}
	query += ` ORDER BY locale, word, form`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []FormEntry
	for rows.Next() {
		var e FormEntry
		if err := rows.Scan(&e.ID, &e.Locale, &e.Word, &e.Form, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteForm removes an entry by ID.
func (s *Store) DeleteForm(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM word_forms WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("form %s: %w", id, ErrNotFound)
	}
	return nil
}

// ClearForms deletes every entry of a locale, or all entries when locale
// is empty, and reports how many were removed.
func (s *Store) ClearForms(ctx context.Context, locale string) (int64, error) {
	query := `DELETE FROM word_forms`
	var args []interface{}
	if locale != "" {
		query += ` WHERE locale = ?`
		args = append(args, strings.ToLower(locale))
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountForms returns the number of stored entries.
func (s *Store) CountForms(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM word_forms`).Scan(&n)
	return n, err
}

// AnalysisRecord is one row of analysis history.
type AnalysisRecord struct {
	ID         string
	PaperID    string
	Locale     string
	Keyphrase  string
	MatchCount int
	TextLength int
	Error      string
	CreatedAt  time.Time
}

// SaveAnalysis appends a history row and returns its ID.
func (s *Store) SaveAnalysis(ctx context.Context, r AnalysisRecord) (string, error) {
	id := "an_" + uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, paper_id, locale, keyphrase, match_count, text_length, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.PaperID, r.Locale, r.Keyphrase, r.MatchCount, r.TextLength, r.Error, time.Now())
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListAnalyses returns history rows for a paper, newest first. An empty
// paperID returns every row.
func (s *Store) ListAnalyses(ctx context.Context, paperID string) ([]AnalysisRecord, error) {
	query := `SELECT id, paper_id, locale, keyphrase, match_count, text_length, COALESCE(error, ''), created_at FROM analyses`
	var args []interface{}
	if paperID != "" {
		query += ` WHERE paper_id = ?`
		args = append(args, paperID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisRecord
	for rows.Next() {
		var r AnalysisRecord
		if err := rows.Scan(&r.ID, &r.PaperID, &r.Locale, &r.Keyphrase, &r.MatchCount, &r.TextLength, &r.Error, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace, applies Unicode NFC normalization and
// lowercases, so lookups are insensitive to composition and case.
func normalizeText(text string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(text)))
}
